package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/store-admin/httpx"
	"github.com/diewo77/store-admin/internal/backend"
)

type ctxKey string

const (
	sessionCookieName = "session"
	identityCtxKey    = ctxKey("identity")
)

// Identity is the signed-in operator attached to a request.
type Identity struct {
	SessionID string
	Subject   string
	Name      string
	Role      string
	ExpiresAt time.Time
	// Auth carries the operator's bearer token for backend calls.
	Auth *backend.AuthContext
}

// Loader resolves a session id to the operator behind it.
type Loader interface {
	LoadIdentity(ctx context.Context, sessionID string) (Identity, error)
}

// Manager issues and verifies the session cookie. The cookie carries only the
// session id plus an HMAC; the token lives server side.
type Manager struct {
	secret []byte
	loader Loader
	Secure bool
}

// NewManager returns a Manager signing with secret and loading sessions through loader.
func NewManager(secret string, loader Loader) *Manager {
	return &Manager{secret: []byte(secret), loader: loader}
}

func (m *Manager) sign(value string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CreateSession sets the signed cookie for sessionID.
func (m *Manager) CreateSession(w http.ResponseWriter, sessionID string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID + "." + m.sign(sessionID),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

// ClearSession deletes the session cookie.
func (m *Manager) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, Secure: m.Secure, SameSite: http.SameSiteLaxMode})
}

// ParseSession validates the cookie and returns the session id.
func (m *Manager) ParseSession(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	id, sig, ok := strings.Cut(c.Value, ".")
	if !ok || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(id))) {
		return "", false
	}
	return id, true
}

// WithIdentity stores the operator in context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, id)
}

// IdentityFrom extracts the operator.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey).(Identity)
	return id, ok
}

// SessionIDFrom returns the session id of the operator, or "".
func SessionIDFrom(ctx context.Context) string {
	id, _ := IdentityFrom(ctx)
	return id.SessionID
}

// ErrSessionExpired marks a session whose backend token has lapsed.
var ErrSessionExpired = errors.New("auth: session expired")

// Middleware attaches the operator to the request context when the cookie
// names a live session. A stale cookie is cleared.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sid, ok := m.ParseSession(r); ok {
			id, err := m.loader.LoadIdentity(r.Context(), sid)
			if err == nil && id.Auth.Expired() {
				err = ErrSessionExpired
			}
			if err != nil {
				m.ClearSession(w)
			} else {
				r = r.WithContext(WithIdentity(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth redirects to /login if not authenticated (HTML) or returns 401
// for JSON and fragment requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			Unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Unauthorized answers a request that needs a fresh login.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	switch {
	case httpx.WantsJSON(r):
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
	case httpx.IsDatastar(r):
		w.WriteHeader(http.StatusUnauthorized)
	default:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
