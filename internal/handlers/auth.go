package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/diewo77/store-admin/auth"
	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/store"
	"github.com/diewo77/store-admin/validation"
)

// SessionStore keeps operator sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, in store.NewSessionInput) (*store.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	RecordAudit(ctx context.Context, entry store.AuditLog) error
}

// AuthHandler signs operators in against the backend and out again.
type AuthHandler struct {
	client   *backend.Client
	sessions SessionStore
	cookies  *auth.Manager
	ttl      time.Duration
	log      *zap.Logger
	// Forget drops cached permissions of a session on logout.
	Forget func(sessionID string)
}

// NewAuthHandler wires login and logout.
func NewAuthHandler(client *backend.Client, sessions SessionStore, cookies *auth.Manager, ttl time.Duration, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{client: client, sessions: sessions, cookies: cookies, ttl: ttl, log: log}
}

// LoginPage shows the sign-in form; signed-in operators go to the dashboard.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.IdentityFrom(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, h.log, http.StatusOK, "login.html", map[string]any{"Title": "login", "Errors": validation.Violations{}})
}

// Login exchanges the credentials for a backend token and opens a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	userName := strings.TrimSpace(r.PostForm.Get("userName"))
	password := r.PostForm.Get("password")
	errs := validation.Violations{}
	validation.Required("userName", userName, errs)
	validation.Required("password", password, errs)
	if !errs.Empty() {
		h.loginFailed(w, r, http.StatusBadRequest, userName, errs, "")
		return
	}

	res, err := h.client.Login(r.Context(), userName, password)
	if err != nil {
		h.log.Info("login rejected", zap.String("user", userName), zap.Error(err))
		msg := backend.Message(err, t(r, "invalid_credentials"))
		if errors.Is(err, backend.ErrTransport) {
			msg = t(r, "backend_unreachable")
		}
		h.loginFailed(w, r, http.StatusUnauthorized, userName, errs, msg)
		return
	}

	sess, err := h.sessions.CreateSession(r.Context(), store.NewSessionInput{Token: res.Token, Claims: res.Claims, TTL: h.ttl})
	if err != nil {
		h.log.Error("create session", zap.Error(err))
		h.loginFailed(w, r, http.StatusInternalServerError, userName, errs, t(r, "request_failed"))
		return
	}
	h.cookies.CreateSession(w, sess.ID, sess.ExpiresAt)
	h.audit(r, sess.ID, sess.Name, "login")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, status int, userName string, errs validation.Violations, msg string) {
	render(w, r, h.log, status, "login.html", map[string]any{
		"Title":    "login",
		"UserName": userName,
		"Errors":   errs,
		"Error":    msg,
	})
}

// Logout destroys the session, its drafts and pending delete confirmations.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id, ok := auth.IdentityFrom(r.Context()); ok {
		if err := h.sessions.DeleteSession(r.Context(), id.SessionID); err != nil {
			h.log.Error("delete session", zap.Error(err))
		}
		if id.Auth != nil {
			id.Auth.Logout()
		}
		if h.Forget != nil {
			h.Forget(id.SessionID)
		}
		h.audit(r, id.SessionID, id.Name, "logout")
	}
	h.cookies.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) audit(r *http.Request, sessionID, actor, action string) {
	err := h.sessions.RecordAudit(context.WithoutCancel(r.Context()), store.AuditLog{
		SessionID: sessionID,
		Actor:     actor,
		Resource:  "session",
		Action:    action,
	})
	if err != nil {
		h.log.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}
