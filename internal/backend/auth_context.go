package backend

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	nameClaimURI = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"
	roleClaimURI = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
	idClaimURI   = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
)

// Claims is the identity information the dashboard reads from a backend token.
type Claims struct {
	Subject   string
	Name      string
	Role      string
	ExpiresAt time.Time
}

// ParseClaims reads identity claims from a JWT without verifying its
// signature. The backend stays the authority on token validity; the dashboard
// only uses the claims for display, role mapping and session expiry.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, err
	}
	var c Claims
	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	if c.Subject == "" {
		c.Subject = firstString(mc, "nameid", "userId", idClaimURI)
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	c.Name = firstString(mc, "unique_name", "name", "userName", nameClaimURI)
	c.Role = firstString(mc, "role", "roles", roleClaimURI)
	return c, nil
}

func firstString(mc jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		switch v := mc[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// AuthContext holds the bearer token of one signed-in operator. It is handed
// to Client.For so every request made on that operator's behalf carries the
// token; there is no process-wide token.
type AuthContext struct {
	mu     sync.RWMutex
	token  string
	claims Claims
	now    func() time.Time
}

// NewAuthContext returns a context already logged in with token. An empty
// token yields an anonymous context.
func NewAuthContext(token string) *AuthContext {
	a := &AuthContext{now: time.Now}
	if token != "" {
		_ = a.Login(token)
	}
	return a
}

// Login stores token. Opaque (non-JWT) tokens are accepted with empty claims.
func (a *AuthContext) Login(token string) error {
	if token == "" {
		return errors.New("backend: empty token")
	}
	claims, err := ParseClaims(token)
	if err != nil {
		claims = Claims{}
	}
	a.mu.Lock()
	a.token = token
	a.claims = claims
	a.mu.Unlock()
	return nil
}

// Logout forgets the token.
func (a *AuthContext) Logout() {
	a.mu.Lock()
	a.token = ""
	a.claims = Claims{}
	a.mu.Unlock()
}

// Claims returns the claims read at login.
func (a *AuthContext) Claims() Claims {
	if a == nil {
		return Claims{}
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.claims
}

// Expired reports whether the token carries an expiry that has passed.
func (a *AuthContext) Expired() bool {
	if a == nil {
		return false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return !a.claims.ExpiresAt.IsZero() && !a.now().Before(a.claims.ExpiresAt)
}

// Authenticated reports whether a usable token is present.
func (a *AuthContext) Authenticated() bool {
	return a.Token() != ""
}

// Token returns the bearer token, or "" when anonymous or expired.
func (a *AuthContext) Token() string {
	if a == nil || a.Expired() {
		return ""
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}
