// Package policy turns operator roles into permission checks for routes and templates.
package policy

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/store-admin/auth"
	"github.com/diewo77/store-admin/gate"
	"github.com/diewo77/store-admin/httpx"
)

// AuthGate holds the configured Gate with caching.
// Use this as a central authorization point in the application.
type AuthGate struct {
	Gate          *gate.Gate[string]
	CacheResolver *gate.CachedResolver[string]
}

// NewAuthGate creates a fully configured authorization gate.
// - roles: where session roles are read from (the local store)
// - cacheTTL: how long to cache resolved profiles (e.g., 5*time.Minute)
func NewAuthGate(roles RoleSource, cacheTTL time.Duration) *AuthGate {
	// Wrap with caching so templates calling can() don't query the store each time
	cached := gate.NewCachedResolver[string](NewSessionProfileResolver(roles), cacheTTL)
	return &AuthGate{
		Gate:          gate.New[string](cached),
		CacheResolver: cached,
	}
}

// Authorize checks if the current operator can perform an action on a resource type.
// Returns nil if authorized, gate.ErrUnauthorized otherwise.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string) error {
	sid := auth.SessionIDFrom(ctx)
	if sid == "" {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, sid, action, resourceType)
}

// Can is a convenience method that returns bool instead of error.
func (ag *AuthGate) Can(r *http.Request, resourceType string, action gate.Action) bool {
	return ag.Authorize(r.Context(), action, resourceType) == nil
}

// CanString adapts Can to the template resolver signature.
func (ag *AuthGate) CanString(r *http.Request, resourceType, action string) bool {
	return ag.Can(r, resourceType, gate.Action(action))
}

// IsAdmin reports whether the operator holds "*:*".
func (ag *AuthGate) IsAdmin(r *http.Request) bool {
	return ag.Gate.IsSuperAdmin(r.Context(), auth.SessionIDFrom(r.Context()))
}

// Forget clears the cached profile of a session. Call this on logout.
func (ag *AuthGate) Forget(sessionID string) {
	ag.CacheResolver.Invalidate(sessionID)
}

// InvalidateAll clears the entire profile cache.
func (ag *AuthGate) InvalidateAll() {
	ag.CacheResolver.InvalidateAll()
}

// RequirePermission returns middleware that checks profile permission.
// Anonymous requests are sent to login; others without the permission get 403.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.SessionIDFrom(r.Context()) == "" {
				auth.Unauthorized(w, r)
				return
			}
			if !ag.Can(r, resourceType, action) {
				forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns middleware that only allows operators with the "*:*" permission.
func (ag *AuthGate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.SessionIDFrom(r.Context()) == "" {
				auth.Unauthorized(w, r)
				return
			}
			if !ag.IsAdmin(r) {
				forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forbidden(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusForbidden, gate.ErrUnauthorized.Error(), nil)
		return
	}
	http.Error(w, "Forbidden", http.StatusForbidden)
}
