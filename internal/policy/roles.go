package policy

import (
	"context"
	"strings"

	"github.com/diewo77/store-admin/gate"
)

// Operator roles carried in the backend token.
const (
	RoleAdmin   = "admin"
	RoleEditor  = "editor"
	RoleSupport = "support"
	RoleViewer  = "viewer"
)

// Profiles maps every known role to its permissions. Unknown roles get no profile.
var Profiles = map[string]gate.Profile{
	RoleAdmin: gate.NewStaticProfile(RoleAdmin, gate.PermissionSuperAdmin),
	RoleEditor: gate.NewStaticProfile(RoleEditor, gate.ParsePermissions(
		"*:list,*:view,*:create,*:update,*:upload,*:export")...),
	RoleSupport: gate.NewStaticProfile(RoleSupport, gate.ParsePermissions(
		"*:list,*:view,orders:*,customers:*,complaints:*")...),
	RoleViewer: gate.NewStaticProfile(RoleViewer, gate.ParsePermissions("*:list,*:view")...),
}

// RoleSource returns the role of a live session.
type RoleSource interface {
	SessionRole(ctx context.Context, sessionID string) (string, error)
}

// SessionProfileResolver resolves a session id to the profile of its role.
// It implements gate.ProfileResolver for string session ids.
type SessionProfileResolver struct {
	Roles RoleSource
}

// NewSessionProfileResolver creates a resolver reading roles from src.
func NewSessionProfileResolver(src RoleSource) *SessionProfileResolver {
	return &SessionProfileResolver{Roles: src}
}

// Resolve looks up the session role. An unknown role yields gate.ErrNoProfile.
func (r *SessionProfileResolver) Resolve(ctx context.Context, sessionID string) (gate.Profile, error) {
	role, err := r.Roles.SessionRole(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	p, ok := Profiles[strings.ToLower(strings.TrimSpace(role))]
	if !ok {
		return nil, gate.ErrNoProfile
	}
	return p, nil
}
