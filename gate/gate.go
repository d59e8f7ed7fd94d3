// Package gate provides profile-based authorization. A subject resolves to a
// Profile holding "resource:action" permissions with wildcard support; the
// Gate answers whether the subject may perform an action on a resource type.
//
// Resource data itself is owned by the remote backend, so there are no
// per-record ownership policies here.
package gate

import "context"

// Gate is the central authorization checkpoint.
// U is the subject type (must be comparable for zero-value check).
type Gate[U comparable] struct {
	resolver ProfileResolver[U]
}

// New creates a gate backed by resolver.
func New[U comparable](resolver ProfileResolver[U]) *Gate[U] {
	return &Gate[U]{resolver: resolver}
}

// Authorize returns nil if subject's profile grants resourceType:action.
func (g *Gate[U]) Authorize(ctx context.Context, subject U, action Action, resourceType string) error {
	var zero U
	if subject == zero {
		return ErrUnauthorized
	}
	profile, err := g.resolver.Resolve(ctx, subject)
	if err != nil || profile == nil {
		return ErrUnauthorized
	}
	if !profile.HasPermission(NewPermission(resourceType, action)) {
		return ErrUnauthorized
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate[U]) Can(ctx context.Context, subject U, action Action, resourceType string) bool {
	return g.Authorize(ctx, subject, action, resourceType) == nil
}

// IsSuperAdmin reports whether subject holds "*:*".
func (g *Gate[U]) IsSuperAdmin(ctx context.Context, subject U) bool {
	var zero U
	if subject == zero {
		return false
	}
	profile, err := g.resolver.Resolve(ctx, subject)
	if err != nil || profile == nil {
		return false
	}
	for _, p := range profile.Permissions() {
		if p == PermissionSuperAdmin {
			return true
		}
	}
	return false
}
