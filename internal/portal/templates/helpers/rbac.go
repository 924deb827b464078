package helpers

import (
	"context"

	"finitefield.org/storefront-portal/internal/portal/httpserver/middleware"
	"finitefield.org/storefront-portal/internal/portal/rbac"
)

// HasCapability reports whether the authenticated user possesses the capability.
// Empty capability strings default to true to avoid guarding unconstrained actions.
func HasCapability(ctx context.Context, capability rbac.Capability) bool {
	if capability == "" {
		return true
	}
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return false
	}
	return rbac.HasCapability(user.Role, capability)
}

// CurrentRole returns the normalised role of the signed-in user.
func CurrentRole(ctx context.Context) rbac.Role {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return ""
	}
	return rbac.Normalise(user.Role)
}
