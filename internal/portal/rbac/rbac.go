package rbac

import (
	"strings"
)

// Role represents an account access tier.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Capability represents a discrete feature toggle which can be checked in handlers and templates.
type Capability string

const (
	CapDashboardView Capability = "dashboard.view"
	CapProductsView  Capability = "products.view"
	CapAdminConsole  Capability = "admin.console"
)

// capabilityRoles maps each capability to the roles permitted to access it.
var capabilityRoles = map[Capability]Roles{
	CapDashboardView: {RoleAdmin, RoleUser},
	CapProductsView:  {RoleAdmin, RoleUser},
	CapAdminConsole:  {RoleAdmin},
}

// Roles captures a list of roles and exposes intersection checks used for RBAC evaluation.
type Roles []Role

// Has returns true if the provided role exists in the set.
func (rs Roles) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// Intersects returns true if any role in the candidate slice is also present in the set.
func (rs Roles) Intersects(candidate Roles) bool {
	for _, role := range candidate {
		if rs.Has(role) {
			return true
		}
	}
	return false
}

// Normalise converts a raw role string into its canonical form.
func Normalise(raw string) Role {
	return Role(strings.ToLower(strings.TrimSpace(raw)))
}

// IsAdmin reports whether the raw role names the admin tier.
func IsAdmin(raw string) bool {
	return Normalise(raw) == RoleAdmin
}

// HasCapability reports whether the role grants access to the capability.
// Admins implicitly possess every defined capability.
func HasCapability(raw string, capability Capability) bool {
	if capability == "" {
		return true
	}
	allowed, ok := capabilityRoles[capability]
	if !ok {
		return false
	}
	role := Normalise(raw)
	if role == RoleAdmin {
		return true
	}
	return allowed.Has(role)
}

// CapabilitiesFor enumerates the capabilities accessible to the role.
func CapabilitiesFor(raw string) map[Capability]bool {
	caps := make(map[Capability]bool, len(capabilityRoles))
	for capability := range capabilityRoles {
		if HasCapability(raw, capability) {
			caps[capability] = true
		}
	}
	return caps
}
