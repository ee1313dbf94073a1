package models

import "strings"

// Role is the coarse identity classification that drives authorization.
type Role = string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleNurse        Role = "nurse"
	RoleReceptionist Role = "receptionist"
	RoleTechnician   Role = "technician"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist, RoleTechnician:
		return true
	default:
		return false
	}
}

// rolePermissions is the fine-grained overlay on top of roles. Role
// stays the primary discriminator; permissions only refine it.
var rolePermissions = map[Role][]string{
	RoleAdmin:        {"admin:*", "patients:*", "visits:*", "forms:*"},
	RoleDoctor:       {"patients:read", "patients:write", "visits:read", "visits:write", "forms:read", "forms:write"},
	RoleNurse:        {"patients:read", "patients:write", "visits:read", "forms:read", "forms:write"},
	RoleReceptionist: {"patients:read", "patients:write", "visits:read", "visits:write", "forms:read"},
	RoleTechnician:   {"patients:read", "forms:read", "forms:write"},
}

func PermissionsFor(role Role) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// PermissionSatisfied reports whether any granted permission covers the
// required one. A trailing wildcard matches the whole namespace, so
// "admin:*" satisfies "admin:backup".
func PermissionSatisfied(granted []string, required string) bool {
	for _, p := range granted {
		if p == required || p == "*" {
			return true
		}
		if strings.HasSuffix(p, ":*") && strings.HasPrefix(required, strings.TrimSuffix(p, "*")) {
			return true
		}
	}
	return false
}
