package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	t.Parallel()

	for _, role := range []string{RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist, RoleTechnician} {
		assert.True(t, ValidRole(role), role)
	}
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole(""))
	assert.False(t, ValidRole("Admin"))
}

func TestPermissionsFor_ReturnsCopy(t *testing.T) {
	t.Parallel()

	perms := PermissionsFor(RoleDoctor)
	assert.NotEmpty(t, perms)

	perms[0] = "mutated"
	assert.NotEqual(t, "mutated", PermissionsFor(RoleDoctor)[0])
}

func TestPermissionSatisfied(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		granted  []string
		required string
		want     bool
	}{
		{name: "exact match", granted: []string{"patients:read"}, required: "patients:read", want: true},
		{name: "missing", granted: []string{"patients:read"}, required: "patients:write", want: false},
		{name: "namespace wildcard", granted: []string{"patients:*"}, required: "patients:write", want: true},
		{name: "wildcard wrong namespace", granted: []string{"patients:*"}, required: "visits:read", want: false},
		{name: "admin wildcard covers unseen action", granted: []string{"admin:*"}, required: "admin:backup", want: true},
		{name: "global wildcard", granted: []string{"*"}, required: "anything:at_all", want: true},
		{name: "empty grants", granted: nil, required: "patients:read", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, PermissionSatisfied(tt.granted, tt.required))
		})
	}
}

func TestRolePermissions_Coverage(t *testing.T) {
	t.Parallel()

	// Every defined role must resolve to at least one permission.
	for _, role := range []string{RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist, RoleTechnician} {
		assert.NotEmpty(t, PermissionsFor(role), role)
	}

	// Receptionists schedule visits but never touch clinical forms.
	assert.True(t, PermissionSatisfied(PermissionsFor(RoleReceptionist), "visits:write"))
	assert.False(t, PermissionSatisfied(PermissionsFor(RoleReceptionist), "forms:write"))

	// Technicians file results but do not manage visits.
	assert.True(t, PermissionSatisfied(PermissionsFor(RoleTechnician), "forms:write"))
	assert.False(t, PermissionSatisfied(PermissionsFor(RoleTechnician), "visits:read"))
}
