package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carehub/internal/domain"
)

func TestAdminHoldsFullCatalog(t *testing.T) {
	for _, p := range domain.AllPermissions() {
		assert.True(t, domain.HasPermission(domain.RoleAdmin, p),
			"admin should hold %q", p)
	}
}

func TestPermissionsForTotalOverRoles(t *testing.T) {
	for _, role := range domain.Roles() {
		perms, err := domain.PermissionsFor(role)
		require.NoError(t, err, "role %q", role)
		assert.NotEmpty(t, perms, "role %q", role)
	}
}

func TestPermissionsForUnknownRole(t *testing.T) {
	_, err := domain.PermissionsFor(domain.Role("superuser"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownRole)

	_, err = domain.PermissionsFor(domain.Role(""))
	assert.ErrorIs(t, err, domain.ErrUnknownRole)
}

func TestCaregiverPermissions(t *testing.T) {
	tests := []struct {
		perm domain.Permission
		held bool
	}{
		{domain.PermTaskEditAssigned, true},
		{domain.PermTaskViewAssigned, true},
		{domain.PermTaskCreate, true},
		{domain.PermHealthEdit, true},
		{domain.PermAIUse, true},

		{domain.PermTaskEditAny, false},
		{domain.PermUserManageRoles, false},
		{domain.PermUserDelete, false},
		{domain.PermSystemConfig, false},
		{domain.PermRelationCreate, false},
		{domain.PermHealthDelete, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.perm), func(t *testing.T) {
			assert.Equal(t, tt.held, domain.HasPermission(domain.RoleCaregiver, tt.perm))
		})
	}
}

func TestCaregiverLacksEverythingOutsideItsSet(t *testing.T) {
	held, err := domain.PermissionsFor(domain.RoleCaregiver)
	require.NoError(t, err)

	inSet := make(map[domain.Permission]bool, len(held))
	for _, p := range held {
		inSet[p] = true
	}

	for _, p := range domain.AllPermissions() {
		assert.Equal(t, inSet[p], domain.HasPermission(domain.RoleCaregiver, p),
			"HasPermission must agree with PermissionsFor for %q", p)
	}
}

func TestCareRecipientPermissions(t *testing.T) {
	assert.True(t, domain.HasPermission(domain.RoleCareRecipient, domain.PermApptCreate))
	assert.True(t, domain.HasPermission(domain.RoleCareRecipient, domain.PermNoteEditSelf))
	assert.False(t, domain.HasPermission(domain.RoleCareRecipient, domain.PermNoteEditAssigned))
	assert.False(t, domain.HasPermission(domain.RoleCareRecipient, domain.PermTaskCreate))
}

func TestHasPermissionDefensiveDefaults(t *testing.T) {
	// Undefined role or permission evaluates to false, never panics or errors.
	assert.False(t, domain.HasPermission(domain.Role("ghost"), domain.PermAIUse))
	assert.False(t, domain.HasPermission(domain.RoleAdmin, domain.Permission("nope:nope")))
	assert.False(t, domain.HasPermission(domain.Role(""), domain.Permission("")))
}

func TestHasAnyPermission(t *testing.T) {
	// OR semantics: one held permission suffices.
	assert.True(t, domain.HasAnyPermission(domain.RoleCaregiver,
		domain.PermTaskEditAny, domain.PermTaskEditAssigned))

	// None held.
	assert.False(t, domain.HasAnyPermission(domain.RoleCaregiver,
		domain.PermTaskEditAny, domain.PermUserManageRoles))

	// Empty requirement set never vacuously passes, for any role.
	for _, role := range domain.Roles() {
		assert.False(t, domain.HasAnyPermission(role), "role %q", role)
	}
}

func TestHasRole(t *testing.T) {
	assert.True(t, domain.HasRole(domain.RoleCareRecipient, domain.RoleCareRecipient))
	assert.False(t, domain.HasRole(domain.RoleCareRecipient, domain.RoleCaregiver, domain.RoleAdmin))
	assert.True(t, domain.HasRole(domain.RoleAdmin, domain.RoleCaregiver, domain.RoleAdmin))
	assert.False(t, domain.HasRole(domain.RoleAdmin))
}

func TestEvaluatorIdempotence(t *testing.T) {
	// Same (role, permission) pair always yields the same answer.
	for i := 0; i < 100; i++ {
		assert.True(t, domain.HasPermission(domain.RoleCaregiver, domain.PermTaskEditAssigned))
		assert.False(t, domain.HasPermission(domain.RoleCaregiver, domain.PermTaskEditAny))
	}
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	first, err := domain.PermissionsFor(domain.RoleCareRecipient)
	require.NoError(t, err)

	first[0] = domain.Permission("tampered")

	second, err := domain.PermissionsFor(domain.RoleCareRecipient)
	require.NoError(t, err)
	assert.NotEqual(t, domain.Permission("tampered"), second[0],
		"mutating a returned slice must not affect the map")
}

func TestAllPermissionsReturnsCopy(t *testing.T) {
	first := domain.AllPermissions()
	first[0] = domain.Permission("tampered")
	second := domain.AllPermissions()
	assert.NotEqual(t, domain.Permission("tampered"), second[0])
}

func TestCatalogClosedWorld(t *testing.T) {
	// Every permission reachable through any role's map entry exists in the
	// catalog.
	catalog := make(map[domain.Permission]bool)
	for _, p := range domain.AllPermissions() {
		catalog[p] = true
	}
	for _, role := range domain.Roles() {
		perms, err := domain.PermissionsFor(role)
		require.NoError(t, err)
		for _, p := range perms {
			assert.True(t, catalog[p], "role %q references %q which is not in the catalog", role, p)
		}
	}
}

func TestCatalogHasNoDuplicates(t *testing.T) {
	seen := make(map[domain.Permission]bool)
	for _, p := range domain.AllPermissions() {
		assert.False(t, seen[p], "duplicate catalog entry %q", p)
		seen[p] = true
	}
}
