package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ferrocrete/sitegate/pkg/constants"
)

func TestPrincipalPermissions(t *testing.T) {
	p := Principal{
		Permissions: []string{constants.PermContentRead, constants.PermContentWrite},
	}

	assert.True(t, p.HasPermission(constants.PermContentRead))
	assert.False(t, p.HasPermission(constants.PermSiteLock))

	assert.True(t, p.HasAllPermissions(constants.PermContentRead, constants.PermContentWrite))
	assert.False(t, p.HasAllPermissions(constants.PermContentRead, constants.PermSiteLock))
	assert.True(t, p.HasAllPermissions(), "empty requirement is always satisfied")
}

func TestPrincipalRoles(t *testing.T) {
	p := Principal{Role: constants.RoleAdmin}

	assert.True(t, p.HasAnyRole(constants.RoleAdmin))
	assert.True(t, p.HasAnyRole(constants.RoleSuperAdmin, constants.RoleAdmin))
	assert.False(t, p.HasAnyRole(constants.RoleService))
	assert.False(t, p.HasAnyRole())
}

func TestLockStateClone(t *testing.T) {
	state := LockState{
		Enabled:    true,
		AllowedIPs: []string{"203.0.113.5"},
		BlockedIPs: []string{"198.51.100."},
	}

	clone := state.Clone()
	clone.AllowedIPs[0] = "mutated"
	clone.BlockedIPs[0] = "mutated"

	assert.Equal(t, "203.0.113.5", state.AllowedIPs[0])
	assert.Equal(t, "198.51.100.", state.BlockedIPs[0])
}
