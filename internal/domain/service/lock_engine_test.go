package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ferrocrete/sitegate/internal/domain/models"
	"github.com/ferrocrete/sitegate/pkg/constants"
)

func TestDecideScreenDisabledEngine(t *testing.T) {
	state := models.LockState{
		Enabled:         false,
		Locked:          true,
		MaintenanceMode: true,
		BlockedIPs:      []string{"203.0.113.5"},
	}
	assert.Equal(t, constants.ScreenNone, DecideScreen(state, "203.0.113.5"))
}

func TestDecideScreenPrecedence(t *testing.T) {
	addr := "203.0.113.5"

	cases := []struct {
		name  string
		state models.LockState
		want  constants.ScreenType
	}{
		{
			name:  "nothing active",
			state: models.LockState{Enabled: true},
			want:  constants.ScreenNone,
		},
		{
			name:  "maintenance beats locked and blocked",
			state: models.LockState{Enabled: true, MaintenanceMode: true, Locked: true, BlockedIPs: []string{addr}},
			want:  constants.ScreenMaintenance,
		},
		{
			name:  "locked beats blocked",
			state: models.LockState{Enabled: true, Locked: true, BlockedIPs: []string{addr}},
			want:  constants.ScreenLocked,
		},
		{
			name:  "blocked alone",
			state: models.LockState{Enabled: true, BlockedIPs: []string{addr}},
			want:  constants.ScreenIPBlocked,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DecideScreen(tc.state, addr))
		})
	}
}

func TestDecideScreenAllowList(t *testing.T) {
	addr := "203.0.113.5"
	state := models.LockState{
		Enabled:    true,
		Locked:     true,
		AllowedIPs: []string{addr},
		BlockedIPs: []string{addr},
	}

	// Allow-listed callers bypass the locked and ip-blocked screens.
	assert.Equal(t, constants.ScreenNone, DecideScreen(state, addr))
	assert.Equal(t, constants.ScreenLocked, DecideScreen(state, "198.51.100.7"))

	// Maintenance applies to everyone, allow-listed or not.
	state.MaintenanceMode = true
	assert.Equal(t, constants.ScreenMaintenance, DecideScreen(state, addr))
}

func TestDecideScreenPrefixBlocking(t *testing.T) {
	state := models.LockState{
		Enabled:    true,
		BlockedIPs: []string{"198.51.100."},
	}
	assert.Equal(t, constants.ScreenIPBlocked, DecideScreen(state, "198.51.100.42"))
	assert.Equal(t, constants.ScreenNone, DecideScreen(state, "198.51.101.42"))
}

func TestDecideScreenCanonicalizesCaller(t *testing.T) {
	state := models.LockState{
		Enabled:    true,
		BlockedIPs: []string{"203.0.113.5"},
	}
	assert.Equal(t, constants.ScreenIPBlocked, DecideScreen(state, "::ffff:203.0.113.5"))
	assert.Equal(t, constants.ScreenIPBlocked, DecideScreen(state, "203.0.113.5:9443"))
}
