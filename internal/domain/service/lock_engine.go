package service

import (
	"github.com/ferrocrete/sitegate/internal/domain/models"
	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/netutil"
)

// DecideScreen evaluates the lock/maintenance state against a caller
// address and returns the blocking screen to present, if any.
//
// Precedence, highest first: maintenance, locked, ip-blocked. Only the
// highest-priority matching condition is reported. The engine does not
// participate in authentication; it runs for every request.
//
// Addresses on the allow-list bypass the locked and ip-blocked screens
// but not maintenance. Block-list entries match exactly or as a prefix,
// so a short prefix blocks an address range.
func DecideScreen(state models.LockState, callerAddr string) constants.ScreenType {
	if !state.Enabled {
		return constants.ScreenNone
	}

	addr := netutil.CanonicalAddr(callerAddr)

	if state.MaintenanceMode {
		return constants.ScreenMaintenance
	}

	allowed := netutil.InList(addr, state.AllowedIPs)

	if state.Locked && !allowed {
		return constants.ScreenLocked
	}

	if !allowed && netutil.MatchesBlockEntry(addr, state.BlockedIPs) {
		return constants.ScreenIPBlocked
	}

	return constants.ScreenNone
}
