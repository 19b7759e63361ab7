package service

import (
	"context"
	"time"

	"github.com/ferrocrete/sitegate/internal/application/dto"
	"github.com/ferrocrete/sitegate/internal/domain/models"
	domainservice "github.com/ferrocrete/sitegate/internal/domain/service"
	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/errors"
	"github.com/ferrocrete/sitegate/pkg/logger"
	"github.com/ferrocrete/sitegate/pkg/netutil"
)

// LockAppService exposes the lock/maintenance engine to the HTTP layer:
// a public status decision for any caller and a guarded partial update.
type LockAppService struct {
	store domainservice.LockStore
	audit domainservice.AuditRecorder
	log   logger.Logger
	now   func() time.Time
}

// NewLockAppService creates the service around a lock store.
func NewLockAppService(store domainservice.LockStore, audit domainservice.AuditRecorder, log logger.Logger) *LockAppService {
	return &LockAppService{store: store, audit: audit, log: log, now: time.Now}
}

// Status evaluates the current state against the caller address. The
// screen decision is also recorded when a blocking screen is served.
func (s *LockAppService) Status(ctx context.Context, callerAddr, route string) dto.LockStatusResponse {
	state := s.store.Get()
	screen := domainservice.DecideScreen(state, callerAddr)
	addr := netutil.CanonicalAddr(callerAddr)

	if screen != constants.ScreenNone {
		s.audit.Record(ctx, domainservice.SecurityEvent{
			Type: constants.EventLockScreenServed, Addr: addr, Route: route,
			Details: map[string]interface{}{"screen": string(screen)},
		})
	}

	return dto.LockStatusResponse{
		IsAllowed:     state.Enabled && netutil.InList(addr, state.AllowedIPs),
		IsBlocked:     screen == constants.ScreenIPBlocked,
		IsLocked:      screen == constants.ScreenLocked,
		IsMaintenance: screen == constants.ScreenMaintenance,
		ScreenType:    string(screen),
		Timestamp:     s.now().UTC(),
	}
}

// State returns the stored configuration without evaluating a caller.
func (s *LockAppService) State() models.LockState {
	return s.store.Get()
}

// Update applies a partial update atomically. Absent fields keep their
// stored values; list fields replace the stored lists wholesale.
func (s *LockAppService) Update(ctx context.Context, req dto.LockUpdateRequest, actor, addr, route string) (*dto.LockStateResponse, error) {
	updated, err := s.store.Update(ctx, func(state *models.LockState) {
		if req.Enabled != nil {
			state.Enabled = *req.Enabled
		}
		if req.Locked != nil {
			state.Locked = *req.Locked
		}
		if req.MaintenanceMode != nil {
			state.MaintenanceMode = *req.MaintenanceMode
		}
		if req.AllowedIPs != nil {
			state.AllowedIPs = normalizeAddrs(*req.AllowedIPs)
		}
		if req.BlockedIPs != nil {
			// Block entries may be bare prefixes, keep them verbatim.
			state.BlockedIPs = append([]string(nil), *req.BlockedIPs...)
		}
	})
	if err != nil {
		return nil, errors.ErrInternal.WithError(err).WithMessage("failed to persist lock configuration")
	}

	s.audit.Record(ctx, domainservice.SecurityEvent{
		Type: constants.EventLockConfigUpdated, Actor: actor, Addr: addr, Route: route,
		Details: map[string]interface{}{
			"enabled":     updated.Enabled,
			"locked":      updated.Locked,
			"maintenance": updated.MaintenanceMode,
			"allowed":     len(updated.AllowedIPs),
			"blocked":     len(updated.BlockedIPs),
		},
	})

	return &dto.LockStateResponse{
		Success:         true,
		Enabled:         updated.Enabled,
		Locked:          updated.Locked,
		MaintenanceMode: updated.MaintenanceMode,
		AllowedIPs:      updated.AllowedIPs,
		BlockedIPs:      updated.BlockedIPs,
		LastUpdated:     updated.LastUpdated,
	}, nil
}

func normalizeAddrs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, entry := range in {
		if canon := netutil.CanonicalAddr(entry); canon != "" {
			out = append(out, canon)
		}
	}
	return out
}
