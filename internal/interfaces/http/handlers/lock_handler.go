package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ferrocrete/sitegate/internal/application/dto"
	appservice "github.com/ferrocrete/sitegate/internal/application/service"
	"github.com/ferrocrete/sitegate/internal/infrastructure/monitoring"
	"github.com/ferrocrete/sitegate/internal/interfaces/http/middleware"
	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/errors"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

// LockHandler serves the public lock-status probe and the guarded
// configuration endpoints.
type LockHandler struct {
	locks   *appservice.LockAppService
	metrics *monitoring.Metrics
	log     logger.Logger
}

// NewLockHandler creates the handler.
func NewLockHandler(locks *appservice.LockAppService, metrics *monitoring.Metrics, log logger.Logger) *LockHandler {
	return &LockHandler{locks: locks, metrics: metrics, log: log}
}

// Status evaluates the lock state for the caller's address. Public and
// unauthenticated: the frontend polls it to decide which screen to show.
// GET /api/v1/lock/status
func (h *LockHandler) Status(c *gin.Context) {
	resp := h.locks.Status(c.Request.Context(), middleware.CallerAddr(c), c.FullPath())
	if resp.ScreenType != string(constants.ScreenNone) {
		h.metrics.LockScreens.WithLabelValues(resp.ScreenType).Inc()
	}
	dto.SendSuccess(c, http.StatusOK, resp)
}

// Show returns the stored lock configuration.
// GET /api/v1/admin/lock
func (h *LockHandler) Show(c *gin.Context) {
	state := h.locks.State()
	dto.SendSuccess(c, http.StatusOK, dto.LockStateResponse{
		Success:         true,
		Enabled:         state.Enabled,
		Locked:          state.Locked,
		MaintenanceMode: state.MaintenanceMode,
		AllowedIPs:      state.AllowedIPs,
		BlockedIPs:      state.BlockedIPs,
		LastUpdated:     state.LastUpdated,
	})
}

// Update applies a partial change to the lock configuration.
// PUT /api/v1/admin/lock
func (h *LockHandler) Update(c *gin.Context) {
	var req dto.LockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	actor := ""
	if principal, ok := middleware.PrincipalFrom(c); ok {
		actor = principal.ID
	}

	resp, err := h.locks.Update(c.Request.Context(), req, actor, middleware.CallerAddr(c), c.FullPath())
	if err != nil {
		dto.SendError(c, err)
		return
	}

	dto.SendSuccess(c, http.StatusOK, resp)
}
