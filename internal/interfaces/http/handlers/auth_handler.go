// Package handlers contains the gin endpoint implementations.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ferrocrete/sitegate/internal/application/dto"
	appservice "github.com/ferrocrete/sitegate/internal/application/service"
	"github.com/ferrocrete/sitegate/internal/infrastructure/monitoring"
	"github.com/ferrocrete/sitegate/internal/interfaces/http/middleware"
	"github.com/ferrocrete/sitegate/pkg/errors"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

// AuthHandler serves the credential login and the token verify/refresh
// endpoints.
type AuthHandler struct {
	auth    *appservice.AuthAppService
	metrics *monitoring.Metrics
	log     logger.Logger
}

// NewAuthHandler creates the handler.
func NewAuthHandler(auth *appservice.AuthAppService, metrics *monitoring.Metrics, log logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, metrics: metrics, log: log}
}

// Login exchanges the shared administrative credential for a token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Password, middleware.CallerAddr(c), c.FullPath())
	if err != nil {
		dto.SendError(c, err)
		return
	}

	h.metrics.TokensIssued.WithLabelValues("admin").Inc()
	dto.SendSuccess(c, http.StatusOK, resp)
}

// Verify reports whether the presented token is valid and describes its
// principal. The guard chain has already verified the token; this
// handler only shapes the response.
// GET /api/v1/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		dto.SendError(c, errors.ErrUnauthenticated)
		return
	}

	dto.SendSuccess(c, http.StatusOK, dto.VerifyResponse{
		Valid: true,
		User: dto.VerifiedUser{
			ID:            principal.ID,
			Issuer:        principal.Issuer,
			SecurityLevel: principal.SecurityLevel,
			IssuedAt:      principal.IssuedAt,
			ExpiresAt:     principal.ExpiresAt,
		},
	})
}

// Refresh issues a replacement token for the verified principal with a
// fresh expiry.
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		dto.SendError(c, errors.ErrUnauthenticated)
		return
	}

	resp, err := h.auth.Refresh(c.Request.Context(), principal, middleware.CallerAddr(c), c.FullPath())
	if err != nil {
		dto.SendError(c, err)
		return
	}

	h.metrics.TokensIssued.WithLabelValues("refresh").Inc()
	dto.SendSuccess(c, http.StatusOK, resp)
}
