package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ferrocrete/sitegate/internal/application/dto"
	appservice "github.com/ferrocrete/sitegate/internal/application/service"
	domainservice "github.com/ferrocrete/sitegate/internal/domain/service"
	"github.com/ferrocrete/sitegate/internal/infrastructure/monitoring"
	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/errors"
	"github.com/ferrocrete/sitegate/pkg/logger"
	"github.com/ferrocrete/sitegate/pkg/netutil"
)

// AdminGuard builds the ordered protection chain for administrative
// routes: failure-counted rate limiting, then the IP allow-list, then
// token verification, then the permission gate. Each stage aborts with
// its own error; later stages never run after a rejection.
type AdminGuard struct {
	auth       *appservice.AuthAppService
	limiter    domainservice.RateLimiter
	audit      domainservice.AuditRecorder
	metrics    *monitoring.Metrics
	allowList  []string
	production bool
	log        logger.Logger
}

// NewAdminGuard creates the guard. allowList entries are canonicalized
// once here rather than per request.
func NewAdminGuard(
	auth *appservice.AuthAppService,
	limiter domainservice.RateLimiter,
	audit domainservice.AuditRecorder,
	metrics *monitoring.Metrics,
	allowList []string,
	production bool,
	log logger.Logger,
) *AdminGuard {
	canon := make([]string, 0, len(allowList))
	for _, entry := range allowList {
		if addr := netutil.CanonicalAddr(entry); addr != "" {
			canon = append(canon, addr)
		}
	}
	return &AdminGuard{
		auth:       auth,
		limiter:    limiter,
		audit:      audit,
		metrics:    metrics,
		allowList:  canon,
		production: production,
		log:        log,
	}
}

// Chain returns the full guard pipeline requiring the given permissions.
func (g *AdminGuard) Chain(permissions ...string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		g.FailureRateLimit(constants.SurfaceAdmin),
		g.IPAllowList(),
		g.Authenticate(),
		g.RequirePermissions(permissions...),
	}
}

// FailureRateLimit enforces the failure-counted budget for a surface.
// The check happens before the handler; the counter is charged after,
// and only when the request ends in rejection (any status of 400 or
// above). Successful requests never consume budget.
func (g *AdminGuard) FailureRateLimit(surface constants.RateLimitSurface) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerAddr(c)
		ctx := c.Request.Context()

		decision, err := g.limiter.Check(ctx, surface, caller)
		if err != nil {
			// Fail closed on the protected surface.
			g.log.Error(ctx, "rate limiter unavailable on protected surface", err, logger.Fields{
				"surface": string(surface),
			})
			g.reject(c, "rate_limit", errors.ErrInternal)
			return
		}
		if !decision.Allowed {
			g.audit.Record(ctx, domainservice.SecurityEvent{
				Type: constants.EventRateLimitExceeded, Addr: caller, Route: routeLabel(c),
				Details: map[string]interface{}{"surface": string(surface)},
			})
			setRetryAfter(c, decision)
			g.reject(c, "rate_limit", errors.ErrRateLimited)
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := g.limiter.RecordFailure(ctx, surface, caller); err != nil {
				g.log.Warn(ctx, "failed to record rate-limit failure", logger.Fields{
					"surface": string(surface),
					"error":   err.Error(),
				})
			}
		}
	}
}

// IPAllowList admits only canonical addresses on the configured list.
// An empty list admits everyone in development and no one in
// production, so a deployment without the list configured fails closed.
func (g *AdminGuard) IPAllowList() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerAddr(c)

		if len(g.allowList) == 0 {
			if g.production {
				g.rejectAddr(c, caller, "ip_filter", errors.ErrIPBlocked, map[string]interface{}{
					"reason": "allow-list empty in production",
				})
				return
			}
			c.Next()
			return
		}

		if !netutil.InList(caller, g.allowList) {
			g.rejectAddr(c, caller, "ip_filter", errors.ErrIPBlocked, nil)
			return
		}

		c.Next()
	}
}

// Authenticate extracts and verifies the bearer token, attaching the
// principal on success.
func (g *AdminGuard) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := BearerToken(c)
		if err != nil {
			g.reject(c, "authenticate", err)
			return
		}

		principal, err := g.auth.Verify(c.Request.Context(), token, CallerAddr(c), routeLabel(c))
		if err != nil {
			g.reject(c, "authenticate", err)
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

// RequirePermissions gates on the verified principal carrying every
// listed permission. A missing principal is an authentication failure;
// a present principal lacking a permission is an authorization failure.
func (g *AdminGuard) RequirePermissions(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			g.reject(c, "permission_gate", errors.ErrUnauthenticated)
			return
		}

		if !principal.HasAllPermissions(permissions...) {
			g.audit.Record(c.Request.Context(), domainservice.SecurityEvent{
				Type: constants.EventPermissionDenied, Actor: principal.ID,
				Addr: CallerAddr(c), Route: routeLabel(c),
				Details: map[string]interface{}{"required": permissions},
			})
			g.reject(c, "permission_gate", errors.ErrForbidden)
			return
		}

		c.Next()
	}
}

// RequireRole gates on the principal holding at least one listed role.
func (g *AdminGuard) RequireRole(roles ...constants.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			g.reject(c, "role_gate", errors.ErrUnauthenticated)
			return
		}

		if !principal.HasAnyRole(roles...) {
			g.audit.Record(c.Request.Context(), domainservice.SecurityEvent{
				Type: constants.EventPermissionDenied, Actor: principal.ID,
				Addr: CallerAddr(c), Route: routeLabel(c),
				Details: map[string]interface{}{"required_roles": roles},
			})
			g.reject(c, "role_gate", errors.ErrForbidden)
			return
		}

		c.Next()
	}
}

func (g *AdminGuard) reject(c *gin.Context, stage string, err error) {
	appErr := errors.Classify(err)
	g.metrics.GuardRejections.WithLabelValues(stage, appErr.Code).Inc()
	dto.AbortWithError(c, err)
}

func (g *AdminGuard) rejectAddr(c *gin.Context, caller, stage string, err error, details map[string]interface{}) {
	g.audit.Record(c.Request.Context(), domainservice.SecurityEvent{
		Type: constants.EventIPBlocked, Addr: caller, Route: routeLabel(c),
		Details: details,
	})
	g.reject(c, stage, err)
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.ErrMissingToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.ErrMissingToken
	}

	return strings.TrimSpace(parts[1]), nil
}
