package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ferrocrete/sitegate/internal/application/dto"
	domainservice "github.com/ferrocrete/sitegate/internal/domain/service"
	"github.com/ferrocrete/sitegate/internal/infrastructure/monitoring"
	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/errors"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

// PublicRateLimit counts every request against the public budget. A
// limiter backend error fails open: public content availability wins
// over rate enforcement.
func PublicRateLimit(limiter domainservice.RateLimiter, audit domainservice.AuditRecorder, metrics *monitoring.Metrics, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerAddr(c)
		ctx := c.Request.Context()

		decision, err := limiter.Consume(ctx, constants.SurfacePublic, caller)
		if err != nil {
			log.Warn(ctx, "rate limiter unavailable, allowing request", logger.Fields{
				"surface": string(constants.SurfacePublic),
				"error":   err.Error(),
			})
			c.Next()
			return
		}

		if !decision.Allowed {
			audit.Record(ctx, domainservice.SecurityEvent{
				Type: constants.EventRateLimitExceeded, Addr: caller, Route: routeLabel(c),
				Details: map[string]interface{}{"surface": string(constants.SurfacePublic)},
			})
			metrics.GuardRejections.WithLabelValues("rate_limit", errors.CodeRateLimited).Inc()
			setRetryAfter(c, decision)
			dto.AbortWithError(c, errors.ErrRateLimited)
			return
		}

		c.Next()
	}
}

func setRetryAfter(c *gin.Context, decision domainservice.RateLimitDecision) {
	if decision.RetryAfter > 0 {
		seconds := int(decision.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
	}
}
