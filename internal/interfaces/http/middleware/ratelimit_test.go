package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/ferrocrete/sitegate/internal/application/dto"
	domainservice "github.com/ferrocrete/sitegate/internal/domain/service"
	"github.com/ferrocrete/sitegate/internal/infrastructure/monitoring"
	"github.com/ferrocrete/sitegate/internal/infrastructure/ratelimit"
	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

func publicEngine(limiter domainservice.RateLimiter, sink *eventSink) *gin.Engine {
	gin.SetMode(gin.TestMode)
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())

	engine := gin.New()
	engine.Use(PublicRateLimit(limiter, sink, metrics, logger.NewNoopLogger()))
	engine.GET("/api/v1/projects", func(c *gin.Context) {
		dto.SendSuccess(c, http.StatusOK, gin.H{"ok": true})
	})
	return engine
}

func getPublic(engine *gin.Engine, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.RemoteAddr = addr + ":52000"
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestPublicRateLimitCountsEveryRequest(t *testing.T) {
	limiter := ratelimit.NewWindowLimiter(ratelimit.SurfaceLimits{
		constants.SurfacePublic: {Window: constants.RateLimitWindow, Cap: 3},
	})
	sink := &eventSink{}
	engine := publicEngine(limiter, sink)

	for i := 0; i < 3; i++ {
		w := getPublic(engine, trustedAddr)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}

	w := getPublic(engine, trustedAddr)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, sink.types(), constants.EventRateLimitExceeded)

	// Other callers are unaffected.
	w = getPublic(engine, outsiderAddr)
	assert.Equal(t, http.StatusOK, w.Code)
}

// failingLimiter simulates an unavailable backend.
type failingLimiter struct{}

func (failingLimiter) Consume(context.Context, constants.RateLimitSurface, string) (domainservice.RateLimitDecision, error) {
	return domainservice.RateLimitDecision{}, assertErr
}
func (failingLimiter) Check(context.Context, constants.RateLimitSurface, string) (domainservice.RateLimitDecision, error) {
	return domainservice.RateLimitDecision{}, assertErr
}
func (failingLimiter) RecordFailure(context.Context, constants.RateLimitSurface, string) error {
	return assertErr
}

var assertErr = context.DeadlineExceeded

func TestPublicRateLimitFailsOpen(t *testing.T) {
	engine := publicEngine(failingLimiter{}, &eventSink{})

	w := getPublic(engine, trustedAddr)
	assert.Equal(t, http.StatusOK, w.Code, "public surface stays available when the limiter is down")
}
