package ratelimit

import (
	"context"

	domainservice "github.com/ferrocrete/sitegate/internal/domain/service"
	"github.com/ferrocrete/sitegate/pkg/constants"
)

// NoopLimiter allows everything. Used when rate limiting is disabled in
// configuration.
type NoopLimiter struct{}

// NewNoopLimiter creates the pass-through limiter.
func NewNoopLimiter() *NoopLimiter {
	return &NoopLimiter{}
}

func (NoopLimiter) Consume(context.Context, constants.RateLimitSurface, string) (domainservice.RateLimitDecision, error) {
	return domainservice.RateLimitDecision{Allowed: true}, nil
}

func (NoopLimiter) Check(context.Context, constants.RateLimitSurface, string) (domainservice.RateLimitDecision, error) {
	return domainservice.RateLimitDecision{Allowed: true}, nil
}

func (NoopLimiter) RecordFailure(context.Context, constants.RateLimitSurface, string) error {
	return nil
}
