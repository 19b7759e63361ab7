package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ferrocrete/sitegate/internal/domain/service"
	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

// RedisLimiter keeps the window counters in Redis so several instances
// share one budget per caller. Counters use INCR with an expiry set when
// the window opens, which gives the same strictly-after-window decay as
// the in-memory limiter.
type RedisLimiter struct {
	client *redis.Client
	limits SurfaceLimits
	log    logger.Logger
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(client *redis.Client, limits SurfaceLimits, log logger.Logger) *RedisLimiter {
	return &RedisLimiter{client: client, limits: limits, log: log}
}

func redisKey(surface constants.RateLimitSurface, caller string) string {
	return fmt.Sprintf("sitegate:rl:%s:%s", surface, caller)
}

// incr bumps the counter, arming the window expiry on first increment.
func (l *RedisLimiter) incr(ctx context.Context, k string, window time.Duration) (int64, error) {
	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return count.Val(), nil
}

func (l *RedisLimiter) retryAfter(ctx context.Context, k string) time.Duration {
	ttl, err := l.client.PTTL(ctx, k).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}

// Consume counts one attempt and reports whether it fits the cap.
func (l *RedisLimiter) Consume(ctx context.Context, surface constants.RateLimitSurface, caller string) (service.RateLimitDecision, error) {
	limit, ok := l.limits[surface]
	if !ok {
		return service.RateLimitDecision{Allowed: true}, nil
	}

	k := redisKey(surface, caller)
	count, err := l.incr(ctx, k, limit.Window)
	if err != nil {
		return service.RateLimitDecision{}, err
	}

	remaining := limit.Cap - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return service.RateLimitDecision{
		Allowed:    int(count) <= limit.Cap,
		Remaining:  remaining,
		RetryAfter: l.retryAfter(ctx, k),
	}, nil
}

// Check reports whether another attempt would be admitted.
func (l *RedisLimiter) Check(ctx context.Context, surface constants.RateLimitSurface, caller string) (service.RateLimitDecision, error) {
	limit, ok := l.limits[surface]
	if !ok {
		return service.RateLimitDecision{Allowed: true}, nil
	}

	k := redisKey(surface, caller)
	count, err := l.client.Get(ctx, k).Int()
	if err != nil && err != redis.Nil {
		return service.RateLimitDecision{}, err
	}

	remaining := limit.Cap - count
	if remaining < 0 {
		remaining = 0
	}
	return service.RateLimitDecision{
		Allowed:    count < limit.Cap,
		Remaining:  remaining,
		RetryAfter: l.retryAfter(ctx, k),
	}, nil
}

// RecordFailure counts one failed attempt against the caller.
func (l *RedisLimiter) RecordFailure(ctx context.Context, surface constants.RateLimitSurface, caller string) error {
	limit, ok := l.limits[surface]
	if !ok {
		return nil
	}
	_, err := l.incr(ctx, redisKey(surface, caller), limit.Window)
	return err
}

var _ service.RateLimiter = (*RedisLimiter)(nil)
