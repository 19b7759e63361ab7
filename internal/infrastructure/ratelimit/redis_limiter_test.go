package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

func newRedisLimiter(t *testing.T, limits SurfaceLimits) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLimiter(client, limits, logger.NewNoopLogger()), mr
}

func TestRedisConsumeAllowsUpToCap(t *testing.T) {
	limiter, _ := newRedisLimiter(t, SurfaceLimits{
		constants.SurfaceLogin: {Window: constants.RateLimitWindow, Cap: 5},
	})
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		d, err := limiter.Consume(ctx, constants.SurfaceLogin, "203.0.113.5")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "attempt %d", i)
	}

	d, err := limiter.Consume(ctx, constants.SurfaceLogin, "203.0.113.5")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
}

func TestRedisWindowDecay(t *testing.T) {
	limiter, mr := newRedisLimiter(t, SurfaceLimits{
		constants.SurfaceLogin: {Window: constants.RateLimitWindow, Cap: 1},
	})
	ctx := context.Background()

	limiter.Consume(ctx, constants.SurfaceLogin, "203.0.113.5")
	d, _ := limiter.Consume(ctx, constants.SurfaceLogin, "203.0.113.5")
	assert.False(t, d.Allowed)

	mr.FastForward(constants.RateLimitWindow - time.Second)
	d, _ = limiter.Consume(ctx, constants.SurfaceLogin, "203.0.113.5")
	assert.False(t, d.Allowed, "budget holds until the window elapses")

	mr.FastForward(2 * time.Second)
	d, _ = limiter.Consume(ctx, constants.SurfaceLogin, "203.0.113.5")
	assert.True(t, d.Allowed, "counter expires with the window")
}

func TestRedisCheckAndRecordFailure(t *testing.T) {
	limiter, _ := newRedisLimiter(t, SurfaceLimits{
		constants.SurfaceAdmin: {Window: constants.RateLimitWindow, Cap: 2},
	})
	ctx := context.Background()

	d, err := limiter.Check(ctx, constants.SurfaceAdmin, "203.0.113.5")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Remaining)

	require.NoError(t, limiter.RecordFailure(ctx, constants.SurfaceAdmin, "203.0.113.5"))
	require.NoError(t, limiter.RecordFailure(ctx, constants.SurfaceAdmin, "203.0.113.5"))

	d, err = limiter.Check(ctx, constants.SurfaceAdmin, "203.0.113.5")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
}

func TestRedisUnavailableSurfacesError(t *testing.T) {
	limiter, mr := newRedisLimiter(t, DefaultLimits())
	mr.Close()

	_, err := limiter.Consume(context.Background(), constants.SurfacePublic, "203.0.113.5")
	assert.Error(t, err)
}
