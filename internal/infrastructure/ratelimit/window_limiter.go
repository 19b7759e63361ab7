// Package ratelimit provides per-caller fixed-window attempt counters.
// The in-memory limiter is the canonical implementation; the Redis-backed
// one exists for deployments that run several instances behind one
// address space.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ferrocrete/sitegate/internal/config"
	"github.com/ferrocrete/sitegate/internal/domain/service"
	"github.com/ferrocrete/sitegate/pkg/constants"
)

// Limit is the window and cap for one surface.
type Limit struct {
	Window time.Duration
	Cap    int
}

// SurfaceLimits maps each endpoint class to its limit.
type SurfaceLimits map[constants.RateLimitSurface]Limit

// DefaultLimits returns the stock surface limits.
func DefaultLimits() SurfaceLimits {
	return SurfaceLimits{
		constants.SurfacePublic: {Window: constants.RateLimitWindow, Cap: constants.PublicRateLimit},
		constants.SurfaceAdmin:  {Window: constants.RateLimitWindow, Cap: constants.AdminRateLimit},
		constants.SurfaceLogin:  {Window: constants.RateLimitWindow, Cap: constants.LoginRateLimit},
	}
}

// LimitsFromConfig builds surface limits from configuration, falling back
// to the defaults for unset values.
func LimitsFromConfig(cfg *config.RateLimitConfig) SurfaceLimits {
	limits := DefaultLimits()
	window := constants.RateLimitWindow
	if cfg.Window > 0 {
		window = time.Duration(cfg.Window) * time.Second
	}
	apply := func(surface constants.RateLimitSurface, cap int) {
		l := limits[surface]
		l.Window = window
		if cap > 0 {
			l.Cap = cap
		}
		limits[surface] = l
	}
	apply(constants.SurfacePublic, cfg.Public)
	apply(constants.SurfaceAdmin, cfg.Admin)
	apply(constants.SurfaceLogin, cfg.Login)
	return limits
}

// counter is one caller's attempt count within the current window.
type counter struct {
	count       int
	windowStart time.Time
}

// WindowLimiter is an in-process, mutex-serialized window counter store.
// Counters live in a TTL cache so idle entries are evicted; the window
// itself is enforced by the stored window-start timestamp, so a counter
// decays strictly after the window elapses, never before.
type WindowLimiter struct {
	mu       sync.Mutex
	counters *gocache.Cache
	limits   SurfaceLimits
	now      func() time.Time
}

// NewWindowLimiter creates a limiter with the given surface limits.
func NewWindowLimiter(limits SurfaceLimits) *WindowLimiter {
	maxWindow := constants.RateLimitWindow
	for _, l := range limits {
		if l.Window > maxWindow {
			maxWindow = l.Window
		}
	}
	return &WindowLimiter{
		counters: gocache.New(maxWindow, 2*maxWindow),
		limits:   limits,
		now:      time.Now,
	}
}

// WithClock replaces the time source for tests.
func (l *WindowLimiter) WithClock(now func() time.Time) *WindowLimiter {
	l.now = now
	return l
}

func key(surface constants.RateLimitSurface, caller string) string {
	return fmt.Sprintf("%s|%s", surface, caller)
}

// current returns the live counter for the key, resetting it when the
// window has elapsed. Must be called with the mutex held.
func (l *WindowLimiter) current(surface constants.RateLimitSurface, caller string, limit Limit) *counter {
	now := l.now()
	k := key(surface, caller)
	if v, ok := l.counters.Get(k); ok {
		c := v.(*counter)
		if now.Sub(c.windowStart) < limit.Window {
			return c
		}
	}
	c := &counter{windowStart: now}
	l.counters.Set(k, c, limit.Window)
	return c
}

func (l *WindowLimiter) decision(c *counter, limit Limit) service.RateLimitDecision {
	remaining := limit.Cap - c.count
	if remaining < 0 {
		remaining = 0
	}
	retryAfter := c.windowStart.Add(limit.Window).Sub(l.now())
	if retryAfter < 0 {
		retryAfter = 0
	}
	return service.RateLimitDecision{
		Allowed:    c.count <= limit.Cap,
		Remaining:  remaining,
		RetryAfter: retryAfter,
	}
}

// Consume counts one attempt and reports whether it fits the cap.
// Attempts 1..cap are allowed; attempt cap+1 is rejected.
func (l *WindowLimiter) Consume(_ context.Context, surface constants.RateLimitSurface, caller string) (service.RateLimitDecision, error) {
	limit, ok := l.limits[surface]
	if !ok {
		return service.RateLimitDecision{Allowed: true}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.current(surface, caller, limit)
	c.count++
	return l.decision(c, limit), nil
}

// Check reports whether another attempt would be admitted, without
// consuming budget. Used by the failure-counting surfaces, where only
// RecordFailure increments.
func (l *WindowLimiter) Check(_ context.Context, surface constants.RateLimitSurface, caller string) (service.RateLimitDecision, error) {
	limit, ok := l.limits[surface]
	if !ok {
		return service.RateLimitDecision{Allowed: true}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.current(surface, caller, limit)
	d := l.decision(c, limit)
	d.Allowed = c.count < limit.Cap
	return d, nil
}

// RecordFailure counts one failed attempt against the caller.
func (l *WindowLimiter) RecordFailure(_ context.Context, surface constants.RateLimitSurface, caller string) error {
	limit, ok := l.limits[surface]
	if !ok {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.current(surface, caller, limit)
	c.count++
	return nil
}

var _ service.RateLimiter = (*WindowLimiter)(nil)
