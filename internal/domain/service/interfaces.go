// Package service defines the domain-level contracts the access-control
// chain is built from. Implementations live under internal/infrastructure;
// handlers and middleware depend only on these interfaces so every stage
// of the guard pipeline stays independently replaceable.
package service

import (
	"context"
	"time"

	"github.com/ferrocrete/sitegate/internal/domain/models"
	"github.com/ferrocrete/sitegate/pkg/constants"
)

// TokenService issues and verifies signed, time-boxed access tokens.
type TokenService interface {
	// Issue mints a token for the subject with the given permissions and
	// role. It fails with the configuration error when the signing
	// material is absent or fails its integrity check.
	Issue(ctx context.Context, subject string, permissions []string, role constants.Role) (token string, claims *models.AccessClaims, err error)

	// Verify checks the token's signature, issuer, expiry, security-level
	// tag, algorithm tag, and iteration floor, in that order, and returns
	// the normalized principal on success.
	Verify(ctx context.Context, token string) (*models.Principal, error)
}

// RateLimitDecision is the outcome of a limiter check.
type RateLimitDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter tracks per-caller attempt counters over a fixed window.
// Consume both counts and checks (public surface); Check and
// RecordFailure split the two for surfaces that count only failures.
type RateLimiter interface {
	Consume(ctx context.Context, surface constants.RateLimitSurface, caller string) (RateLimitDecision, error)
	Check(ctx context.Context, surface constants.RateLimitSurface, caller string) (RateLimitDecision, error)
	RecordFailure(ctx context.Context, surface constants.RateLimitSurface, caller string) error
}

// SecurityEvent is one entry in the security-event log. It is always
// recorded before the corresponding error is returned, regardless of how
// generic the client-facing response is.
type SecurityEvent struct {
	Type      constants.SecurityEventType
	Actor     string
	Addr      string
	Route     string
	Timestamp time.Time
	Details   map[string]interface{}
}

// AuditRecorder persists security events for forensics.
type AuditRecorder interface {
	Record(ctx context.Context, event SecurityEvent)
}

// LockStore is the key-value configuration store holding the site
// lock/maintenance state, with atomic writes and a process-local cache.
type LockStore interface {
	// Get returns the current cached state (a copy).
	Get() models.LockState

	// Update applies mutate under the store lock, persists the result
	// atomically, and refreshes the cache. Readers observe either the old
	// or the new complete state, never a mix.
	Update(ctx context.Context, mutate func(*models.LockState)) (models.LockState, error)
}
