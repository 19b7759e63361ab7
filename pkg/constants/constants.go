// Package constants defines shared constants for the sitegate service.
package constants

import "time"

// ================================================================================
// Token Constants
// ================================================================================

const (
	// TokenIssuer is the fixed issuer claim stamped into every access token.
	TokenIssuer = "sitegate"

	// TokenSecurityLevel is the fixed security-level tag required on admin tokens.
	TokenSecurityLevel = "admin-core"

	// TokenAlgorithm is the signing algorithm tag. Tokens carrying any other
	// value are rejected regardless of signature validity.
	TokenAlgorithm = "HS256"

	// TokenLifetime is the fixed lifetime of an issued token. Expiry is the
	// only invalidation mechanism; there is no revocation list.
	TokenLifetime = 30 * time.Minute

	// TokenLifetimeHuman is the human-readable lifetime returned by the
	// issuance endpoint.
	TokenLifetimeHuman = "30m"

	// DefaultMinIterations is the default floor for the iteration-count claim
	// and for the signing-material integrity digest.
	DefaultMinIterations = 100000

	// MinCredentialLength is the minimum accepted length for the shared
	// administrative credential.
	MinCredentialLength = 8
)

// ================================================================================
// Roles and Permissions
// ================================================================================

// Role identifies the coarse access role carried by a principal.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
	RoleService    Role = "service"
)

// Permission identifies a fine-grained capability carried by a token.
type Permission = string

const (
	PermContentRead   Permission = "content:read"
	PermContentWrite  Permission = "content:write"
	PermMediaManage   Permission = "media:manage"
	PermSiteLock      Permission = "site:lock"
	PermHealthRead    Permission = "health:read"
	PermHealthMonitor Permission = "health:monitor"
)

// AdminPermissions is the full permission list granted by the
// credential-based bootstrap login.
var AdminPermissions = []string{
	PermContentRead,
	PermContentWrite,
	PermMediaManage,
	PermSiteLock,
	PermHealthRead,
}

// ================================================================================
// Rate Limiting
// ================================================================================

// RateLimitSurface identifies an endpoint class with its own counter space.
type RateLimitSurface string

const (
	// SurfacePublic covers the public content surface; every request counts.
	SurfacePublic RateLimitSurface = "public"

	// SurfaceAdmin covers the administrative surface; only failed attempts
	// consume budget.
	SurfaceAdmin RateLimitSurface = "admin"

	// SurfaceLogin covers the credential login endpoint; only failures count.
	SurfaceLogin RateLimitSurface = "login"
)

const (
	// RateLimitWindow is the fixed window shared by all surfaces.
	RateLimitWindow = 15 * time.Minute

	PublicRateLimit = 100
	AdminRateLimit  = 50
	LoginRateLimit  = 5
)

// ================================================================================
// Site Lock Screens
// ================================================================================

// ScreenType is the blocking screen selected by the lock/maintenance engine.
type ScreenType string

const (
	ScreenMaintenance ScreenType = "maintenance"
	ScreenLocked      ScreenType = "locked"
	ScreenIPBlocked   ScreenType = "ip-blocked"
	ScreenNone        ScreenType = "none"
)

// ================================================================================
// Deployment Modes
// ================================================================================

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// ================================================================================
// Security Event Types
// ================================================================================

// SecurityEventType classifies entries in the security-event log.
type SecurityEventType string

const (
	EventTokenIssued       SecurityEventType = "token_issued"
	EventTokenRefreshed    SecurityEventType = "token_refreshed"
	EventTokenRejected     SecurityEventType = "token_rejected"
	EventLoginFailed       SecurityEventType = "login_failed"
	EventPermissionDenied  SecurityEventType = "permission_denied"
	EventIPBlocked         SecurityEventType = "ip_blocked"
	EventRateLimitExceeded SecurityEventType = "rate_limit_exceeded"
	EventLockScreenServed  SecurityEventType = "lock_screen_served"
	EventLockConfigUpdated SecurityEventType = "lock_config_updated"
	EventIntegrityFailure  SecurityEventType = "integrity_failure"
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey is the type for values stored in request contexts.
type ContextKey string

const (
	// ContextKeyPrincipal holds the *models.Principal attached by the
	// token-verification stage.
	ContextKeyPrincipal ContextKey = "principal"

	// ContextKeyRequestID holds the per-request UUID.
	ContextKeyRequestID ContextKey = "request_id"
)

// HeaderRequestID is the response header echoing the request ID.
const HeaderRequestID = "X-Request-ID"
