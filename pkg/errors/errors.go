// Package errors defines the structured error taxonomy for sitegate.
// Every guard-pipeline stage maps its rejections onto one of these types;
// lower-level failures (parse errors, store errors) are reclassified here
// before they reach a response writer, so no unmapped error escapes as a
// bare 500.
package errors

import (
	"errors"
	"net/http"
)

// ================================================================================
// Machine-Readable Error Codes
// ================================================================================

const (
	CodeSecurityConfig  = "SECURITY_CONFIG_ERROR"
	CodeMissingPassword = "MISSING_PASSWORD"
	CodePasswordShort   = "PASSWORD_TOO_SHORT"
	CodeInvalidPassword = "INVALID_PASSWORD"
	CodeTokenGeneration = "TOKEN_GENERATION_ERROR"
	CodeMissingToken    = "MISSING_TOKEN"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeInvalidSecurity = "INVALID_SECURITY_TOKEN"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeRateLimited     = "RATE_LIMITED"
	CodeIPBlocked       = "IP_BLOCKED"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeNotFound        = "NOT_FOUND"
	CodeInternal        = "INTERNAL_ERROR"
)

// ================================================================================
// AppError
// ================================================================================

// AppError is a structured application error carrying a machine-readable
// code, the HTTP status it maps to, and optional metadata for the
// security-event log. The metadata is logged, never returned to clients.
type AppError struct {
	Code     string
	Status   int
	Message  string
	Metadata map[string]interface{}
	cause    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches AppErrors by code, so sentinel constructors work with
// errors.Is regardless of message or metadata.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithError returns a copy of the error with cause attached.
func (e *AppError) WithError(cause error) *AppError {
	clone := e.clone()
	clone.cause = cause
	return clone
}

// WithMessage returns a copy of the error with a replacement message.
func (e *AppError) WithMessage(message string) *AppError {
	clone := e.clone()
	clone.Message = message
	return clone
}

// WithMetadata returns a copy of the error with an extra metadata entry.
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	clone := e.clone()
	if clone.Metadata == nil {
		clone.Metadata = make(map[string]interface{})
	}
	clone.Metadata[key] = value
	return clone
}

func (e *AppError) clone() *AppError {
	meta := make(map[string]interface{}, len(e.Metadata))
	for k, v := range e.Metadata {
		meta[k] = v
	}
	return &AppError{
		Code:     e.Code,
		Status:   e.Status,
		Message:  e.Message,
		Metadata: meta,
		cause:    e.cause,
	}
}

// New creates an AppError with the given code, HTTP status, and message.
func New(code string, status int, message string) *AppError {
	return &AppError{Code: code, Status: status, Message: message}
}

// ================================================================================
// Sentinel Errors
// ================================================================================

var (
	// ErrConfiguration is fatal: signing material is absent or failed the
	// integrity check. It is never retried and never degraded to an
	// insecure default.
	ErrConfiguration = New(CodeSecurityConfig, http.StatusInternalServerError, "security configuration compromised")

	ErrMissingPassword = New(CodeMissingPassword, http.StatusBadRequest, "password is required")
	ErrPasswordShort   = New(CodePasswordShort, http.StatusBadRequest, "password must be at least 8 characters")
	ErrInvalidPassword = New(CodeInvalidPassword, http.StatusUnauthorized, "invalid credentials")
	ErrTokenGeneration = New(CodeTokenGeneration, http.StatusInternalServerError, "failed to generate token")

	ErrMissingToken = New(CodeMissingToken, http.StatusUnauthorized, "authorization token required")
	ErrTokenExpired = New(CodeTokenExpired, http.StatusUnauthorized, "token has expired")
	ErrInvalidToken = New(CodeInvalidToken, http.StatusForbidden, "invalid token")

	// ErrInvalidSecurityToken covers tokens whose signature verifies but
	// whose security-level tag, algorithm tag, or iteration count fails the
	// configured policy.
	ErrInvalidSecurityToken = New(CodeInvalidSecurity, http.StatusForbidden, "token does not meet security policy")

	ErrUnauthenticated = New(CodeUnauthenticated, http.StatusUnauthorized, "authentication required")
	ErrForbidden       = New(CodeForbidden, http.StatusForbidden, "insufficient permissions")

	ErrRateLimited = New(CodeRateLimited, http.StatusTooManyRequests, "too many attempts, please try again later")
	ErrIPBlocked   = New(CodeIPBlocked, http.StatusForbidden, "access denied from this address")

	ErrInvalidRequest = New(CodeInvalidRequest, http.StatusBadRequest, "invalid request")
	ErrNotFound       = New(CodeNotFound, http.StatusNotFound, "resource not found")
	ErrInternal       = New(CodeInternal, http.StatusInternalServerError, "internal server error")
)

// ================================================================================
// Utilities
// ================================================================================

// AsAppError extracts an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Classify returns the AppError for err, reclassifying anything unknown
// as ErrInternal so callers never surface an unmapped failure.
func Classify(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return ErrInternal.WithError(err)
}

// Is re-exports errors.Is for packages that already import this one.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
