// Package logger defines the structured logging interface used across
// sitegate. The production implementation is zap-backed and lives in
// internal/infrastructure/monitoring; tests use the noop logger.
package logger

import "context"

// Fields is a map of structured logging fields.
type Fields map[string]interface{}

// Logger is the context-aware structured logging interface.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Fields)
	Info(ctx context.Context, msg string, fields ...Fields)
	Warn(ctx context.Context, msg string, fields ...Fields)
	Error(ctx context.Context, msg string, err error, fields ...Fields)
	Fatal(ctx context.Context, msg string, err error, fields ...Fields)

	// WithFields returns a logger that attaches the given fields to every
	// entry it emits.
	WithFields(fields Fields) Logger
}
