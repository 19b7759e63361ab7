// Package audit records security events. Every authentication and
// authorization decision produces an entry here before its error is
// returned, so operators keep forensic detail the client never sees.
package audit

import (
	"context"
	"time"

	"github.com/ferrocrete/sitegate/internal/domain/service"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

// LogRecorder writes security events to the structured log.
type LogRecorder struct {
	log logger.Logger
}

// NewLogRecorder creates a recorder backed by the application logger.
func NewLogRecorder(log logger.Logger) *LogRecorder {
	return &LogRecorder{log: log.WithFields(logger.Fields{"component": "security-audit"})}
}

// Record emits the event as a structured log entry.
func (r *LogRecorder) Record(ctx context.Context, event service.SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	fields := logger.Fields{
		"event":     string(event.Type),
		"timestamp": event.Timestamp.Format(time.RFC3339),
	}
	if event.Actor != "" {
		fields["actor"] = event.Actor
	}
	if event.Addr != "" {
		fields["addr"] = event.Addr
	}
	if event.Route != "" {
		fields["route"] = event.Route
	}
	for k, v := range event.Details {
		fields[k] = v
	}

	r.log.Info(ctx, "security event", fields)
}

var _ service.AuditRecorder = (*LogRecorder)(nil)
