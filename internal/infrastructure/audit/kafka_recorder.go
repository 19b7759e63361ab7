package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ferrocrete/sitegate/internal/config"
	"github.com/ferrocrete/sitegate/internal/domain/service"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

// KafkaRecorder fans security events out to a Kafka topic in addition to
// the wrapped recorder. Produce failures are logged and never block or
// fail the request path.
type KafkaRecorder struct {
	writer *kafka.Writer
	next   service.AuditRecorder
	log    logger.Logger
}

// NewKafkaRecorder creates a recorder producing to the configured topic.
func NewKafkaRecorder(cfg *config.KafkaConfig, next service.AuditRecorder, log logger.Logger) *KafkaRecorder {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		Async:        true,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaRecorder{writer: writer, next: next, log: log}
}

type wireEvent struct {
	Type      string                 `json:"type"`
	Actor     string                 `json:"actor,omitempty"`
	Addr      string                 `json:"addr,omitempty"`
	Route     string                 `json:"route,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Record forwards to the wrapped recorder, then produces asynchronously.
func (r *KafkaRecorder) Record(ctx context.Context, event service.SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	r.next.Record(ctx, event)

	payload, err := json.Marshal(wireEvent{
		Type:      string(event.Type),
		Actor:     event.Actor,
		Addr:      event.Addr,
		Route:     event.Route,
		Timestamp: event.Timestamp,
		Details:   event.Details,
	})
	if err != nil {
		r.log.Error(ctx, "failed to marshal audit event", err)
		return
	}

	if err := r.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Type),
		Value: payload,
	}); err != nil {
		r.log.Error(ctx, "failed to produce audit event", err, logger.Fields{"topic": r.writer.Topic})
	}
}

// Close flushes and closes the underlying writer.
func (r *KafkaRecorder) Close() error {
	return r.writer.Close()
}

var _ service.AuditRecorder = (*KafkaRecorder)(nil)
