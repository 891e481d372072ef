// Package messaging relays domain events to external consumers.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oilmart/backend/internal/domain/order"
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// kafkaWriter is the subset of kafka.Writer the relay uses
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// envelope is the wire format published to the order events topic
type envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// KafkaEventRelay forwards order lifecycle events to a Kafka topic so
// downstream systems (notifications, analytics) can consume them.
// It subscribes to the in-process bus as a regular handler.
type KafkaEventRelay struct {
	writer kafkaWriter
	logger *zap.Logger
}

// NewKafkaEventRelay creates a relay writing to the configured topic
func NewKafkaEventRelay(cfg config.KafkaConfig, logger *zap.Logger) *KafkaEventRelay {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaEventRelay{writer: writer, logger: logger}
}

// Handle serializes the event and writes it to Kafka, keyed by the
// aggregate ID so events of one order stay in partition order
func (r *KafkaEventRelay) Handle(ctx context.Context, event shared.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka relay: failed to marshal event: %w", err)
	}

	msg, err := json.Marshal(envelope{
		EventID:       event.EventID().String(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID().String(),
		AggregateType: event.AggregateType(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("kafka relay: failed to marshal envelope: %w", err)
	}

	if err := r.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AggregateID().String()),
		Value: msg,
	}); err != nil {
		return fmt.Errorf("kafka relay: failed to write message: %w", err)
	}

	r.logger.Debug("event relayed to kafka",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
	)
	return nil
}

// EventTypes limits the relay to order lifecycle events
func (r *KafkaEventRelay) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderPaid,
		order.EventTypeOrderStatusChanged,
		order.EventTypeOrderCancelled,
	}
}

// Close flushes and closes the underlying writer
func (r *KafkaEventRelay) Close() error {
	return r.writer.Close()
}

var _ shared.EventHandler = (*KafkaEventRelay)(nil)
