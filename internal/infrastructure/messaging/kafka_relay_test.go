package messaging

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/oilmart/backend/internal/domain/order"
	"github.com/oilmart/backend/internal/domain/shared/valueobject"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingWriter struct {
	messages []kafka.Message
	closed   bool
}

func (w *capturingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *capturingWriter) Close() error {
	w.closed = true
	return nil
}

func newPlacedEvent(t *testing.T) *order.OrderPlacedEvent {
	t.Helper()
	item, err := order.NewOrderItem(uuid.New(), "Castrol GTX 15W-40", valueobject.NewMoneyINRFromFloat(500), 2)
	require.NoError(t, err)
	o, err := order.NewOrder(uuid.New(), "ORD-1756400000000-123", "12 MG Road, Kochi", []*order.OrderItem{item}, nil, valueobject.ZeroINR())
	require.NoError(t, err)
	return order.NewOrderPlacedEvent(o)
}

func TestKafkaEventRelay_Handle(t *testing.T) {
	writer := &capturingWriter{}
	relay := &KafkaEventRelay{writer: writer, logger: zap.NewNop()}

	evt := newPlacedEvent(t)
	require.NoError(t, relay.Handle(context.Background(), evt))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, evt.AggregateID().String(), string(msg.Key))

	var env envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, "OrderPlaced", env.EventType)
	assert.Equal(t, "Order", env.AggregateType)

	var payload order.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "ORD-1756400000000-123", payload.OrderNumber)
	assert.Equal(t, 1, payload.ItemCount)
}

func TestKafkaEventRelay_EventTypes(t *testing.T) {
	relay := &KafkaEventRelay{writer: &capturingWriter{}, logger: zap.NewNop()}
	assert.ElementsMatch(t, []string{"OrderPlaced", "OrderPaid", "OrderStatusChanged", "OrderCancelled"}, relay.EventTypes())
}

func TestKafkaEventRelay_Close(t *testing.T) {
	writer := &capturingWriter{}
	relay := &KafkaEventRelay{writer: writer, logger: zap.NewNop()}
	require.NoError(t, relay.Close())
	assert.True(t, writer.closed)
}
