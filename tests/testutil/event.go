package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/oilmart/backend/internal/domain/shared"
)

// EventRecorder subscribes to the event bus and keeps every event it
// receives, so tests can assert on what a flow published. The bus
// delivers asynchronously; pair it with WaitForEventCount.
type EventRecorder struct {
	mu         sync.Mutex
	eventTypes []string
	recorded   []shared.DomainEvent
}

// NewEventRecorder creates a recorder for the given event types. With
// no types it receives everything.
func NewEventRecorder(eventTypes ...string) *EventRecorder {
	return &EventRecorder{eventTypes: eventTypes}
}

// EventTypes returns the subscribed event types.
func (r *EventRecorder) EventTypes() []string {
	return r.eventTypes
}

// Handle records the event.
func (r *EventRecorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, event)
	return nil
}

// Recorded returns a copy of all recorded events.
func (r *EventRecorder) Recorded() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]shared.DomainEvent, len(r.recorded))
	copy(result, r.recorded)
	return result
}

// Count returns the number of recorded events.
func (r *EventRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.recorded)
}

// CountOfType returns how many recorded events carry the given type.
func (r *EventRecorder) CountOfType(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.recorded {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}

// WaitForEventCount polls until the recorder holds at least count
// events or the timeout passes. Returns whether the count was reached.
func WaitForEventCount(t *testing.T, recorder *EventRecorder, count int, timeout time.Duration) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if recorder.Count() >= count {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return recorder.Count() >= count
}
