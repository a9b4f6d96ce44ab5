package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/shared"
)

// recordingHandler collects the events it receives
type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) received() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func newEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "OrderRecord", uuid.New(), uuid.New())
	return &e
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	t.Run("routes events to type-specific handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		cancelled := &recordingHandler{types: []string{"order.cancelled"}}
		finalized := &recordingHandler{types: []string{"order.finalized"}}
		bus.Subscribe(cancelled)
		bus.Subscribe(finalized)

		err := bus.Publish(context.Background(), newEvent("order.cancelled"))

		assert.NoError(t, err)
		assert.Equal(t, 1, cancelled.received())
		assert.Equal(t, 0, finalized.received())
	})

	t.Run("wildcard handler receives every event", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		wildcard := &recordingHandler{}
		bus.Subscribe(wildcard)

		err := bus.Publish(context.Background(),
			newEvent("order.cancelled"),
			newEvent("order.finalized"),
		)

		assert.NoError(t, err)
		assert.Equal(t, 2, wildcard.received())
	})

	t.Run("handler failure never fails the publisher", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		failing := &recordingHandler{types: []string{"order.finalized"}, err: errors.New("boom")}
		healthy := &recordingHandler{types: []string{"order.finalized"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(context.Background(), newEvent("order.finalized"))

		assert.NoError(t, err)
		assert.Equal(t, 1, healthy.received(), "later handlers still run")
	})

	t.Run("handler panic is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		bus.Subscribe(&recordingHandler{types: []string{"order.finalized"}, panics: true})

		assert.NotPanics(t, func() {
			_ = bus.Publish(context.Background(), newEvent("order.finalized"))
		})
	})
}
