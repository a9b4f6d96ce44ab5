package order

import (
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeOrderCancelled = "order.cancelled"
	EventTypeOrderFinalized = "order.finalized"
)

// CancelledEvent is published when a sync pass first observes a remote
// cancellation for an order group. The purchase-history collaborator uses it
// to roll back client purchase quantities.
type CancelledEvent struct {
	shared.BaseDomainEvent
	RemoteOrderID string `json:"remote_order_id"`
	BuyerID       string `json:"buyer_id"`
}

// NewCancelledEvent creates a new CancelledEvent
func NewCancelledEvent(tenantID uuid.UUID, recordID uuid.UUID, remoteOrderID, buyerID string) *CancelledEvent {
	return &CancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, "OrderRecord", recordID, tenantID),
		RemoteOrderID:   remoteOrderID,
		BuyerID:         buyerID,
	}
}

// FinalizedEvent is published when an order group first reaches a completed
// state, so client purchase history can be appended.
type FinalizedEvent struct {
	shared.BaseDomainEvent
	RemoteOrderID string `json:"remote_order_id"`
	BuyerID       string `json:"buyer_id"`
}

// NewFinalizedEvent creates a new FinalizedEvent
func NewFinalizedEvent(tenantID uuid.UUID, recordID uuid.UUID, remoteOrderID, buyerID string) *FinalizedEvent {
	return &FinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderFinalized, "OrderRecord", recordID, tenantID),
		RemoteOrderID:   remoteOrderID,
		BuyerID:         buyerID,
	}
}
