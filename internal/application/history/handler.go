package history

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/history"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// PurchaseHistoryHandler keeps per-buyer purchase counts in step with order
// lifecycle events. It runs behind the event bus, so a failure here is logged
// by the bus and never fails the sync pass that emitted the event.
type PurchaseHistoryHandler struct {
	histories history.Repository
	logger    *zap.Logger
}

// NewPurchaseHistoryHandler creates a new PurchaseHistoryHandler
func NewPurchaseHistoryHandler(histories history.Repository, logger *zap.Logger) *PurchaseHistoryHandler {
	return &PurchaseHistoryHandler{
		histories: histories,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *PurchaseHistoryHandler) EventTypes() []string {
	return []string{order.EventTypeOrderFinalized, order.EventTypeOrderCancelled}
}

// Handle applies one order lifecycle event to the buyer's history
func (h *PurchaseHistoryHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.FinalizedEvent:
		return h.apply(ctx, event, e.BuyerID, (*history.BuyerHistory).RecordFinalized)
	case *order.CancelledEvent:
		return h.apply(ctx, event, e.BuyerID, (*history.BuyerHistory).RecordCancelled)
	default:
		return nil
	}
}

func (h *PurchaseHistoryHandler) apply(ctx context.Context, event shared.DomainEvent, buyerID string, mutate func(*history.BuyerHistory)) error {
	if buyerID == "" {
		// Orders synced from an old snapshot may lack buyer identity.
		h.logger.Debug("purchase history event without buyer, skipping",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	buyer, err := h.histories.FindByBuyer(ctx, event.TenantID(), buyerID)
	if errors.Is(err, history.ErrHistoryNotFound) {
		buyer, err = history.NewBuyerHistory(event.TenantID(), buyerID)
	}
	if err != nil {
		return err
	}

	mutate(buyer)
	return h.histories.Save(ctx, buyer)
}

// Ensure PurchaseHistoryHandler implements EventHandler
var _ shared.EventHandler = (*PurchaseHistoryHandler)(nil)
