package history

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

var (
	ErrInvalidTenantID = errors.New("history: invalid tenant ID")
	ErrInvalidBuyerID  = errors.New("history: buyer ID cannot be empty")
	ErrHistoryNotFound = errors.New("history: buyer history not found")
)

// BuyerHistory tracks how many orders a marketplace buyer has completed with
// the shop. It is maintained by the purchase-history collaborator reacting to
// order lifecycle events; a cancellation observed after completion rolls the
// count back.
type BuyerHistory struct {
	shared.BaseEntity
	TenantID uuid.UUID
	BuyerID  string
	Orders   int
}

// NewBuyerHistory creates an empty history for a buyer
func NewBuyerHistory(tenantID uuid.UUID, buyerID string) (*BuyerHistory, error) {
	if tenantID == uuid.Nil {
		return nil, ErrInvalidTenantID
	}
	if buyerID == "" {
		return nil, ErrInvalidBuyerID
	}
	return &BuyerHistory{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		BuyerID:    buyerID,
	}, nil
}

// RecordFinalized counts one newly completed order
func (h *BuyerHistory) RecordFinalized() {
	h.Orders++
	h.Touch()
}

// RecordCancelled rolls back one completed order. The count never goes
// negative; a cancellation for an order that was never counted is a no-op.
func (h *BuyerHistory) RecordCancelled() {
	if h.Orders > 0 {
		h.Orders--
		h.Touch()
	}
}

// Repository defines the interface for buyer history persistence
type Repository interface {
	// FindByBuyer returns the history row for one buyer, or ErrHistoryNotFound
	FindByBuyer(ctx context.Context, tenantID uuid.UUID, buyerID string) (*BuyerHistory, error)

	// Save creates or updates a buyer history row
	Save(ctx context.Context, history *BuyerHistory) error
}
