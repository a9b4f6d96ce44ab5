package ordersync

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/order"
)

// QueryService serves read-only order record views for the HTTP surface
type QueryService struct {
	records order.RecordRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(records order.RecordRepository) *QueryService {
	return &QueryService{records: records}
}

// ListOrders returns a page of order records for a tenant, newest first
func (s *QueryService) ListOrders(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]order.Record, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.records.FindAll(ctx, tenantID, page, pageSize)
}

// GetOrderGroup returns every record of one remote order
func (s *QueryService) GetOrderGroup(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) ([]order.Record, error) {
	group, err := s.records.FindByRemoteOrder(ctx, tenantID, remoteOrderID)
	if err != nil {
		return nil, err
	}
	if len(group) == 0 {
		return nil, order.ErrRecordNotFound
	}
	return group, nil
}
