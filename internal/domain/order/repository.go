package order

import (
	"context"

	"github.com/google/uuid"
)

// RecordRepository defines the interface for order record persistence
type RecordRepository interface {
	// FindByID finds a record by its ID within a tenant
	FindByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*Record, error)

	// FindByRemoteOrderAndProduct finds the record for one (remote order,
	// product) pair. Returns ErrRecordNotFound on a miss.
	FindByRemoteOrderAndProduct(ctx context.Context, tenantID uuid.UUID, remoteOrderID string, productID uuid.UUID) (*Record, error)

	// FindByRemoteOrder returns the whole order group for a remote order ID
	FindByRemoteOrder(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) ([]Record, error)

	// FindAll returns records for a tenant with pagination, newest first
	FindAll(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]Record, int64, error)

	// Create inserts a new record. A violation of the (remote_order_id,
	// product_id) uniqueness constraint is reported as
	// shared.ErrAlreadyExists so racing sync passes can fall through to the
	// update path.
	Create(ctx context.Context, record *Record) error

	// Update persists changes to an existing record
	Update(ctx context.Context, record *Record) error
}
