package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID within a tenant
	FindByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*Product, error)

	// FindByExternalKey finds a product whose external ID or external SKU
	// equals the given key. Returns ErrProductNotFound on a miss.
	FindByExternalKey(ctx context.Context, tenantID uuid.UUID, key string) (*Product, error)

	// FindActive returns all active products for a tenant
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]Product, error)

	// FindAll returns all products for a tenant with pagination
	FindAll(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]Product, int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}
