package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID within a tenant
func (r *GormProductRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var m models.ProductModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByExternalKey finds a product whose external ID or external SKU equals
// the given key
func (r *GormProductRepository) FindByExternalKey(ctx context.Context, tenantID uuid.UUID, key string) (*catalog.Product, error) {
	if key == "" {
		return nil, catalog.ErrProductNotFound
	}
	var m models.ProductModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND (external_id = ? OR external_sku = ?)", tenantID, key, key).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindActive returns all active products for a tenant
func (r *GormProductRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]catalog.Product, error) {
	var ms []models.ProductModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return productsToDomain(ms), nil
}

// FindAll returns all products for a tenant with pagination
func (r *GormProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]catalog.Product, int64, error) {
	var total int64
	if err := conn(ctx, r.db).
		Model(&models.ProductModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.ProductModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return productsToDomain(ms), total, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	m := models.ProductModelFromDomain(product)
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(m).Error
}

func productsToDomain(ms []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, 0, len(ms))
	for i := range ms {
		products = append(products, *ms[i].ToDomain())
	}
	return products
}
