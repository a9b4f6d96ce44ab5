package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storefront/backend/internal/domain/fulfillment"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormCredentialRepository implements fulfillment.CredentialRepository using GORM
type GormCredentialRepository struct {
	db *gorm.DB
}

// NewGormCredentialRepository creates a new GormCredentialRepository
func NewGormCredentialRepository(db *gorm.DB) *GormCredentialRepository {
	return &GormCredentialRepository{db: db}
}

// FindByID finds a credential by its ID within a tenant
func (r *GormCredentialRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*fulfillment.Credential, error) {
	var m models.CredentialModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fulfillment.ErrCredentialNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindUnusedByProduct returns the oldest unused credential for a product
func (r *GormCredentialRepository) FindUnusedByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*fulfillment.Credential, error) {
	var m models.CredentialModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND product_id = ? AND used = ?", tenantID, productID, false).
		Order("created_at ASC").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fulfillment.ErrCredentialNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// CountUnusedByProduct returns how many unused codes remain for a product
func (r *GormCredentialRepository) CountUnusedByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&models.CredentialModel{}).
		Where("tenant_id = ? AND product_id = ? AND used = ?", tenantID, productID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a credential
func (r *GormCredentialRepository) Save(ctx context.Context, credential *fulfillment.Credential) error {
	m := models.CredentialModelFromDomain(credential)
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(m).Error
}
