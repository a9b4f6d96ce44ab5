package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/fulfillment"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormTemplateRepository implements fulfillment.TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindByID finds a template by its ID within a tenant
func (r *GormTemplateRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*fulfillment.Template, error) {
	var m models.TemplateModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fulfillment.ErrTemplateNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}
