package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storefront/backend/internal/domain/history"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormBuyerHistoryRepository implements history.Repository using GORM
type GormBuyerHistoryRepository struct {
	db *gorm.DB
}

// NewGormBuyerHistoryRepository creates a new GormBuyerHistoryRepository
func NewGormBuyerHistoryRepository(db *gorm.DB) *GormBuyerHistoryRepository {
	return &GormBuyerHistoryRepository{db: db}
}

// FindByBuyer returns the history row for one buyer
func (r *GormBuyerHistoryRepository) FindByBuyer(ctx context.Context, tenantID uuid.UUID, buyerID string) (*history.BuyerHistory, error) {
	var m models.BuyerHistoryModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND buyer_id = ?", tenantID, buyerID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, history.ErrHistoryNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Save creates or updates a buyer history row, keyed by (tenant, buyer)
func (r *GormBuyerHistoryRepository) Save(ctx context.Context, h *history.BuyerHistory) error {
	m := &models.BuyerHistoryModel{}
	m.FromDomain(h)
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "buyer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"orders", "updated_at"}),
		}).
		Create(m).Error
}
