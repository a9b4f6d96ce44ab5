package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storefront/backend/internal/domain/tenant"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormSettingsRepository implements tenant.SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// FindByTenant returns the settings for a tenant
func (r *GormSettingsRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*tenant.Settings, error) {
	var m models.TenantSettingsModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ?", tenantID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tenant.ErrSettingsNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll returns every tenant's settings
func (r *GormSettingsRepository) FindAll(ctx context.Context) ([]tenant.Settings, error) {
	var ms []models.TenantSettingsModel
	if err := conn(ctx, r.db).
		Order("created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	settings := make([]tenant.Settings, 0, len(ms))
	for i := range ms {
		settings = append(settings, *ms[i].ToDomain())
	}
	return settings, nil
}

// Save creates or updates tenant settings, keyed by tenant ID
func (r *GormSettingsRepository) Save(ctx context.Context, settings *tenant.Settings) error {
	now := time.Now()
	m := &models.TenantSettingsModel{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	m.FromDomain(settings)
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"auto_activation_enabled", "processing_time_text", "contact_email", "updated_at",
			}),
		}).
		Create(m).Error
}
