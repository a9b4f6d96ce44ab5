package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormOrderRecordRepository implements order.RecordRepository using GORM
type GormOrderRecordRepository struct {
	db *gorm.DB
}

// NewGormOrderRecordRepository creates a new GormOrderRecordRepository
func NewGormOrderRecordRepository(db *gorm.DB) *GormOrderRecordRepository {
	return &GormOrderRecordRepository{db: db}
}

// FindByID finds a record by its ID within a tenant
func (r *GormOrderRecordRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*order.Record, error) {
	var m models.OrderRecordModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrRecordNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByRemoteOrderAndProduct finds the record for one (remote order, product) pair
func (r *GormOrderRecordRepository) FindByRemoteOrderAndProduct(ctx context.Context, tenantID uuid.UUID, remoteOrderID string, productID uuid.UUID) (*order.Record, error) {
	var m models.OrderRecordModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND remote_order_id = ? AND product_id = ?", tenantID, remoteOrderID, productID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrRecordNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByRemoteOrder returns the whole order group for a remote order ID
func (r *GormOrderRecordRepository) FindByRemoteOrder(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) ([]order.Record, error) {
	var ms []models.OrderRecordModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND remote_order_id = ?", tenantID, remoteOrderID).
		Order("created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return recordsToDomain(ms), nil
}

// FindAll returns records for a tenant with pagination, newest first
func (r *GormOrderRecordRepository) FindAll(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]order.Record, int64, error) {
	var total int64
	if err := conn(ctx, r.db).
		Model(&models.OrderRecordModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.OrderRecordModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return recordsToDomain(ms), total, nil
}

// Create inserts a new record. A violation of the (remote_order_id, product_id)
// uniqueness constraint is reported as shared.ErrAlreadyExists so racing sync
// passes can fall through to the update path.
func (r *GormOrderRecordRepository) Create(ctx context.Context, record *order.Record) error {
	m := models.OrderRecordModelFromDomain(record)
	if err := conn(ctx, r.db).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists changes to an existing record
func (r *GormOrderRecordRepository) Update(ctx context.Context, record *order.Record) error {
	m := models.OrderRecordModelFromDomain(record)
	result := conn(ctx, r.db).
		Model(&models.OrderRecordModel{}).
		Where("tenant_id = ? AND id = ?", record.TenantID, record.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return order.ErrRecordNotFound
	}
	return nil
}

func recordsToDomain(ms []models.OrderRecordModel) []order.Record {
	records := make([]order.Record, 0, len(ms))
	for i := range ms {
		records = append(records, *ms[i].ToDomain())
	}
	return records
}
