package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
)

// OrderRecordModel is the persistence model for the order Record domain entity.
// The (tenant_id, remote_order_id, product_id) unique index backs the
// create-or-update upsert during order sync.
type OrderRecordModel struct {
	BaseModel
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_order_record_remote_product,priority:1"`
	RemoteOrderID string          `gorm:"type:varchar(64);not null;index;uniqueIndex:idx_order_record_remote_product,priority:2"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_order_record_remote_product,priority:3"`
	Quantity      int             `gorm:"not null;default:1"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status        order.Status    `gorm:"type:varchar(20);not null;index"`
	RemoteStatus  string          `gorm:"type:varchar(50);not null"`
	Snapshot      []byte          `gorm:"type:jsonb"`
	CredentialID  *uuid.UUID      `gorm:"type:uuid;index"`
	Sent          bool            `gorm:"not null;default:false"`
	SentAt        *time.Time
	CompletedAt   *time.Time
}

// TableName returns the table name for GORM
func (OrderRecordModel) TableName() string {
	return "order_records"
}

// ToDomain converts the persistence model to a domain Record entity.
func (m *OrderRecordModel) ToDomain() *order.Record {
	return &order.Record{
		BaseEntity:    m.BaseModel.ToDomain(),
		TenantID:      m.TenantID,
		RemoteOrderID: m.RemoteOrderID,
		ProductID:     m.ProductID,
		Quantity:      m.Quantity,
		Amount:        m.Amount,
		Status:        m.Status,
		RemoteStatus:  m.RemoteStatus,
		Snapshot:      order.RemoteSnapshot(m.Snapshot),
		CredentialID:  m.CredentialID,
		Sent:          m.Sent,
		SentAt:        m.SentAt,
		CompletedAt:   m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain Record entity.
func (m *OrderRecordModel) FromDomain(r *order.Record) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.TenantID = r.TenantID
	m.RemoteOrderID = r.RemoteOrderID
	m.ProductID = r.ProductID
	m.Quantity = r.Quantity
	m.Amount = r.Amount
	m.Status = r.Status
	m.RemoteStatus = r.RemoteStatus
	m.Snapshot = []byte(r.Snapshot)
	m.CredentialID = r.CredentialID
	m.Sent = r.Sent
	m.SentAt = r.SentAt
	m.CompletedAt = r.CompletedAt
}

// OrderRecordModelFromDomain creates a new persistence model from a domain Record entity.
func OrderRecordModelFromDomain(r *order.Record) *OrderRecordModel {
	m := &OrderRecordModel{}
	m.FromDomain(r)
	return m
}
