package models

import (
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/history"
)

// BuyerHistoryModel is the persistence model for the BuyerHistory domain entity.
type BuyerHistoryModel struct {
	BaseModel
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_buyer_history_tenant_buyer,priority:1"`
	BuyerID  string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_buyer_history_tenant_buyer,priority:2"`
	Orders   int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BuyerHistoryModel) TableName() string {
	return "buyer_histories"
}

// ToDomain converts the persistence model to a domain BuyerHistory entity.
func (m *BuyerHistoryModel) ToDomain() *history.BuyerHistory {
	return &history.BuyerHistory{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		BuyerID:    m.BuyerID,
		Orders:     m.Orders,
	}
}

// FromDomain populates the persistence model from a domain BuyerHistory entity.
func (m *BuyerHistoryModel) FromDomain(h *history.BuyerHistory) {
	m.FromDomainBaseEntity(h.BaseEntity)
	m.TenantID = h.TenantID
	m.BuyerID = h.BuyerID
	m.Orders = h.Orders
}
