package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	TenantID    uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:idx_product_tenant_external_id,priority:1;uniqueIndex:idx_product_tenant_external_sku,priority:1"`
	Name        string              `gorm:"type:varchar(255);not null"`
	Type        catalog.ProductType `gorm:"type:varchar(20);not null"`
	ExternalID  *string             `gorm:"type:varchar(128);uniqueIndex:idx_product_tenant_external_id,priority:2"`
	ExternalSKU *string             `gorm:"type:varchar(128);uniqueIndex:idx_product_tenant_external_sku,priority:2"`
	Snapshot    []byte              `gorm:"type:jsonb"`
	TemplateID  *uuid.UUID          `gorm:"type:uuid;index"`
	IsActive    bool                `gorm:"not null;default:true"`
	CostPrice   decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Supplier    string              `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		TenantID:    m.TenantID,
		Name:        m.Name,
		Type:        m.Type,
		ExternalID:  m.ExternalID,
		ExternalSKU: m.ExternalSKU,
		Snapshot:    catalog.Snapshot(m.Snapshot),
		TemplateID:  m.TemplateID,
		IsActive:    m.IsActive,
		CostPrice:   m.CostPrice,
		Supplier:    m.Supplier,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.TenantID = p.TenantID
	m.Name = p.Name
	m.Type = p.Type
	m.ExternalID = p.ExternalID
	m.ExternalSKU = p.ExternalSKU
	m.Snapshot = []byte(p.Snapshot)
	m.TemplateID = p.TemplateID
	m.IsActive = p.IsActive
	m.CostPrice = p.CostPrice
	m.Supplier = p.Supplier
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
