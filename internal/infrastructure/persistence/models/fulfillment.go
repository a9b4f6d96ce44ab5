package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/fulfillment"
)

// CredentialModel is the persistence model for the Credential domain entity.
type CredentialModel struct {
	BaseModel
	TenantID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_credential_tenant_product_used,priority:1"`
	ProductID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_credential_tenant_product_used,priority:2"`
	Code          string     `gorm:"type:varchar(255);not null"`
	Used          bool       `gorm:"not null;default:false;index:idx_credential_tenant_product_used,priority:3"`
	UsedAt        *time.Time
	OrderRecordID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (CredentialModel) TableName() string {
	return "credentials"
}

// ToDomain converts the persistence model to a domain Credential entity.
func (m *CredentialModel) ToDomain() *fulfillment.Credential {
	return &fulfillment.Credential{
		BaseEntity:    m.BaseModel.ToDomain(),
		TenantID:      m.TenantID,
		ProductID:     m.ProductID,
		Code:          m.Code,
		Used:          m.Used,
		UsedAt:        m.UsedAt,
		OrderRecordID: m.OrderRecordID,
	}
}

// FromDomain populates the persistence model from a domain Credential entity.
func (m *CredentialModel) FromDomain(c *fulfillment.Credential) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.TenantID = c.TenantID
	m.ProductID = c.ProductID
	m.Code = c.Code
	m.Used = c.Used
	m.UsedAt = c.UsedAt
	m.OrderRecordID = c.OrderRecordID
}

// CredentialModelFromDomain creates a new persistence model from a domain Credential entity.
func CredentialModelFromDomain(c *fulfillment.Credential) *CredentialModel {
	m := &CredentialModel{}
	m.FromDomain(c)
	return m
}

// TemplateModel is the persistence model for the Template domain entity.
type TemplateModel struct {
	BaseModel
	TenantID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Body          string    `gorm:"type:text;not null"`
	AutoGenerated bool      `gorm:"not null;default:false"`
	ValidityDays  int       `gorm:"not null;default:30"`
}

// TableName returns the table name for GORM
func (TemplateModel) TableName() string {
	return "fulfillment_templates"
}

// ToDomain converts the persistence model to a domain Template entity.
func (m *TemplateModel) ToDomain() *fulfillment.Template {
	return &fulfillment.Template{
		BaseEntity:    m.BaseModel.ToDomain(),
		TenantID:      m.TenantID,
		Name:          m.Name,
		Body:          m.Body,
		AutoGenerated: m.AutoGenerated,
		ValidityDays:  m.ValidityDays,
	}
}

// FromDomain populates the persistence model from a domain Template entity.
func (m *TemplateModel) FromDomain(t *fulfillment.Template) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.TenantID = t.TenantID
	m.Name = t.Name
	m.Body = t.Body
	m.AutoGenerated = t.AutoGenerated
	m.ValidityDays = t.ValidityDays
}
