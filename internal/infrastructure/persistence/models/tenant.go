package models

import (
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/tenant"
)

// TenantSettingsModel is the persistence model for per-tenant settings.
// One row per tenant.
type TenantSettingsModel struct {
	BaseModel
	TenantID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	AutoActivationEnabled bool      `gorm:"not null;default:false"`
	ProcessingTimeText    string    `gorm:"type:varchar(255)"`
	ContactEmail          string    `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (TenantSettingsModel) TableName() string {
	return "tenant_settings"
}

// ToDomain converts the persistence model to domain Settings.
func (m *TenantSettingsModel) ToDomain() *tenant.Settings {
	return &tenant.Settings{
		TenantID:              m.TenantID,
		AutoActivationEnabled: m.AutoActivationEnabled,
		ProcessingTimeText:    m.ProcessingTimeText,
		ContactEmail:          m.ContactEmail,
	}
}

// FromDomain populates the persistence model from domain Settings.
func (m *TenantSettingsModel) FromDomain(s *tenant.Settings) {
	m.TenantID = s.TenantID
	m.AutoActivationEnabled = s.AutoActivationEnabled
	m.ProcessingTimeText = s.ProcessingTimeText
	m.ContactEmail = s.ContactEmail
}
