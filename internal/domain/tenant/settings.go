package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrSettingsNotFound = errors.New("tenant: settings not found")

// Settings holds the per-tenant knobs the sync and fulfillment engines read.
// Settings are looked up fresh at every decision point rather than cached, so
// a toggle takes effect on the next gate without a restart.
type Settings struct {
	TenantID              uuid.UUID
	AutoActivationEnabled bool
	ProcessingTimeText    string
	ContactEmail          string
}

// SettingsRepository defines the interface for tenant settings lookup
type SettingsRepository interface {
	// FindByTenant returns the settings for a tenant, or ErrSettingsNotFound
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*Settings, error)

	// FindAll returns every tenant's settings, used to enumerate tenants
	// for scheduled reconciliation
	FindAll(ctx context.Context) ([]Settings, error)

	// Save creates or updates tenant settings
	Save(ctx context.Context, settings *Settings) error
}
