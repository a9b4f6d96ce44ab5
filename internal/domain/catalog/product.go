package catalog

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

var (
	ErrProductInvalidTenantID = errors.New("catalog: invalid tenant ID")
	ErrProductInvalidName     = errors.New("catalog: product name cannot be empty")
	ErrProductInvalidType     = errors.New("catalog: invalid product type")
	ErrProductNotFound        = errors.New("catalog: product not found")
	ErrProductNotDigital      = errors.New("catalog: product is not digital")
)

// ProductType distinguishes goods that ship physically from goods fulfilled
// by delivering an activation code.
type ProductType string

const (
	ProductTypeDigital  ProductType = "DIGITAL"
	ProductTypePhysical ProductType = "PHYSICAL"
)

// IsValid returns true if the product type is valid
func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeDigital, ProductTypePhysical:
		return true
	default:
		return false
	}
}

// String returns the string representation of ProductType
func (t ProductType) String() string {
	return string(t)
}

// Product is a tenant-scoped catalog entry mirrored from the marketplace.
// ExternalID and ExternalSKU are the marketplace identifiers used for order
// item matching; each is unique per tenant when set. Snapshot holds the full
// remote offer card as opaque JSON and serves as a matching fallback when the
// flat identifier columns are empty.
type Product struct {
	shared.BaseEntity
	TenantID    uuid.UUID
	Name        string
	Type        ProductType
	ExternalID  *string
	ExternalSKU *string
	Snapshot    Snapshot
	TemplateID  *uuid.UUID
	IsActive    bool

	// Local-only fields, never touched by catalog sync.
	CostPrice decimal.Decimal
	Supplier  string
}

// NewProduct creates a new catalog product
func NewProduct(tenantID uuid.UUID, name string, productType ProductType) (*Product, error) {
	if tenantID == uuid.Nil {
		return nil, ErrProductInvalidTenantID
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrProductInvalidName
	}
	if !productType.IsValid() {
		return nil, ErrProductInvalidType
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Name:       name,
		Type:       productType,
		IsActive:   true,
		CostPrice:  decimal.Zero,
	}, nil
}

// IsDigital returns true for products fulfilled via activation codes
func (p *Product) IsDigital() bool {
	return p.Type == ProductTypeDigital
}

// HasTemplate returns true if a fulfillment template is bound
func (p *Product) HasTemplate() bool {
	return p.TemplateID != nil && *p.TemplateID != uuid.Nil
}

// ApplyRemoteOffer refreshes the marketplace-owned fields from a remote offer.
// Local-only fields (cost price, supplier, template binding) are left alone so
// a sync pass never clobbers manual edits.
func (p *Product) ApplyRemoteOffer(name string, externalID, externalSKU *string, snapshot Snapshot) {
	if strings.TrimSpace(name) != "" {
		p.Name = name
	}
	if externalID != nil && *externalID != "" {
		p.ExternalID = externalID
	}
	if externalSKU != nil && *externalSKU != "" {
		p.ExternalSKU = externalSKU
	}
	if len(snapshot) > 0 {
		p.Snapshot = snapshot
	}
	p.Touch()
}

// BindTemplate binds a fulfillment template to a digital product
func (p *Product) BindTemplate(templateID uuid.UUID) error {
	if !p.IsDigital() {
		return ErrProductNotDigital
	}
	p.TemplateID = &templateID
	p.Touch()
	return nil
}

// UnbindTemplate removes the fulfillment template binding
func (p *Product) UnbindTemplate() {
	p.TemplateID = nil
	p.Touch()
}

// Activate marks the product as active
func (p *Product) Activate() {
	p.IsActive = true
	p.Touch()
}

// Deactivate marks the product as inactive
func (p *Product) Deactivate() {
	p.IsActive = false
	p.Touch()
}

// MatchesKey returns true if the given key equals the product's external ID or
// external SKU. Empty keys never match.
func (p *Product) MatchesKey(key string) bool {
	if key == "" {
		return false
	}
	if p.ExternalID != nil && *p.ExternalID == key {
		return true
	}
	if p.ExternalSKU != nil && *p.ExternalSKU == key {
		return true
	}
	return false
}
