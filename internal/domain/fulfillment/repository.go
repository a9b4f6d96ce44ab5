package fulfillment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrTemplateNotFound = errors.New("fulfillment: template not found")

// CredentialRepository defines the interface for activation credential persistence
type CredentialRepository interface {
	// FindByID finds a credential by its ID within a tenant
	FindByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*Credential, error)

	// FindUnusedByProduct returns one unused credential for a product, or
	// ErrCredentialNotFound when the pool is empty
	FindUnusedByProduct(ctx context.Context, tenantID uuid.UUID, productID uuid.UUID) (*Credential, error)

	// CountUnusedByProduct returns how many unused codes remain for a product
	CountUnusedByProduct(ctx context.Context, tenantID uuid.UUID, productID uuid.UUID) (int64, error)

	// Save creates or updates a credential
	Save(ctx context.Context, credential *Credential) error
}

// TemplateRepository defines the read-only interface for fulfillment templates
type TemplateRepository interface {
	// FindByID finds a template by its ID within a tenant
	FindByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*Template, error)
}
