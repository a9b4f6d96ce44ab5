package fulfillment

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

var (
	ErrCredentialInvalidTenant  = errors.New("fulfillment: invalid tenant ID")
	ErrCredentialInvalidProduct = errors.New("fulfillment: invalid product ID")
	ErrCredentialEmptyCode      = errors.New("fulfillment: credential code cannot be empty")
	ErrCredentialAlreadyUsed    = errors.New("fulfillment: credential already used")
	ErrCredentialNotFound       = errors.New("fulfillment: credential not found")
)

// generatedCodeBytes is the entropy of an auto-generated activation code
const generatedCodeBytes = 16

// Credential is a single-use activation code bound to a digital product.
// Lifecycle is one-way: once used for an order it is never selected again.
type Credential struct {
	shared.BaseEntity
	TenantID      uuid.UUID
	ProductID     uuid.UUID
	Code          string
	Used          bool
	UsedAt        *time.Time
	OrderRecordID *uuid.UUID
}

// NewCredential creates an unused credential with the given code
func NewCredential(tenantID, productID uuid.UUID, code string) (*Credential, error) {
	if tenantID == uuid.Nil {
		return nil, ErrCredentialInvalidTenant
	}
	if productID == uuid.Nil {
		return nil, ErrCredentialInvalidProduct
	}
	if code == "" {
		return nil, ErrCredentialEmptyCode
	}

	return &Credential{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ProductID:  productID,
		Code:       code,
	}, nil
}

// GenerateCredential creates an unused credential with a random code
func GenerateCredential(tenantID, productID uuid.UUID) (*Credential, error) {
	buf := make([]byte, generatedCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return NewCredential(tenantID, productID, hex.EncodeToString(buf))
}

// MarkUsed consumes the credential for the given order record
func (c *Credential) MarkUsed(orderRecordID uuid.UUID) error {
	if c.Used {
		return ErrCredentialAlreadyUsed
	}
	now := time.Now()
	c.Used = true
	c.UsedAt = &now
	c.OrderRecordID = &orderRecordID
	c.Touch()
	return nil
}
