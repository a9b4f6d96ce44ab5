package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

var (
	ErrInvalidTenantID      = errors.New("order: invalid tenant ID")
	ErrInvalidRemoteOrderID = errors.New("order: remote order ID cannot be empty")
	ErrInvalidProductID     = errors.New("order: invalid product ID")
	ErrInvalidQuantity      = errors.New("order: quantity must be positive")
	ErrRecordNotFound       = errors.New("order: order record not found")
	ErrAlreadySent          = errors.New("order: activation code already sent")
	ErrAlreadyFinished      = errors.New("order: order record already finished")
)

// Record is one line item of a remote marketplace order, localized. A remote
// order with N matched items yields N records sharing one RemoteOrderID; the
// pair (RemoteOrderID, ProductID) is unique.
type Record struct {
	shared.BaseEntity
	TenantID      uuid.UUID
	RemoteOrderID string
	ProductID     uuid.UUID
	Quantity      int
	Amount        decimal.Decimal
	Status        Status
	RemoteStatus  string
	Snapshot      RemoteSnapshot
	CredentialID  *uuid.UUID
	Sent          bool
	SentAt        *time.Time
	CompletedAt   *time.Time
}

// NewRecord creates a new order record from a freshly matched remote item
func NewRecord(tenantID uuid.UUID, remoteOrderID string, productID uuid.UUID, quantity int, amount decimal.Decimal, remoteStatus string, snapshot RemoteSnapshot) (*Record, error) {
	if tenantID == uuid.Nil {
		return nil, ErrInvalidTenantID
	}
	if remoteOrderID == "" {
		return nil, ErrInvalidRemoteOrderID
	}
	if productID == uuid.Nil {
		return nil, ErrInvalidProductID
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	return &Record{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		RemoteOrderID: remoteOrderID,
		ProductID:     productID,
		Quantity:      quantity,
		Amount:        amount,
		Status:        MapRemoteStatus(remoteStatus),
		RemoteStatus:  remoteStatus,
		Snapshot:      snapshot,
	}, nil
}

// Refresh updates the marketplace-derived fields from a newer remote item.
// The raw remote status and snapshot always refresh; the local status goes
// through ApplyRemoteStatus so a finished record cannot be resurrected.
func (r *Record) Refresh(quantity int, amount decimal.Decimal, remoteStatus string, snapshot RemoteSnapshot) {
	if quantity > 0 {
		r.Quantity = quantity
	}
	r.Amount = amount
	r.RemoteStatus = remoteStatus
	if len(snapshot) > 0 {
		r.Snapshot = snapshot
	}
	r.ApplyRemoteStatus(MapRemoteStatus(remoteStatus))
}

// ApplyRemoteStatus writes a mapped status onto the record, honoring the
// state-transition guard: a FINISHED record accepts only CANCELLED, every
// other mapped status is discarded. Returns true if the status changed.
func (r *Record) ApplyRemoteStatus(mapped Status) bool {
	if r.Status == StatusFinished && mapped != StatusCancelled {
		r.Touch()
		return false
	}
	if r.Status == mapped {
		return false
	}
	r.Status = mapped
	if mapped == StatusCompleted && r.CompletedAt == nil {
		now := time.Now()
		r.CompletedAt = &now
	}
	r.Touch()
	return true
}

// BindCredential records the activation credential assigned to this record
func (r *Record) BindCredential(credentialID uuid.UUID) {
	r.CredentialID = &credentialID
	r.Touch()
}

// HasCredential returns true if an activation credential is bound
func (r *Record) HasCredential() bool {
	return r.CredentialID != nil && *r.CredentialID != uuid.Nil
}

// MarkSent records a successful delivery of the activation credential
func (r *Record) MarkSent() {
	now := time.Now()
	r.Sent = true
	r.SentAt = &now
	if r.CompletedAt == nil {
		r.CompletedAt = &now
	}
	r.Touch()
}

// Complete promotes the record to COMPLETED and stamps CompletedAt if unset
func (r *Record) Complete() {
	if r.Status == StatusFinished {
		return
	}
	r.Status = StatusCompleted
	if r.CompletedAt == nil {
		now := time.Now()
		r.CompletedAt = &now
	}
	r.Touch()
}

// MarkFinished manually finalizes the record. Once finished, only an explicit
// cancellation observed from the marketplace can change the status again.
func (r *Record) MarkFinished() error {
	if r.Status == StatusFinished {
		return ErrAlreadyFinished
	}
	r.Status = StatusFinished
	if r.CompletedAt == nil {
		now := time.Now()
		r.CompletedAt = &now
	}
	r.Touch()
	return nil
}

// IsFinished returns true if the record was manually finalized
func (r *Record) IsFinished() bool {
	return r.Status == StatusFinished
}

// IsCancelled returns true if the record reflects a remote cancellation
func (r *Record) IsCancelled() bool {
	return r.Status == StatusCancelled
}
