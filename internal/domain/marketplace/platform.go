package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrPlatformNotConfigured   = errors.New("marketplace: platform not configured")
	ErrPlatformRequestFailed   = errors.New("marketplace: platform request failed")
	ErrPlatformInvalidResponse = errors.New("marketplace: invalid platform response")
	ErrOrderNotFound           = errors.New("marketplace: order not found")
	ErrDeliveryRejected        = errors.New("marketplace: digital goods delivery rejected")
)

// ActivateTillLayout is the date format the platform expects for code expiry
const ActivateTillLayout = "2006-01-02"

// RemoteOrderItem is one line item of a marketplace order. The platform may
// identify the offer by any of three keys depending on the listing model.
type RemoteOrderItem struct {
	ID        int64
	OfferID   string
	ShopSKU   string
	MarketSKU string
	Count     int
	Price     decimal.Decimal
	Digital   bool
}

// RemoteBuyer identifies the buyer of a remote order
type RemoteBuyer struct {
	ID        string
	FirstName string
	LastName  string
}

// RemoteOrder is an order as recorded by the marketplace, the source of truth
// the local mirror reconciles against. Raw preserves the untouched payload for
// snapshot storage.
type RemoteOrder struct {
	ID     string
	Status string
	Items  []RemoteOrderItem
	Buyer  RemoteBuyer
	Raw    json.RawMessage
}

// RemoteOffer is one catalog entry as listed on the marketplace
type RemoteOffer struct {
	OfferID   string
	ShopSKU   string
	MarketSKU string
	Name      string
	Price     decimal.Decimal
	Available bool
	Raw       json.RawMessage
}

// DigitalGoods is the per-item payload of a digital delivery call
type DigitalGoods struct {
	ItemID       int64
	Codes        []string
	Instructions string
	ActivateTill string // YYYY-MM-DD
}

// Platform is the port to the remote marketplace. Implementations live in the
// infrastructure layer; all calls are blocking I/O with a bounded timeout and
// are never retried here.
type Platform interface {
	// GetOrder fetches the canonical order snapshot by its remote ID
	GetOrder(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) (*RemoteOrder, error)

	// ListOffers lists every offer of the tenant's remote catalog
	ListOffers(ctx context.Context, tenantID uuid.UUID) ([]RemoteOffer, error)

	// ListRecentOrders lists orders updated within the given window
	ListRecentOrders(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]RemoteOrder, error)

	// DeliverDigitalGoods submits activation codes for every digital item of
	// an order in one call. The platform treats the call as all-or-nothing.
	DeliverDigitalGoods(ctx context.Context, tenantID uuid.UUID, remoteOrderID string, items []DigitalGoods) error
}
