package ecommerce

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// yandexOrderEnvelope wraps a single order response
type yandexOrderEnvelope struct {
	Order json.RawMessage `json:"order"`
}

// yandexOrder is the wire shape of an order on the partner API
type yandexOrder struct {
	ID     int64             `json:"id"`
	Status string            `json:"status"`
	Buyer  yandexBuyer       `json:"buyer"`
	Items  []yandexOrderItem `json:"items"`
}

// yandexOrderItem is one line item of a wire order. The marketplace identifies
// an offer by offerId, shopSku or the numeric marketSku depending on the
// listing model, and any of the three may be absent.
type yandexOrderItem struct {
	ID        int64           `json:"id"`
	OfferID   string          `json:"offerId"`
	ShopSKU   string          `json:"shopSku"`
	MarketSKU json.Number     `json:"marketSku"`
	Count     int             `json:"count"`
	Price     decimal.Decimal `json:"price"`
	Digital   bool            `json:"digital"`
}

// yandexBuyer identifies the buyer of a wire order
type yandexBuyer struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// yandexOrdersListResponse is the paged orders listing response
type yandexOrdersListResponse struct {
	Orders []json.RawMessage `json:"orders"`
	Pager  yandexPager       `json:"pager"`
}

// yandexPager carries page-based pagination state
type yandexPager struct {
	Total       int `json:"total"`
	PagesCount  int `json:"pagesCount"`
	CurrentPage int `json:"currentPage"`
}

// yandexOfferMappingsResponse is the paged offer mappings response
type yandexOfferMappingsResponse struct {
	Result struct {
		OfferMappingEntries []json.RawMessage `json:"offerMappingEntries"`
		Paging              struct {
			NextPageToken string `json:"nextPageToken"`
		} `json:"paging"`
	} `json:"result"`
}

// yandexOfferMapping is one entry of the remote catalog: the shop-side offer
// card plus the marketplace-side SKU mapping
type yandexOfferMapping struct {
	Offer struct {
		OfferID   string          `json:"offerId"`
		ShopSKU   string          `json:"shopSku"`
		Name      string          `json:"name"`
		Price     decimal.Decimal `json:"price"`
		Available *bool           `json:"available"`
	} `json:"offer"`
	Mapping struct {
		MarketSKU json.Number `json:"marketSku"`
	} `json:"mapping"`
}

// yandexDeliverDigitalGoodsRequest is the digital delivery request body
type yandexDeliverDigitalGoodsRequest struct {
	Items []yandexDigitalGoodsItem `json:"items"`
}

// yandexDigitalGoodsItem carries the codes for one digital line item
type yandexDigitalGoodsItem struct {
	ID           int64    `json:"id"`
	Codes        []string `json:"codes"`
	Slip         string   `json:"slip"`
	ActivateTill string   `json:"activate_till"`
}

// yandexErrorResponse is the error envelope the partner API returns on 4xx/5xx
type yandexErrorResponse struct {
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// message returns the first error message, or "" when the body was not an
// error envelope
func (r *yandexErrorResponse) message() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}
