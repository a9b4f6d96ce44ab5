package order

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// RemoteSnapshot is the full remote order payload stored with every record.
// A snapshot captured when the record was first created may be missing items
// added later, so it is kept whole and re-read defensively rather than being
// normalized into columns. Only the few paths the engine actually needs get
// typed accessors.
type RemoteSnapshot json.RawMessage

// MarshalJSON implements json.Marshaler
func (s RemoteSnapshot) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (s *RemoteSnapshot) UnmarshalJSON(data []byte) error {
	*s = append((*s)[0:0], data...)
	return nil
}

// SnapshotItem is the narrow view of a line item inside a stored snapshot
type SnapshotItem struct {
	ID      int64           `json:"id"`
	OfferID string          `json:"offerId"`
	ShopSKU string          `json:"shopSku"`
	Count   int             `json:"count"`
	Price   decimal.Decimal `json:"price"`
	Digital bool            `json:"digital"`
}

// Items extracts the line items array from the snapshot. A malformed or empty
// snapshot yields an empty slice, never an error.
func (s RemoteSnapshot) Items() []SnapshotItem {
	if len(s) == 0 {
		return nil
	}
	var doc struct {
		Items []SnapshotItem `json:"items"`
	}
	if err := json.Unmarshal(s, &doc); err != nil {
		return nil
	}
	return doc.Items
}

// BuyerID extracts the buyer identifier from the snapshot, or "" if absent
func (s RemoteSnapshot) BuyerID() string {
	if len(s) == 0 {
		return ""
	}
	var doc struct {
		Buyer struct {
			ID string `json:"id"`
		} `json:"buyer"`
	}
	if err := json.Unmarshal(s, &doc); err != nil {
		return ""
	}
	return doc.Buyer.ID
}
