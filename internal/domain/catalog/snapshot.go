package catalog

import (
	"encoding/json"
	"strconv"
)

// Snapshot is the opaque remote offer card kept alongside a product. The
// marketplace nests identifiers at arbitrary depth, so the snapshot is stored
// as raw JSON and probed structurally instead of being modelled field by field.
type Snapshot json.RawMessage

// MarshalJSON implements json.Marshaler
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	*s = append((*s)[0:0], data...)
	return nil
}

// ContainsValue reports whether any scalar field anywhere inside the snapshot
// equals one of the given keys. Numbers are compared by their decimal string
// form since marketplace payloads flip between string and numeric identifiers.
func (s Snapshot) ContainsValue(keys ...string) bool {
	if len(s) == 0 {
		return false
	}
	var doc interface{}
	if err := json.Unmarshal(s, &doc); err != nil {
		return false
	}
	wanted := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			wanted[k] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return false
	}
	return scanValue(doc, wanted)
}

func scanValue(v interface{}, wanted map[string]struct{}) bool {
	switch val := v.(type) {
	case string:
		_, ok := wanted[val]
		return ok
	case float64:
		_, ok := wanted[strconv.FormatFloat(val, 'f', -1, 64)]
		return ok
	case map[string]interface{}:
		for _, child := range val {
			if scanValue(child, wanted) {
				return true
			}
		}
	case []interface{}:
		for _, child := range val {
			if scanValue(child, wanted) {
				return true
			}
		}
	}
	return false
}
