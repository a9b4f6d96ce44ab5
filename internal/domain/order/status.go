package order

import "strings"

// Status represents the local lifecycle state of an order record
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFinished   Status = "FINISHED"
	StatusCancelled  Status = "CANCELLED"
	StatusFailed     Status = "FAILED"
)

// IsValid returns true if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFinished, StatusCancelled, StatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for states a sync pass must not move the record out
// of on its own (FINISHED is manually set; CANCELLED is remote-terminal).
func (s Status) IsTerminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// statusTable maps marketplace order statuses to local statuses. Statuses not
// listed here fall through the CANCELLED prefix rule and then to PENDING.
var statusTable = map[string]Status{
	"PROCESSING":         StatusProcessing,
	"DELIVERY":           StatusProcessing,
	"PICKUP":             StatusProcessing,
	"DELIVERED":          StatusCompleted,
	"CANCELLED":          StatusCancelled,
	"RETURNED":           StatusCancelled,
	"PARTIALLY_RETURNED": StatusCancelled,
	"UNPAID":             StatusPending,
	"RESERVED":           StatusPending,
	"PENDING":            StatusPending,
}

// MapRemoteStatus translates a raw marketplace status string into a local
// status. Unknown or empty strings map to PENDING; the function is total and
// never fails.
func MapRemoteStatus(remote string) Status {
	normalized := strings.ToUpper(strings.TrimSpace(remote))
	if s, ok := statusTable[normalized]; ok {
		return s
	}
	// The platform reports cancellations with stage suffixes such as
	// CANCELLED_IN_DELIVERY and CANCELLED_BEFORE_PROCESSING.
	if strings.HasPrefix(normalized, "CANCELLED") {
		return StatusCancelled
	}
	return StatusPending
}
