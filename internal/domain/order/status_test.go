package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapRemoteStatus(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		want   Status
	}{
		{"processing", "PROCESSING", StatusProcessing},
		{"delivery in progress", "DELIVERY", StatusProcessing},
		{"pickup point", "PICKUP", StatusProcessing},
		{"delivered", "DELIVERED", StatusCompleted},
		{"plain cancellation", "CANCELLED", StatusCancelled},
		{"cancelled in delivery", "CANCELLED_IN_DELIVERY", StatusCancelled},
		{"cancelled before processing", "CANCELLED_BEFORE_PROCESSING", StatusCancelled},
		{"returned", "RETURNED", StatusCancelled},
		{"unpaid", "UNPAID", StatusPending},
		{"reserved", "RESERVED", StatusPending},
		{"empty string", "", StatusPending},
		{"unknown status", "SOMETHING_NEW", StatusPending},
		{"lowercase input", "delivered", StatusCompleted},
		{"surrounding whitespace", "  DELIVERY  ", StatusProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapRemoteStatus(tt.remote))
		})
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusProcessing, StatusCompleted, StatusFinished, StatusCancelled, StatusFailed} {
		assert.True(t, s.IsValid(), s.String())
	}
	assert.False(t, Status("SHIPPED").IsValid())
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusFinished.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
	assert.False(t, StatusCompleted.IsTerminal())
}
