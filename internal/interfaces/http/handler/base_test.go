package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	appfulfillment "github.com/storefront/backend/internal/application/fulfillment"
	"github.com/storefront/backend/internal/domain/marketplace"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"record not found", order.ErrRecordNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", order.ErrRecordNotFound), dto.ErrCodeNotFound},
		{"remote order not found", marketplace.ErrOrderNotFound, dto.ErrCodeNotFound},
		{"no deliverable items", appfulfillment.ErrNoDeliverableItems, dto.ErrCodeBusinessRule},
		{"nothing to finish", appfulfillment.ErrNothingToFinish, dto.ErrCodeBusinessRule},
		{"no credential", appfulfillment.ErrNoCredentialAvailable, dto.ErrCodeNoCredential},
		{"platform not configured", marketplace.ErrPlatformNotConfigured, dto.ErrCodePlatformNotConfigured},
		{"platform request failed", marketplace.ErrPlatformRequestFailed, dto.ErrCodePlatformUnavailable},
		{"delivery rejected", marketplace.ErrDeliveryRejected, dto.ErrCodeDeliveryRejected},
		{"wrapped remote delivery", fmt.Errorf("%w: HTTP 400", appfulfillment.ErrRemoteDeliveryFailed), dto.ErrCodeDeliveryRejected},
		{"domain error", shared.ErrAlreadyExists, dto.ErrCodeAlreadyExists},
		{"unknown", errors.New("boom"), dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := classifyError(tt.err)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestClassifyError_MissingTemplates(t *testing.T) {
	err := &appfulfillment.MissingTemplatesError{Products: []string{"A", "B"}}

	code, message := classifyError(err)

	assert.Equal(t, dto.ErrCodeMissingTemplates, code)
	assert.Contains(t, message, "A, B")
}

func TestClassifyError_UnknownHidesDetail(t *testing.T) {
	_, message := classifyError(errors.New("password=hunter2 leaked"))

	assert.NotContains(t, message, "hunter2")
}
