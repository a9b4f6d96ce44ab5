package handler

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/ordersync"
	"github.com/storefront/backend/internal/domain/marketplace"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderPayloadParser converts a pushed wire payload into a remote order
type OrderPayloadParser func(raw json.RawMessage) (*marketplace.RemoteOrder, error)

// OrderSyncer mirrors a remote order snapshot into local records
type OrderSyncer interface {
	SyncOrder(ctx context.Context, tenantID uuid.UUID, remote *marketplace.RemoteOrder) (*ordersync.SyncOrderResult, error)
}

// AutoFulfiller dispatches unattended fulfillment for a just-synced order,
// triggered by one touched digital record
type AutoFulfiller interface {
	TryFulfill(ctx context.Context, tenantID uuid.UUID, remoteOrderID string, triggerProductID uuid.UUID) (bool, error)
}

// WebhookHandler is the push ingress for marketplace order notifications. A
// pushed order runs through the same sync and auto-fulfillment path the
// periodic poll uses, so push and pull get identical semantics.
type WebhookHandler struct {
	BaseHandler
	parse   OrderPayloadParser
	syncer  OrderSyncer
	trigger AutoFulfiller
	logger  *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(parse OrderPayloadParser, syncer OrderSyncer, trigger AutoFulfiller, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		parse:   parse,
		syncer:  syncer,
		trigger: trigger,
		logger:  logger,
	}
}

// RegisterRoutes registers webhook routes
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/market/orders", h.ReceiveOrder)
}

// WebhookOrderResponse summarizes what one pushed notification did
type WebhookOrderResponse struct {
	RemoteOrderID string `json:"remote_order_id"`
	Status        string `json:"status"`
	Created       int    `json:"created"`
	Updated       int    `json:"updated"`
	Skipped       int    `json:"skipped"`
	AutoFulfilled bool   `json:"auto_fulfilled"`
}

// ReceiveOrder ingests one pushed order payload. Auto-fulfillment failures do
// not fail the webhook; the notification is acknowledged once the sync itself
// succeeded, and the reconciliation poll picks up whatever is left.
func (h *WebhookHandler) ReceiveOrder(c *gin.Context) {
	tenantID := middleware.MustGetTenantUUID(c)

	raw, err := c.GetRawData()
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(raw) == 0 {
		h.BadRequest(c, "Empty payload")
		return
	}

	remote, err := h.parse(raw)
	if err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, "Unparseable order payload")
		return
	}

	result, err := h.syncer.SyncOrder(c.Request.Context(), tenantID, remote)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	autoFulfilled := false
	if h.trigger != nil {
		for _, productID := range result.DigitalProductIDs {
			dispatched, err := h.trigger.TryFulfill(c.Request.Context(), tenantID, remote.ID, productID)
			if err != nil {
				h.logger.Warn("auto-fulfillment after webhook failed",
					zap.String("tenant_id", tenantID.String()),
					zap.String("remote_order_id", remote.ID),
					zap.Error(err),
				)
				break
			}
			if dispatched {
				autoFulfilled = true
				break
			}
		}
	}

	h.Success(c, WebhookOrderResponse{
		RemoteOrderID: result.RemoteOrderID,
		Status:        string(result.Status),
		Created:       result.Created,
		Updated:       result.Updated,
		Skipped:       result.Skipped,
		AutoFulfilled: autoFulfilled,
	})
}
