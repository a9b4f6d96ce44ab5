package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appfulfillment "github.com/storefront/backend/internal/application/fulfillment"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderQueries serves read-only order record views
type OrderQueries interface {
	ListOrders(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]order.Record, int64, error)
	GetOrderGroup(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) ([]order.Record, error)
}

// Fulfiller performs manual fulfillment operations on a remote order
type Fulfiller interface {
	Complete(ctx context.Context, tenantID uuid.UUID, remoteOrderID string, manualCodes map[uuid.UUID]string) (*appfulfillment.CompleteResult, error)
	Finish(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) error
}

// OrderHandler serves the order record surface: listing the local mirror and
// triggering manual fulfillment.
type OrderHandler struct {
	BaseHandler
	queries   OrderQueries
	fulfiller Fulfiller
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(queries OrderQueries, fulfiller Fulfiller) *OrderHandler {
	return &OrderHandler{
		queries:   queries,
		fulfiller: fulfiller,
	}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.List)
		orders.GET("/:remoteOrderID", h.Get)
		orders.POST("/:remoteOrderID/complete", h.Complete)
		orders.POST("/:remoteOrderID/finish", h.Finish)
	}
}

// OrderRecordResponse is the JSON view of one order record
type OrderRecordResponse struct {
	ID            uuid.UUID  `json:"id"`
	RemoteOrderID string     `json:"remote_order_id"`
	ProductID     uuid.UUID  `json:"product_id"`
	Quantity      int        `json:"quantity"`
	Amount        string     `json:"amount"`
	Status        string     `json:"status"`
	RemoteStatus  string     `json:"remote_status"`
	Sent          bool       `json:"sent"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toOrderRecordResponse(r *order.Record) OrderRecordResponse {
	return OrderRecordResponse{
		ID:            r.GetID(),
		RemoteOrderID: r.RemoteOrderID,
		ProductID:     r.ProductID,
		Quantity:      r.Quantity,
		Amount:        r.Amount.String(),
		Status:        string(r.Status),
		RemoteStatus:  r.RemoteStatus,
		Sent:          r.Sent,
		SentAt:        r.SentAt,
		CompletedAt:   r.CompletedAt,
		CreatedAt:     r.GetCreatedAt(),
		UpdatedAt:     r.GetUpdatedAt(),
	}
}

// List returns a page of the tenant's order records, newest first
func (h *OrderHandler) List(c *gin.Context) {
	tenantID := middleware.MustGetTenantUUID(c)

	req := dto.ListRequest{}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}
	req.Normalize()

	records, total, err := h.queries.ListOrders(c.Request.Context(), tenantID, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]OrderRecordResponse, 0, len(records))
	for i := range records {
		out = append(out, toOrderRecordResponse(&records[i]))
	}
	h.SuccessWithMeta(c, out, total, req.Page, req.PageSize)
}

// Get returns every record of one remote order
func (h *OrderHandler) Get(c *gin.Context) {
	tenantID := middleware.MustGetTenantUUID(c)
	remoteOrderID := c.Param("remoteOrderID")

	group, err := h.queries.GetOrderGroup(c.Request.Context(), tenantID, remoteOrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]OrderRecordResponse, 0, len(group))
	for i := range group {
		out = append(out, toOrderRecordResponse(&group[i]))
	}
	h.Success(c, out)
}

// CompleteOrderRequest carries optional manual activation codes keyed by
// product ID
type CompleteOrderRequest struct {
	Codes map[string]string `json:"codes"`
}

// CompleteOrderResponse reports what a manual fulfillment pass delivered
type CompleteOrderResponse struct {
	RemoteOrderID string `json:"remote_order_id"`
	Delivered     int    `json:"delivered"`
}

// Complete triggers a fulfillment pass for one remote order. An empty body
// fulfills from the credential pool; manual codes take priority.
func (h *OrderHandler) Complete(c *gin.Context) {
	tenantID := middleware.MustGetTenantUUID(c)
	remoteOrderID := c.Param("remoteOrderID")

	req := CompleteOrderRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, "Invalid request body")
			return
		}
	}

	manualCodes := make(map[uuid.UUID]string, len(req.Codes))
	for productID, code := range req.Codes {
		id, err := uuid.Parse(productID)
		if err != nil {
			h.BadRequest(c, "Invalid product ID in codes: "+productID)
			return
		}
		manualCodes[id] = code
	}

	result, err := h.fulfiller.Complete(c.Request.Context(), tenantID, remoteOrderID, manualCodes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CompleteOrderResponse{
		RemoteOrderID: result.RemoteOrderID,
		Delivered:     result.Delivered,
	})
}

// Finish manually finalizes every record of a remote order
func (h *OrderHandler) Finish(c *gin.Context) {
	tenantID := middleware.MustGetTenantUUID(c)
	remoteOrderID := c.Param("remoteOrderID")

	if err := h.fulfiller.Finish(c.Request.Context(), tenantID, remoteOrderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"remote_order_id": remoteOrderID, "finished": true})
}
