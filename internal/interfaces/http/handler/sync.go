package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/application/ordersync"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// TenantReconciler runs one reconciliation pass for a tenant
type TenantReconciler interface {
	ReconcileTenant(ctx context.Context, tenantID uuid.UUID) (*ordersync.ReconcileResult, error)
}

// SyncHandler exposes the manual reconciliation trigger. The pass runs inline
// on the request, with the same semantics as a scheduled one.
type SyncHandler struct {
	BaseHandler
	reconciler TenantReconciler
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(reconciler TenantReconciler) *SyncHandler {
	return &SyncHandler{reconciler: reconciler}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync/orders", h.SyncOrders)
}

// SyncOrdersResponse reports what one reconciliation pass did
type SyncOrdersResponse struct {
	Orders        int `json:"orders"`
	Synced        int `json:"synced"`
	Failed        int `json:"failed"`
	AutoFulfilled int `json:"auto_fulfilled"`
}

// SyncOrders runs a reconciliation pass for the requesting tenant
func (h *SyncHandler) SyncOrders(c *gin.Context) {
	tenantID := middleware.MustGetTenantUUID(c)

	result, err := h.reconciler.ReconcileTenant(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, SyncOrdersResponse{
		Orders:        result.Orders,
		Synced:        result.Synced,
		Failed:        result.Failed,
		AutoFulfilled: result.AutoFulfilled,
	})
}
