package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker func() error

// SystemHandler serves liveness endpoints outside the tenant-scoped API
type SystemHandler struct {
	serviceName string
	checkDB     HealthChecker
}

// NewSystemHandler creates a new SystemHandler. checkDB may be nil when no
// database probe is wanted.
func NewSystemHandler(serviceName string, checkDB HealthChecker) *SystemHandler {
	return &SystemHandler{
		serviceName: serviceName,
		checkDB:     checkDB,
	}
}

// Register registers system routes on the engine root
func (h *SystemHandler) Register(engine *gin.Engine) {
	engine.GET("/healthz", h.Health)
}

// HealthResponse is the liveness probe payload
type HealthResponse struct {
	Status  string    `json:"status"`
	Service string    `json:"service"`
	Time    time.Time `json:"time"`
}

// Health reports service liveness. A failing database probe degrades the
// response to 503 so orchestrators stop routing traffic here.
func (h *SystemHandler) Health(c *gin.Context) {
	if h.checkDB != nil {
		if err := h.checkDB(); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
				dto.ErrCodeInternal, "database unreachable"))
			return
		}
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(HealthResponse{
		Status:  "ok",
		Service: h.serviceName,
		Time:    time.Now().UTC(),
	}))
}
