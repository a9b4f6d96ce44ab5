package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

const (
	// TenantIDKey is the gin context key holding the tenant ID
	TenantIDKey = "tenant_id"
	// TenantHeaderKey is the header carrying the tenant ID
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantConfig holds tenant middleware configuration
type TenantConfig struct {
	// SkipPaths are paths served without tenant context, e.g. health checks
	// and webhook ingress that carries the tenant in its payload route.
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultTenantConfig returns the default tenant middleware configuration
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		SkipPaths: []string{"/healthz"},
	}
}

// Tenant extracts the tenant from the X-Tenant-ID header. Every request
// outside the skip list must carry a valid tenant UUID; the resolved tenant is
// stored in the gin context and propagated to the request-scoped logger.
func Tenant() gin.HandlerFunc {
	return TenantWithConfig(DefaultTenantConfig())
}

// TenantWithConfig returns tenant middleware with custom configuration
func TenantWithConfig(cfg TenantConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip || strings.HasPrefix(path, skip+"/") {
				c.Next()
				return
			}
		}

		tenantID := c.GetHeader(TenantHeaderKey)
		if tenantID == "" {
			respondUnauthorized(c, "Tenant identification required")
			return
		}
		if _, err := uuid.Parse(tenantID); err != nil {
			respondUnauthorized(c, "Invalid tenant ID format")
			return
		}

		c.Set(TenantIDKey, tenantID)

		ctx := c.Request.Context()
		ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID)
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("tenant identified", zap.String("tenant_id", tenantID))
		}

		c.Next()
	}
}

// respondUnauthorized aborts the request with a 401 envelope
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}

// GetTenantID retrieves the tenant ID from gin.Context
func GetTenantID(c *gin.Context) string {
	if tenantID, exists := c.Get(TenantIDKey); exists {
		if tid, ok := tenantID.(string); ok {
			return tid
		}
	}
	return ""
}

// GetTenantUUID retrieves the tenant ID as UUID from gin.Context
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(tenantID)
}

// MustGetTenantUUID retrieves the tenant ID as UUID or panics. Only for
// handlers behind the tenant middleware, where the ID is guaranteed valid.
func MustGetTenantUUID(c *gin.Context) uuid.UUID {
	tenantUUID, err := GetTenantUUID(c)
	if err != nil || tenantUUID == uuid.Nil {
		panic("valid tenant_id not found in context")
	}
	return tenantUUID
}
