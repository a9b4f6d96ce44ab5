package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/infrastructure/logger"
)

// RequestIDKey is the gin context key holding the request ID
const RequestIDKey = "request_id"

// RequestIDHeader is the header carrying the request ID
const RequestIDHeader = "X-Request-ID"

// RequestID assigns each request a unique ID, honoring one supplied by the
// caller, and attaches it to the response header and the request-scoped logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		ctx := c.Request.Context()
		ctx, _ = logger.WithRequestID(ctx, logger.FromContext(ctx), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID retrieves the request ID from gin.Context
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// generateRequestID generates a 128-bit random hex ID
func generateRequestID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		// crypto/rand failing is unheard of; fall back to a timestamp
		return time.Now().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(bytes)
}
