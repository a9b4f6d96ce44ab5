package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appfulfillment "github.com/storefront/backend/internal/application/fulfillment"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/fulfillment"
	"github.com/storefront/backend/internal/domain/marketplace"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Accepted sends a 202 accepted response
func (h *BaseHandler) Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// ErrorWithCode sends an error response, deriving the status from the code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts a domain or application error into an HTTP response
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	code, message := classifyError(err)
	h.ErrorWithCode(c, code, message)
}

// classifyError maps known sentinel and typed errors onto response codes.
// Unknown errors collapse to an opaque internal error; the detail stays in the
// server log only.
func classifyError(err error) (code, message string) {
	var missingTemplates *appfulfillment.MissingTemplatesError
	if errors.As(err, &missingTemplates) {
		return dto.ErrCodeMissingTemplates, missingTemplates.Error()
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return dto.NormalizeErrorCode(domainErr.Code), domainErr.Message
	}

	switch {
	case errors.Is(err, order.ErrRecordNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, fulfillment.ErrTemplateNotFound),
		errors.Is(err, fulfillment.ErrCredentialNotFound),
		errors.Is(err, marketplace.ErrOrderNotFound):
		return dto.ErrCodeNotFound, err.Error()

	case errors.Is(err, appfulfillment.ErrNoDeliverableItems),
		errors.Is(err, appfulfillment.ErrNothingToFinish),
		errors.Is(err, order.ErrAlreadySent),
		errors.Is(err, order.ErrAlreadyFinished):
		return dto.ErrCodeBusinessRule, err.Error()

	case errors.Is(err, appfulfillment.ErrNoCredentialAvailable):
		return dto.ErrCodeNoCredential, err.Error()

	case errors.Is(err, marketplace.ErrPlatformNotConfigured):
		return dto.ErrCodePlatformNotConfigured, err.Error()

	case errors.Is(err, appfulfillment.ErrRemoteDeliveryFailed),
		errors.Is(err, marketplace.ErrDeliveryRejected):
		return dto.ErrCodeDeliveryRejected, err.Error()

	case errors.Is(err, marketplace.ErrPlatformRequestFailed),
		errors.Is(err, marketplace.ErrPlatformInvalidResponse):
		return dto.ErrCodePlatformUnavailable, err.Error()

	default:
		return dto.ErrCodeInternal, "An unexpected error occurred"
	}
}
