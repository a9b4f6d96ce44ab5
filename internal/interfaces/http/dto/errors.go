package dto

import "net/http"

// Error code constants, format ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeValidation   = "ERR_VALIDATION"
)

// Auth error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState     = "ERR_INVALID_STATE"
	ErrCodeBusinessRule     = "ERR_BUSINESS_RULE"
	ErrCodeNoCredential     = "ERR_NO_CREDENTIAL"
	ErrCodeMissingTemplates = "ERR_MISSING_TEMPLATES"
)

// Upstream platform error codes
const (
	ErrCodePlatformNotConfigured = "ERR_PLATFORM_NOT_CONFIGURED"
	ErrCodePlatformUnavailable   = "ERR_PLATFORM_UNAVAILABLE"
	ErrCodeDeliveryRejected      = "ERR_DELIVERY_REJECTED"
)

// Misc error codes
const (
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState:     http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:     http.StatusUnprocessableEntity,
	ErrCodeNoCredential:     http.StatusUnprocessableEntity,
	ErrCodeMissingTemplates: http.StatusUnprocessableEntity,

	ErrCodePlatformNotConfigured: http.StatusUnprocessableEntity,
	ErrCodePlatformUnavailable:   http.StatusBadGateway,
	ErrCodeDeliveryRejected:      http.StatusBadGateway,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code, defaulting to
// 500 for codes without a mapping
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to the standardized format
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConflict,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format.
// Codes already standardized or unknown come back as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
