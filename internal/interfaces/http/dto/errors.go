package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain errors carry their own codes and
// are mapped through ErrorCodeHTTPStatus below.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall back to the prefix rules in GetHTTPStatus.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	// Lookup failures
	"NOT_FOUND": http.StatusNotFound,

	// Uniqueness and write conflicts
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"SERIAL_ASSIGNED":      http.StatusConflict,
	"PAYMENT_RECORDED":     http.StatusConflict,
	"ALREADY_ACTIVE":       http.StatusConflict,
	"ALREADY_DEACTIVATED":  http.StatusConflict,

	// Business rule violations
	"ALREADY_PAID":        http.StatusUnprocessableEntity,
	"INVALID_TRANSITION":  http.StatusUnprocessableEntity,
	"INVALID_STATE":       http.StatusUnprocessableEntity,
	"RATE_NOT_CONFIGURED": http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":  http.StatusUnprocessableEntity,
	"NO_EMAIL":            http.StatusUnprocessableEntity,

	// Authentication
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_DISABLED":    http.StatusForbidden,
	"INVALID_OTP":         http.StatusBadRequest,
	"INVALID_SIGNATURE":   http.StatusBadRequest,

	// Missing deployment configuration
	"GATEWAY_UNAVAILABLE":  http.StatusServiceUnavailable,
	"MAILER_UNAVAILABLE":   http.StatusServiceUnavailable,
	"RECEIPTS_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// Unlisted INVALID_* codes are treated as bad input; anything else
// unknown is an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
