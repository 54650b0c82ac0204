package dto

import "net/http"

// Error code constants
// Format: ERR_<CATEGORY>_<DESCRIPTION>

const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeUpstream is used when an upstream storefront service rejected the call
	ErrCodeUpstream = "ERR_UPSTREAM"
	// ErrCodeUpstreamTimeout is used when an upstream call exceeded its deadline
	ErrCodeUpstreamTimeout = "ERR_UPSTREAM_TIMEOUT"
	// ErrCodeUpstreamUnreachable is used when an upstream call failed in transport
	ErrCodeUpstreamUnreachable = "ERR_UPSTREAM_UNREACHABLE"
	// ErrCodeBusinessRule is used for business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:             http.StatusInternalServerError,
	ErrCodeInternal:            http.StatusInternalServerError,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeUpstream:            http.StatusBadGateway,
	ErrCodeUpstreamTimeout:     http.StatusGatewayTimeout,
	ErrCodeUpstreamUnreachable: http.StatusBadGateway,
	ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainCodeHTTPStatus maps domain error codes to HTTP status codes
var DomainCodeHTTPStatus = map[string]int{
	"LINE_NOT_FOUND":    http.StatusNotFound,
	"PRODUCT_NOT_FOUND": http.StatusNotFound,
	"INVALID_QUANTITY":  http.StatusBadRequest,
	"INVALID_LINE":      http.StatusBadRequest,
	"INVALID_VARIANT":   http.StatusBadRequest,
	"INVALID_PRICE":     http.StatusBadRequest,
	"ADDRESS_INVALID":   http.StatusBadRequest,
	"FEE_UNPARSABLE":    http.StatusUnprocessableEntity,
	"ORDER_REJECTED":    http.StatusUnprocessableEntity,
}

// GetDomainHTTPStatus returns the HTTP status for a domain error code,
// defaulting to 422 for codes with no explicit mapping
func GetDomainHTTPStatus(code string) int {
	if status, ok := DomainCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
