package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrEmptyCart     = NewDomainError("EMPTY_CART", "Cart has no purchasable lines")
	ErrNoSession     = NewDomainError("NO_SESSION", "An authenticated session is required")
	ErrQuoteMissing  = NewDomainError("QUOTE_MISSING", "Shipping fee has not been resolved")
	ErrColorUnknown  = NewDomainError("COLOR_UNKNOWN", "Line color could not be resolved")
	ErrLineNotFound  = NewDomainError("LINE_NOT_FOUND", "Cart line not found")
	ErrOrderRejected = NewDomainError("ORDER_REJECTED", "Order submission was rejected")
)

// ValidationError is a client-detected defect in user input or assembled state.
// It is produced before any network call and is never retried; the user must
// correct the input.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, code, message string) *ValidationError {
	return &ValidationError{Field: field, Code: code, Message: message}
}

// ValidationErrors collects every validation failure of one operation so the
// caller can present a complete list rather than the first hit.
type ValidationErrors []*ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msg := e[0].Error()
	if len(e) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(e)-1)
	}
	return msg
}

// HasErrors returns true if at least one validation error was collected
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// TimeoutError indicates an operation exceeded its deadline. It is surfaced to
// the user and never silently retried.
type TimeoutError struct {
	Op string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: request timed out", e.Op)
}

// NewTimeoutError creates a new timeout error for the given operation
func NewTimeoutError(op string) *TimeoutError {
	return &TimeoutError{Op: op}
}

// ServiceError is a server-reported failure carrying the HTTP status of the
// collaborator's response. Each status maps to a distinct user-facing message.
type ServiceError struct {
	Op      string
	Status  int
	Message string
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.Status)
}

// NewServiceError creates a new service error
func NewServiceError(op string, status int, message string) *ServiceError {
	return &ServiceError{Op: op, Status: status, Message: message}
}

// NetworkError is a transport-level failure, distinct from a server response
type NetworkError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new network error
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err}
}

// IsTimeout reports whether err is (or wraps) a TimeoutError
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// User-facing messages per service status. A generic "error occurred" is
// deliberately avoided; the status class determines what the user can do next.
var serviceStatusMessages = map[int]string{
	400: "Yêu cầu không hợp lệ, vui lòng kiểm tra lại thông tin",
	403: "Bạn không có quyền thực hiện thao tác này",
	404: "Không tìm thấy dữ liệu yêu cầu",
	503: "Hệ thống đang bận, vui lòng thử lại sau",
}

// UserMessage maps an error to the message shown on the storefront surface
func UserMessage(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		if msg, ok := serviceStatusMessages[se.Status]; ok {
			return msg
		}
		return fmt.Sprintf("Máy chủ trả về lỗi %d", se.Status)
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return "Yêu cầu quá thời gian chờ, vui lòng thử lại"
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return "Không thể kết nối máy chủ, vui lòng kiểm tra mạng"
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
