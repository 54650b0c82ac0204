package payment

import (
	"context"

	"github.com/mobileshop/backend/internal/domain/shared/valueobject"
)

// MethodCode identifies a payment family
type MethodCode string

const (
	// MethodCOD settles immediately: order-creation success is payment success
	MethodCOD MethodCode = "cod"
	// MethodVNPay is the redirect gateway: the outcome arrives later as a
	// parsed return URL, not as a direct API response
	MethodVNPay MethodCode = "vnpay"
)

// IsValid checks if the code is a known payment method
func (c MethodCode) IsValid() bool {
	switch c {
	case MethodCOD, MethodVNPay:
		return true
	}
	return false
}

// String returns the string representation of the method code
func (c MethodCode) String() string {
	return string(c)
}

// IsImmediate reports whether the method settles on order creation
func (c MethodCode) IsImmediate() bool {
	return c == MethodCOD
}

// Method is the payment method attached to an order draft
type Method struct {
	Code MethodCode `json:"code"`
	Name string     `json:"name,omitempty"`
}

// CallbackResult is the classified outcome of a gateway return URL
type CallbackResult struct {
	Success    bool   `json:"success"`
	OrderID    string `json:"orderId"`
	ReasonCode string `json:"reasonCode"`
	Reason     string `json:"reason"`
}

// InitiationRequest asks the gateway for a payment redirect URL
type InitiationRequest struct {
	OrderID   string
	Amount    valueobject.Money
	OrderInfo string
	ClientIP  string
}

// Gateway creates payment redirect URLs and classifies return URLs. The core
// never polls the gateway; it only classifies a URL when the surrounding
// surface observes a navigation event and hands it over.
type Gateway interface {
	// CreatePaymentURL builds the redirect URL the external browser surface opens
	CreatePaymentURL(ctx context.Context, req InitiationRequest) (string, error)
	// ParseReturnURL decodes a redirect URL into a callback result. It returns
	// nil when the URL carries none of the gateway's signature parameters -
	// not every navigation inside the payment surface is a callback.
	ParseReturnURL(rawURL string) (*CallbackResult, error)
}
