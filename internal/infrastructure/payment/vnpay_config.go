package payment

import "errors"

// VNPayConfig contains configuration for the VNPay redirect gateway
type VNPayConfig struct {
	// TMNCode is the merchant terminal code issued by VNPay
	TMNCode string
	// HashSecret is the shared secret for HMAC-SHA512 request signing
	HashSecret string
	// PayURL is the gateway's payment page endpoint
	PayURL string
	// ReturnURL is where the gateway redirects the customer after payment
	ReturnURL string
	// Locale is the payment page language (defaults to "vn")
	Locale string
}

// Errors for configuration validation
var (
	ErrVNPayMissingTMNCode    = errors.New("vnpay: missing terminal code")
	ErrVNPayMissingHashSecret = errors.New("vnpay: missing hash secret")
	ErrVNPayMissingPayURL     = errors.New("vnpay: missing payment URL")
	ErrVNPayMissingReturnURL  = errors.New("vnpay: missing return URL")
)

// Validate validates the configuration
func (c *VNPayConfig) Validate() error {
	if c.TMNCode == "" {
		return ErrVNPayMissingTMNCode
	}
	if c.HashSecret == "" {
		return ErrVNPayMissingHashSecret
	}
	if c.PayURL == "" {
		return ErrVNPayMissingPayURL
	}
	if c.ReturnURL == "" {
		return ErrVNPayMissingReturnURL
	}
	if c.Locale == "" {
		c.Locale = "vn"
	}
	return nil
}
