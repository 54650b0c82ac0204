package payment

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobileshop/backend/internal/domain/payment"
	"github.com/mobileshop/backend/internal/domain/shared/valueobject"
)

func testVNPayConfig() *VNPayConfig {
	return &VNPayConfig{
		TMNCode:    "SHOP0001",
		HashSecret: "test-hash-secret",
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "https://shop.example.com/payment/return",
	}
}

func newTestAdapter(t *testing.T) *VNPayAdapter {
	t.Helper()
	adapter, err := NewVNPayAdapter(testVNPayConfig())
	require.NoError(t, err)
	adapter.now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	}
	return adapter
}

func TestNewVNPayAdapter_Validation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*VNPayConfig)
		expected error
	}{
		{name: "missing tmn code", mutate: func(c *VNPayConfig) { c.TMNCode = "" }, expected: ErrVNPayMissingTMNCode},
		{name: "missing hash secret", mutate: func(c *VNPayConfig) { c.HashSecret = "" }, expected: ErrVNPayMissingHashSecret},
		{name: "missing pay url", mutate: func(c *VNPayConfig) { c.PayURL = "" }, expected: ErrVNPayMissingPayURL},
		{name: "missing return url", mutate: func(c *VNPayConfig) { c.ReturnURL = "" }, expected: ErrVNPayMissingReturnURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testVNPayConfig()
			tt.mutate(cfg)
			_, err := NewVNPayAdapter(cfg)
			assert.ErrorIs(t, err, tt.expected)
		})
	}

	t.Run("locale defaults to vn", func(t *testing.T) {
		cfg := testVNPayConfig()
		adapter, err := NewVNPayAdapter(cfg)
		require.NoError(t, err)
		assert.Equal(t, "vn", adapter.config.Locale)
	})
}

func TestVNPayAdapter_CreatePaymentURL(t *testing.T) {
	adapter := newTestAdapter(t)

	rawURL, err := adapter.CreatePaymentURL(context.Background(), payment.InitiationRequest{
		OrderID:  "ord-42",
		Amount:   valueobject.NewVND(1700),
		ClientIP: "203.0.113.9",
	})
	require.NoError(t, err)

	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rawURL, adapter.config.PayURL+"?"))

	values := u.Query()
	assert.Equal(t, "2.1.0", values.Get("vnp_Version"))
	assert.Equal(t, "pay", values.Get("vnp_Command"))
	assert.Equal(t, "SHOP0001", values.Get("vnp_TmnCode"))
	// Whole VND carried multiplied by 100
	assert.Equal(t, "170000", values.Get("vnp_Amount"))
	assert.Equal(t, "VND", values.Get("vnp_CurrCode"))
	assert.Equal(t, "203.0.113.9", values.Get("vnp_IpAddr"))
	assert.True(t, strings.HasPrefix(values.Get("vnp_TxnRef"), "ord-42_"))
	assert.NotEmpty(t, values.Get("vnp_CreateDate"))
	assert.NotEmpty(t, values.Get("vnp_ExpireDate"))
	assert.NotEmpty(t, values.Get("vnp_SecureHash"))

	// The signature must verify against the same secret
	ok, err := adapter.VerifySecureHash(rawURL)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVNPayAdapter_CreatePaymentURL_Rejections(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	_, err := adapter.CreatePaymentURL(ctx, payment.InitiationRequest{Amount: valueobject.NewVND(100)})
	assert.Error(t, err)

	_, err = adapter.CreatePaymentURL(ctx, payment.InitiationRequest{OrderID: "ord-1", Amount: valueobject.ZeroVND()})
	assert.Error(t, err)

	// The txn-ref separator inside an order id would corrupt callback parsing
	_, err = adapter.CreatePaymentURL(ctx, payment.InitiationRequest{OrderID: "ord_1", Amount: valueobject.NewVND(100)})
	assert.Error(t, err)
}

func TestVNPayAdapter_ParseReturnURL(t *testing.T) {
	adapter := newTestAdapter(t)

	t.Run("nil for URL with no gateway parameters", func(t *testing.T) {
		result, err := adapter.ParseReturnURL("https://shop.example.com/payment/return?foo=bar")
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("success when both codes approved", func(t *testing.T) {
		result, err := adapter.ParseReturnURL(
			"https://shop.example.com/payment/return?vnp_ResponseCode=00&vnp_TransactionStatus=00&vnp_TxnRef=ord-42_20260315103000")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.Success)
		assert.Equal(t, "ord-42", result.OrderID)
		assert.Equal(t, "00", result.ReasonCode)
		assert.Equal(t, "Giao dịch thành công", result.Reason)
	})

	t.Run("failure when status code absent", func(t *testing.T) {
		result, err := adapter.ParseReturnURL(
			"https://shop.example.com/payment/return?vnp_ResponseCode=00&vnp_TxnRef=ord-42_20260315103000")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.False(t, result.Success)
		assert.Equal(t, "ord-42", result.OrderID)
	})

	t.Run("failure when codes disagree", func(t *testing.T) {
		result, err := adapter.ParseReturnURL(
			"https://shop.example.com/payment/return?vnp_ResponseCode=00&vnp_TransactionStatus=02&vnp_TxnRef=ord-42_x")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.False(t, result.Success)
	})

	t.Run("cancelled by customer", func(t *testing.T) {
		result, err := adapter.ParseReturnURL(
			"https://shop.example.com/payment/return?vnp_ResponseCode=24&vnp_TransactionStatus=02&vnp_TxnRef=ord-7_x")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.False(t, result.Success)
		assert.Equal(t, "24", result.ReasonCode)
		assert.Equal(t, "Khách hàng hủy giao dịch", result.Reason)
	})

	t.Run("unknown code keeps raw code visible", func(t *testing.T) {
		result, err := adapter.ParseReturnURL(
			"https://shop.example.com/payment/return?vnp_ResponseCode=97&vnp_TransactionStatus=97&vnp_TxnRef=ord-7_x")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.False(t, result.Success)
		assert.Equal(t, "Mã lỗi: 97", result.Reason)
	})

	t.Run("txn ref without separator is used whole", func(t *testing.T) {
		result, err := adapter.ParseReturnURL(
			"https://shop.example.com/payment/return?vnp_ResponseCode=00&vnp_TransactionStatus=00&vnp_TxnRef=ord-9")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "ord-9", result.OrderID)
	})
}

func TestVNPayAdapter_VerifySecureHash(t *testing.T) {
	adapter := newTestAdapter(t)

	t.Run("tampered amount fails verification", func(t *testing.T) {
		rawURL, err := adapter.CreatePaymentURL(context.Background(), payment.InitiationRequest{
			OrderID:  "ord-1",
			Amount:   valueobject.NewVND(1000),
			ClientIP: "203.0.113.9",
		})
		require.NoError(t, err)

		tampered := strings.Replace(rawURL, "vnp_Amount=100000", "vnp_Amount=100", 1)
		ok, err := adapter.VerifySecureHash(tampered)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing hash fails verification", func(t *testing.T) {
		ok, err := adapter.VerifySecureHash("https://shop.example.com/payment/return?vnp_ResponseCode=00")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestOrderIDFromTxnRef(t *testing.T) {
	tests := []struct {
		txnRef   string
		expected string
	}{
		{txnRef: "ord-42_20260315103000", expected: "ord-42"},
		{txnRef: "ord-42_2026_extra", expected: "ord-42"},
		{txnRef: "ord-42", expected: "ord-42"},
		{txnRef: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.txnRef, func(t *testing.T) {
			assert.Equal(t, tt.expected, orderIDFromTxnRef(tt.txnRef))
		})
	}
}
