package shopapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobileshop/backend/internal/domain/checkout"
	"github.com/mobileshop/backend/internal/domain/payment"
	"github.com/mobileshop/backend/internal/domain/shared"
	"github.com/mobileshop/backend/internal/domain/shared/valueobject"
)

func testDraft() *checkout.OrderDraft {
	return &checkout.OrderDraft{
		TotalAmount:    valueobject.NewVND(2000),
		DiscountAmount: valueobject.NewVND(400),
		ShippingFee:    valueobject.NewVND(100),
		FinalAmount:    valueobject.NewVND(1700),
		RecipientName:  "Nguyễn Văn A",
		RecipientPhone: "0900000000",
		Street:         "1 Lê Lợi",
		CommuneID:      "26734",
		ProvinceID:     "79",
		Items: []checkout.OrderItem{
			{
				VariantID: "var-1",
				ColorID:   "black",
				Quantity:  2,
				Price:     valueobject.NewVND(1000),
				Discount:  valueobject.NewVND(800),
			},
		},
		PaymentMethod: payment.Method{Code: payment.MethodCOD, Name: "Thanh toán khi nhận hàng"},
	}
}

func TestOrderClient_CreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(2000), body["totalAmount"])
		assert.Equal(t, float64(400), body["discountAmount"])
		assert.Equal(t, float64(100), body["shippingFee"])
		assert.Equal(t, float64(1700), body["finalAmount"])
		assert.Equal(t, "cod", body["paymentMethod"])

		items, ok := body["items"].([]any)
		require.True(t, ok)
		require.Len(t, items, 1)
		item := items[0].(map[string]any)
		assert.Equal(t, "var-1", item["variantId"])
		assert.Equal(t, float64(1000), item["price"])
		assert.Equal(t, float64(800), item["discount"])

		_, _ = w.Write([]byte(`{"orderId":"ord-42"}`))
	}))
	defer server.Close()

	client := NewOrderClient(server.URL, nil)
	orderID, err := client.CreateOrder(context.Background(), "tok", testDraft())
	require.NoError(t, err)
	assert.Equal(t, "ord-42", orderID)
}

func TestOrderClient_CreateOrder_EmptyIdentifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewOrderClient(server.URL, nil)
	_, err := client.CreateOrder(context.Background(), "tok", testDraft())
	assert.ErrorIs(t, err, shared.ErrOrderRejected)
}

func TestOrderClient_CreateOrder_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"address invalid"}`))
	}))
	defer server.Close()

	client := NewOrderClient(server.URL, nil)
	_, err := client.CreateOrder(context.Background(), "tok", testDraft())

	var se *shared.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Equal(t, "Yêu cầu không hợp lệ, vui lòng kiểm tra lại thông tin", shared.UserMessage(err))
}

func TestOrderClient_Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/ord-42", r.URL.Path)
		_, _ = w.Write([]byte(`{"orderId":"ord-42","status":"PENDING"}`))
	}))
	defer server.Close()

	client := NewOrderClient(server.URL, nil)
	status, err := client.Status(context.Background(), "tok", "ord-42")
	require.NoError(t, err)
	assert.Equal(t, "PENDING", status.Status)
}

func TestOrderClient_Cancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/ord-42/cancel", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewOrderClient(server.URL, nil)
	assert.NoError(t, client.Cancel(context.Background(), "tok", "ord-42"))
}
