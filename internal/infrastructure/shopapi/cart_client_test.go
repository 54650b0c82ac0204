package shopapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobileshop/backend/internal/domain/cart"
)

func TestCartClient_FetchCart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cart", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"items": [
				{
					"id": "line-1",
					"quantity": 2,
					"productVariant": {
						"id": "var-1",
						"productId": "prod-1",
						"name": "Phone X 128GB",
						"price": 1000,
						"discountedPrice": 800,
						"colorId": "black"
					}
				},
				{
					"id": "line-2",
					"quantity": 1,
					"productVariant": {
						"id": "var-2",
						"productId": "prod-2",
						"name": "Phone Y 256GB",
						"price": 500,
						"discountedPrice": 500,
						"inventory": {"colorId": "red", "quantity": 3}
					}
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewCartClient(server.URL, nil)
	lines, err := client.FetchCart(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	first := lines[0]
	assert.Equal(t, "line-1", first.Line.LineID)
	assert.Equal(t, "var-1", first.Line.ProductVariantID)
	assert.Equal(t, int64(1000), first.Line.UnitPrice.Int64())
	assert.Equal(t, int64(800), first.Line.UnitDiscountedPrice.Int64())
	assert.Equal(t, int64(2), first.Line.Quantity)
	assert.Equal(t, cart.LineSourceRemote, first.Line.Source)
	assert.Equal(t, "black", first.Line.ColorID)

	// Color omitted on the variant, carried only by the inventory record
	second := lines[1]
	assert.False(t, second.Line.HasColor())
	require.NotNil(t, second.Variant.Inventory)
	assert.Equal(t, "red", second.Variant.Inventory.ColorID)
}

func TestCartClient_FetchCart_RejectsInvalidLine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":"line-1","quantity":0,"productVariant":{"id":"var-1","price":100,"discountedPrice":100}}]}`))
	}))
	defer server.Close()

	client := NewCartClient(server.URL, nil)
	_, err := client.FetchCart(context.Background(), "tok")
	assert.Error(t, err)
}

func TestCartClient_AddItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cart/items", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "var-1", body["productVariantId"])
		assert.Equal(t, "blue", body["colorId"])
		assert.Equal(t, float64(1), body["quantity"])

		_, _ = w.Write([]byte(`{
			"id": "line-9",
			"quantity": 1,
			"productVariant": {"id": "var-1", "price": 1000, "discountedPrice": 900, "colorId": "blue"}
		}`))
	}))
	defer server.Close()

	client := NewCartClient(server.URL, nil)
	line, err := client.AddItem(context.Background(), "tok", "var-1", "blue", 1)
	require.NoError(t, err)
	assert.Equal(t, "line-9", line.Line.LineID)
	assert.Equal(t, "blue", line.Line.ColorID)
}

func TestCartClient_UpdateQuantity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/cart/items/line-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewCartClient(server.URL, nil)
	assert.NoError(t, client.UpdateQuantity(context.Background(), "tok", "line-1", 3))
}

func TestCartClient_RemoveLines(t *testing.T) {
	t.Run("sends batch of identifiers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)

			var body struct {
				IDs []string `json:"ids"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []string{"line-1", "line-2"}, body.IDs)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := NewCartClient(server.URL, nil)
		assert.NoError(t, client.RemoveLines(context.Background(), "tok", []string{"line-1", "line-2"}))
	})

	t.Run("no call for empty batch", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer server.Close()

		client := NewCartClient(server.URL, nil)
		assert.NoError(t, client.RemoveLines(context.Background(), "tok", nil))
		assert.False(t, called)
	})
}
