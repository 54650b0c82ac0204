package shopapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mobileshop/backend/internal/domain/checkout"
	"github.com/mobileshop/backend/internal/domain/shared"
)

// OrderClient submits assembled order requests to the order service and
// exposes the status and cancel passthroughs the surrounding screens invoke
// with the identifiers this pipeline produces.
type OrderClient struct {
	baseClient
}

// NewOrderClient creates an order service client
func NewOrderClient(baseURL string, httpClient *http.Client) *OrderClient {
	return &OrderClient{baseClient: newBaseClient(baseURL, httpClient)}
}

type createOrderResponse struct {
	OrderID string `json:"orderId"`
}

// OrderStatus is the order service's view of a submitted order
type OrderStatus struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// CreateOrder submits the draft and returns the created order identifier.
// An order identifier must exist before any payment action, so this call
// always precedes payment dispatch.
func (c *OrderClient) CreateOrder(ctx context.Context, token string, draft *checkout.OrderDraft) (string, error) {
	body := map[string]any{
		"totalAmount":    draft.TotalAmount.Int64(),
		"discountAmount": draft.DiscountAmount.Int64(),
		"shippingFee":    draft.ShippingFee.Int64(),
		"finalAmount":    draft.FinalAmount.Int64(),
		"recipientName":  draft.RecipientName,
		"recipientPhone": draft.RecipientPhone,
		"street":         draft.Street,
		"communeId":      draft.CommuneID,
		"provinceId":     draft.ProvinceID,
		"postalCode":     draft.PostalCode,
		"paymentMethod":  draft.PaymentMethod.Code,
		"items":          orderItemsPayload(draft),
	}

	var resp createOrderResponse
	if err := c.doJSON(ctx, "order.create", http.MethodPost, "/orders", token, body, &resp); err != nil {
		return "", err
	}
	if resp.OrderID == "" {
		return "", shared.ErrOrderRejected
	}
	return resp.OrderID, nil
}

func orderItemsPayload(draft *checkout.OrderDraft) []map[string]any {
	items := make([]map[string]any, 0, len(draft.Items))
	for i := range draft.Items {
		item := &draft.Items[i]
		items = append(items, map[string]any{
			"variantId": item.VariantID,
			"colorId":   item.ColorID,
			"quantity":  item.Quantity,
			"price":     item.Price.Int64(),
			"discount":  item.Discount.Int64(),
		})
	}
	return items
}

// Status queries the order service for the current order state
func (c *OrderClient) Status(ctx context.Context, token, orderID string) (*OrderStatus, error) {
	var resp OrderStatus
	path := "/orders/" + url.PathEscape(orderID)
	if err := c.doJSON(ctx, "order.status", http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Cancel requests cancellation of a submitted order
func (c *OrderClient) Cancel(ctx context.Context, token, orderID string) error {
	path := "/orders/" + url.PathEscape(orderID) + "/cancel"
	return c.doJSON(ctx, "order.cancel", http.MethodPost, path, token, nil, nil)
}
