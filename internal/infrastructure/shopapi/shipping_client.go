package shopapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mobileshop/backend/internal/domain/shared"
	"github.com/mobileshop/backend/internal/domain/shared/valueobject"
)

// ErrFeeUnparsable is returned when the quoting service answers successfully
// but the fee string carries no extractable amount (a placeholder like "—").
// The caller reports a failed quote; no fee is ever substituted.
var ErrFeeUnparsable = shared.NewDomainError("FEE_UNPARSABLE", "Không xác định được phí vận chuyển")

// ShippingClient requests delivery fee quotes from the external quoting
// service. The service takes human-readable province and commune names, not
// identifiers.
type ShippingClient struct {
	baseClient
}

// NewShippingClient creates a shipping quote client
func NewShippingClient(baseURL string, httpClient *http.Client) *ShippingClient {
	return &ShippingClient{baseClient: newBaseClient(baseURL, httpClient)}
}

// QuoteFee returns the delivery fee for the given destination in whole VND.
// The service formats fees for display ("30.000đ"); every non-digit rune is
// stripped before integer conversion. A digit-free fee string yields
// ErrFeeUnparsable.
func (c *ShippingClient) QuoteFee(ctx context.Context, provinceName, communeName string) (valueobject.Money, error) {
	body := map[string]any{
		"province": provinceName,
		"commune":  communeName,
	}
	var resp struct {
		Fee string `json:"fee"`
	}
	if err := c.doJSON(ctx, "shipping.quote", http.MethodPost, "/shipping/quote", "", body, &resp); err != nil {
		return valueobject.Money{}, err
	}

	fee, err := valueobject.ParseVND(resp.Fee)
	if err != nil {
		return valueobject.Money{}, fmt.Errorf("shipping.quote: %w", ErrFeeUnparsable)
	}
	return fee, nil
}
