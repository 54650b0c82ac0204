package shopapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mobileshop/backend/internal/domain/cart"
	"github.com/mobileshop/backend/internal/domain/catalog"
)

// RemoteLine pairs a canonical cart line with the variant detail the remote
// cart service returned for it. The variant detail feeds color resolution; the
// read path sometimes omits the color field the write path accepted.
type RemoteLine struct {
	Line    cart.CartLine
	Variant catalog.VariantSnapshot
}

// CartClient talks to the remote cart service, the authoritative cart store
// when a session exists.
type CartClient struct {
	baseClient
}

// NewCartClient creates a cart service client
func NewCartClient(baseURL string, httpClient *http.Client) *CartClient {
	return &CartClient{baseClient: newBaseClient(baseURL, httpClient)}
}

type cartItemDTO struct {
	ID       string     `json:"id"`
	Quantity int64      `json:"quantity"`
	Variant  variantDTO `json:"productVariant"`
}

type cartResponseDTO struct {
	Items []cartItemDTO `json:"items"`
}

func (d *cartItemDTO) toRemoteLine() (RemoteLine, error) {
	variant := d.Variant.toDomain()
	line, err := cart.NewCartLine(
		d.ID,
		variant.VariantID,
		variant.Price,
		variant.DiscountedPrice,
		d.Quantity,
		cart.LineSourceRemote,
	)
	if err != nil {
		return RemoteLine{}, fmt.Errorf("line %s: %w", d.ID, err)
	}
	line.ColorID = variant.ColorID
	return RemoteLine{Line: *line, Variant: variant}, nil
}

// FetchCart retrieves the current remote cart with variant and color detail
func (c *CartClient) FetchCart(ctx context.Context, token string) ([]RemoteLine, error) {
	var resp cartResponseDTO
	if err := c.doJSON(ctx, "cart.fetch", http.MethodGet, "/cart", token, nil, &resp); err != nil {
		return nil, err
	}

	lines := make([]RemoteLine, 0, len(resp.Items))
	for i := range resp.Items {
		line, err := resp.Items[i].toRemoteLine()
		if err != nil {
			return nil, fmt.Errorf("cart.fetch: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// AddItem adds a variant to the remote cart and returns the created line
func (c *CartClient) AddItem(ctx context.Context, token, variantID, colorID string, quantity int64) (*RemoteLine, error) {
	body := map[string]any{
		"productVariantId": variantID,
		"colorId":          colorID,
		"quantity":         quantity,
	}
	var resp cartItemDTO
	if err := c.doJSON(ctx, "cart.add", http.MethodPost, "/cart/items", token, body, &resp); err != nil {
		return nil, err
	}
	line, err := resp.toRemoteLine()
	if err != nil {
		return nil, fmt.Errorf("cart.add: %w", err)
	}
	return &line, nil
}

// UpdateQuantity changes a line's quantity on the remote cart
func (c *CartClient) UpdateQuantity(ctx context.Context, token, lineID string, quantity int64) error {
	body := map[string]any{"quantity": quantity}
	return c.doJSON(ctx, "cart.quantity", http.MethodPut, "/cart/items/"+lineID, token, body, nil)
}

// RemoveLines deletes a batch of lines from the remote cart. It is also the
// trim call issued best-effort after a successful order submission.
func (c *CartClient) RemoveLines(ctx context.Context, token string, lineIDs []string) error {
	if len(lineIDs) == 0 {
		return nil
	}
	body := map[string]any{"ids": lineIDs}
	return c.doJSON(ctx, "cart.remove", http.MethodDelete, "/cart/items", token, body, nil)
}
