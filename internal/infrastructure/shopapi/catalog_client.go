package shopapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/mobileshop/backend/internal/domain/catalog"
)

// CatalogClient fetches product snapshots, used to rebuild full cart lines
// from local {productId, quantity} references during reconciliation.
type CatalogClient struct {
	baseClient
}

// NewCatalogClient creates a catalog service client
func NewCatalogClient(baseURL string, httpClient *http.Client) *CatalogClient {
	return &CatalogClient{baseClient: newBaseClient(baseURL, httpClient)}
}

type productDTO struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Variants []variantDTO `json:"variants"`
}

func (d *productDTO) toDomain() *catalog.ProductSnapshot {
	p := &catalog.ProductSnapshot{
		ProductID: d.ID,
		Name:      d.Name,
		Variants:  make([]catalog.VariantSnapshot, 0, len(d.Variants)),
	}
	for i := range d.Variants {
		p.Variants = append(p.Variants, d.Variants[i].toDomain())
	}
	return p
}

// ProductByID fetches one product snapshot
func (c *CatalogClient) ProductByID(ctx context.Context, productID string) (*catalog.ProductSnapshot, error) {
	var resp productDTO
	if err := c.doJSON(ctx, "catalog.product", http.MethodGet, "/products/"+url.PathEscape(productID), "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

// ProductsByIDs fetches a batch of product snapshots
func (c *CatalogClient) ProductsByIDs(ctx context.Context, productIDs []string) ([]catalog.ProductSnapshot, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	query := url.Values{"ids": []string{strings.Join(productIDs, ",")}}
	var resp struct {
		Products []productDTO `json:"products"`
	}
	if err := c.doJSON(ctx, "catalog.products", http.MethodGet, "/products?"+query.Encode(), "", nil, &resp); err != nil {
		return nil, err
	}

	products := make([]catalog.ProductSnapshot, 0, len(resp.Products))
	for i := range resp.Products {
		products = append(products, *resp.Products[i].toDomain())
	}
	return products, nil
}
