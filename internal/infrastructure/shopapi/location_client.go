package shopapi

import (
	"context"
	"net/http"
	"strconv"
)

// Province is one entry of the location directory's province list
type Province struct {
	ID   int64
	Name string
}

// Commune is one entry of a province's commune list
type Commune struct {
	ID   int64
	Name string
}

// LocationClient resolves province and commune identifiers to the
// human-readable names the fee quote requires.
type LocationClient struct {
	baseClient
}

// NewLocationClient creates a location directory client
func NewLocationClient(baseURL string, httpClient *http.Client) *LocationClient {
	return &LocationClient{baseClient: newBaseClient(baseURL, httpClient)}
}

// The directory types identifiers inconsistently per endpoint, so both fields
// decode through flexID.
type provinceDTO struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

type communeDTO struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

// Provinces returns the full province list
func (c *LocationClient) Provinces(ctx context.Context) ([]Province, error) {
	var resp struct {
		Provinces []provinceDTO `json:"provinces"`
	}
	if err := c.doJSON(ctx, "location.provinces", http.MethodGet, "/provinces", "", nil, &resp); err != nil {
		return nil, err
	}

	provinces := make([]Province, 0, len(resp.Provinces))
	for _, p := range resp.Provinces {
		provinces = append(provinces, Province{ID: int64(p.ID), Name: p.Name})
	}
	return provinces, nil
}

// Communes returns the commune list of one province
func (c *LocationClient) Communes(ctx context.Context, provinceID int64) ([]Commune, error) {
	var resp struct {
		Communes []communeDTO `json:"communes"`
	}
	path := "/provinces/" + strconv.FormatInt(provinceID, 10) + "/communes"
	if err := c.doJSON(ctx, "location.communes", http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, err
	}

	communes := make([]Commune, 0, len(resp.Communes))
	for _, cm := range resp.Communes {
		communes = append(communes, Commune{ID: int64(cm.ID), Name: cm.Name})
	}
	return communes, nil
}

// CommunesByProvinceID is the string-id form used by the checkout service.
// Addresses store location ids as strings; the identifier is coerced to the
// numeric form the directory expects.
func (c *LocationClient) CommunesByProvinceID(ctx context.Context, provinceID string) ([]Commune, error) {
	id, err := CoerceID(provinceID)
	if err != nil {
		return nil, err
	}
	return c.Communes(ctx, id)
}

// CoerceID converts a possibly string-typed identifier to its numeric form
func CoerceID(raw string) (int64, error) {
	var id flexID
	if err := id.UnmarshalJSON([]byte(raw)); err != nil {
		return 0, err
	}
	return int64(id), nil
}
