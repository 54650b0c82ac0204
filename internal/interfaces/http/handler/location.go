package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mobileshop/backend/internal/infrastructure/shopapi"
)

// LocationService resolves the province and commune directory
type LocationService interface {
	Provinces(ctx context.Context) ([]shopapi.Province, error)
	CommunesByProvinceID(ctx context.Context, provinceID string) ([]shopapi.Commune, error)
}

// LocationHandler serves the location directory for address entry
type LocationHandler struct {
	BaseHandler
	locations LocationService
}

// NewLocationHandler creates a location handler
func NewLocationHandler(locations LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// RegisterRoutes registers location routes
func (h *LocationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	locations := rg.Group("/locations")
	{
		locations.GET("/provinces", h.Provinces)
		locations.GET("/provinces/:id/communes", h.Communes)
	}
}

// Provinces lists every province
func (h *LocationHandler) Provinces(c *gin.Context) {
	provinces, err := h.locations.Provinces(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, provinces)
}

// Communes lists the communes of one province. The identifier may be numeric
// or string-typed; coercion happens in the client.
func (h *LocationHandler) Communes(c *gin.Context) {
	communes, err := h.locations.CommunesByProvinceID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, communes)
}
