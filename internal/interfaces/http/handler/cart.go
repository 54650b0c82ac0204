package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	appcart "github.com/mobileshop/backend/internal/application/cart"
	"github.com/mobileshop/backend/internal/domain/cart"
	"github.com/mobileshop/backend/internal/interfaces/http/middleware"
)

// CartService is the slice of the cart application service the HTTP layer uses
type CartService interface {
	Reconcile(ctx context.Context, sess appcart.Session) (*cart.CanonicalCart, error)
	AddItem(ctx context.Context, sess appcart.Session, productID, variantID, colorID string, quantity int64) error
	UpdateQuantity(ctx context.Context, sess appcart.Session, lineID string, quantity int64) error
	RemoveLines(ctx context.Context, sess appcart.Session, lineIDs []string) error
	Toggle(lineID string)
	SelectAll()
	ClearSelection()
	SelectedIDs() []string
	Snapshot() *cart.CanonicalCart
}

// CartHandler handles cart and selection endpoints
type CartHandler struct {
	BaseHandler
	carts CartService
}

// NewCartHandler creates a cart handler
func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/cart")
	{
		carts.GET("", h.GetCart)
		carts.POST("/items", h.AddItem)
		carts.PUT("/items/:id", h.UpdateQuantity)
		carts.DELETE("/items", h.RemoveItems)

		selection := carts.Group("/selection")
		{
			selection.GET("", h.GetSelection)
			selection.POST("/toggle", h.ToggleSelection)
			selection.POST("/all", h.SelectAll)
			selection.DELETE("", h.ClearSelection)
		}
	}
}

type cartResponse struct {
	Lines       []cart.CartLine `json:"lines"`
	SelectedIDs []string        `json:"selectedIds"`
}

// GetCart reconciles and returns the canonical cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sess := middleware.GetSession(c)
	snapshot, err := h.carts.Reconcile(c.Request.Context(), sess)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cartResponse{Lines: snapshot.Lines, SelectedIDs: h.carts.SelectedIDs()})
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID string `json:"variantId" binding:"required"`
	ColorID   string `json:"colorId"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

// AddItem adds an item to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	sess := middleware.GetSession(c)
	if err := h.carts.AddItem(c.Request.Context(), sess, req.ProductID, req.VariantID, req.ColorID, req.Quantity); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.carts.Snapshot())
}

type updateQuantityRequest struct {
	Quantity int64 `json:"quantity" binding:"required,min=1"`
}

// UpdateQuantity changes one line's quantity
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	lineID := c.Param("id")
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	sess := middleware.GetSession(c)
	if err := h.carts.UpdateQuantity(c.Request.Context(), sess, lineID, req.Quantity); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.carts.Snapshot())
}

type removeItemsRequest struct {
	LineIDs []string `json:"lineIds" binding:"required,min=1"`
}

// RemoveItems removes a batch of lines
func (h *CartHandler) RemoveItems(c *gin.Context) {
	var req removeItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	sess := middleware.GetSession(c)
	if err := h.carts.RemoveLines(c.Request.Context(), sess, req.LineIDs); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.carts.Snapshot())
}

type selectionResponse struct {
	SelectedIDs []string `json:"selectedIds"`
}

// GetSelection returns the explicit selection. An empty list means every line
// is selected.
func (h *CartHandler) GetSelection(c *gin.Context) {
	h.Success(c, selectionResponse{SelectedIDs: h.carts.SelectedIDs()})
}

type toggleRequest struct {
	LineID string `json:"lineId" binding:"required"`
}

// ToggleSelection flips one line's membership in the checkout selection
func (h *CartHandler) ToggleSelection(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	h.carts.Toggle(req.LineID)
	h.Success(c, selectionResponse{SelectedIDs: h.carts.SelectedIDs()})
}

// SelectAll marks every current line explicitly
func (h *CartHandler) SelectAll(c *gin.Context) {
	h.carts.SelectAll()
	h.Success(c, selectionResponse{SelectedIDs: h.carts.SelectedIDs()})
}

// ClearSelection empties the selection
func (h *CartHandler) ClearSelection(c *gin.Context) {
	h.carts.ClearSelection()
	h.Success(c, selectionResponse{SelectedIDs: h.carts.SelectedIDs()})
}
