package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	appcart "github.com/mobileshop/backend/internal/application/cart"
	appcheckout "github.com/mobileshop/backend/internal/application/checkout"
	"github.com/mobileshop/backend/internal/domain/checkout"
	"github.com/mobileshop/backend/internal/domain/payment"
	"github.com/mobileshop/backend/internal/domain/shared"
	"github.com/mobileshop/backend/internal/domain/shipping"
	"github.com/mobileshop/backend/internal/infrastructure/shopapi"
	"github.com/mobileshop/backend/internal/interfaces/http/middleware"
)

// CheckoutService is the slice of the checkout application service the HTTP
// layer uses
type CheckoutService interface {
	SelectAddress(ctx context.Context, addr checkout.Address) shipping.Quote
	Quote() shipping.Quote
	State() checkout.LifecycleState
	Submit(ctx context.Context, sess appcart.Session, method payment.Method, clientIP string) (*appcheckout.SubmitResult, error)
	HandleGatewayReturn(ctx context.Context, rawURL string) (*payment.CallbackResult, error)
	OrderStatus(ctx context.Context, sess appcart.Session, orderID string) (*shopapi.OrderStatus, error)
	CancelOrder(ctx context.Context, sess appcart.Session, orderID string) error
}

// CheckoutHandler handles address selection, submission and gateway returns
type CheckoutHandler struct {
	BaseHandler
	checkouts CheckoutService
}

// NewCheckoutHandler creates a checkout handler
func NewCheckoutHandler(checkouts CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkouts: checkouts}
}

// RegisterRoutes registers checkout and order routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	co := rg.Group("/checkout")
	{
		co.POST("/address", h.SelectAddress)
		co.GET("/quote", h.GetQuote)
		co.POST("/submit", middleware.RequireSession(), h.Submit)
		co.GET("/return", h.GatewayReturn)
	}

	orders := rg.Group("/orders", middleware.RequireSession())
	{
		orders.GET("/:id", h.OrderStatus)
		orders.POST("/:id/cancel", h.CancelOrder)
	}
}

type selectAddressRequest struct {
	AddressID      string `json:"addressId"`
	RecipientName  string `json:"recipientName" binding:"required"`
	RecipientPhone string `json:"recipientPhone" binding:"required"`
	Street         string `json:"street" binding:"required"`
	ProvinceID     string `json:"provinceId" binding:"required"`
	CommuneID      string `json:"communeId" binding:"required"`
	ProvinceName   string `json:"provinceName"`
	CommuneName    string `json:"communeName"`
	PostalCode     string `json:"postalCode"`
}

// SelectAddress sets the delivery address and resolves the shipping fee
func (h *CheckoutHandler) SelectAddress(c *gin.Context) {
	var req selectAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	quote := h.checkouts.SelectAddress(c.Request.Context(), checkout.Address{
		AddressID:      req.AddressID,
		RecipientName:  req.RecipientName,
		RecipientPhone: req.RecipientPhone,
		Street:         req.Street,
		ProvinceID:     req.ProvinceID,
		CommuneID:      req.CommuneID,
		ProvinceName:   req.ProvinceName,
		CommuneName:    req.CommuneName,
		PostalCode:     req.PostalCode,
	})
	h.Success(c, quote)
}

// GetQuote returns the current shipping fee state
func (h *CheckoutHandler) GetQuote(c *gin.Context) {
	h.Success(c, h.checkouts.Quote())
}

type submitRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=cod vnpay"`
}

// Submit runs one order submission attempt
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	sess := middleware.GetSession(c)
	method := payment.Method{Code: payment.MethodCode(req.PaymentMethod)}
	result, err := h.checkouts.Submit(c.Request.Context(), sess, method, c.ClientIP())
	if err != nil {
		var verrs shared.ValidationErrors
		if errors.As(err, &verrs) {
			h.ValidationFailed(c, verrs)
			return
		}
		// A rejected order or failed payment URL still has a lifecycle
		// outcome; the result carries it with the user message.
		if result != nil {
			h.Success(c, result)
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GatewayReturn classifies a payment gateway redirect URL
func (h *CheckoutHandler) GatewayReturn(c *gin.Context) {
	result, err := h.checkouts.HandleGatewayReturn(c.Request.Context(), c.Request.URL.String())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result == nil {
		h.Success(c, gin.H{"callback": false})
		return
	}
	h.Success(c, gin.H{"callback": true, "result": result})
}

// OrderStatus returns the status of a submitted order
func (h *CheckoutHandler) OrderStatus(c *gin.Context) {
	sess := middleware.GetSession(c)
	status, err := h.checkouts.OrderStatus(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// CancelOrder requests cancellation of a submitted order
func (h *CheckoutHandler) CancelOrder(c *gin.Context) {
	sess := middleware.GetSession(c)
	if err := h.checkouts.CancelOrder(c.Request.Context(), sess, c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
