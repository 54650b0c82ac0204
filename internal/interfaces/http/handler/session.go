package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mobileshop/backend/internal/infrastructure/auth"
	"github.com/mobileshop/backend/internal/interfaces/http/middleware"
)

// SessionHandler exchanges an upstream shop token for a session token
type SessionHandler struct {
	BaseHandler
	sessions *auth.SessionService
}

// NewSessionHandler creates a session handler
func NewSessionHandler(sessions *auth.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// RegisterRoutes registers session routes
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/session", h.Create)
}

type createSessionRequest struct {
	ShopToken string `json:"shopToken" binding:"required"`
	DeviceID  string `json:"deviceId"`
}

// Create wraps the given shop token in a signed session token. The device id
// defaults to the X-Device-ID header so the local cart cache follows the
// client across logins.
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	deviceID := req.DeviceID
	if deviceID == "" {
		deviceID = c.GetHeader(middleware.DeviceIDHeader)
	}

	issued, err := h.sessions.Issue(req.ShopToken, deviceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, issued)
}
