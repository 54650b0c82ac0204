package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mobileshop/backend/internal/infrastructure/kvstore"
)

// SystemHandler serves health and readiness probes
type SystemHandler struct {
	BaseHandler
	appName string
	version string
	store   kvstore.Store
}

// NewSystemHandler creates a system handler. The store is the cart cache;
// readiness reports degraded when it cannot be reached.
func NewSystemHandler(appName, version string, store kvstore.Store) *SystemHandler {
	return &SystemHandler{appName: appName, version: version, store: store}
}

// RegisterRoutes registers system routes on the engine root, outside the
// versioned API group
func (h *SystemHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Ready)
}

// Health is a liveness probe
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"app":     h.appName,
		"version": h.version,
	})
}

// Ready is a readiness probe touching the cache store
func (h *SystemHandler) Ready(c *gin.Context) {
	status := "ok"
	cacheStatus := "ok"

	if _, err := h.store.Get(c.Request.Context(), "readiness-probe"); err != nil && !errors.Is(err, kvstore.ErrKeyNotFound) {
		// The local cache is a fallback store; the service still works
		// without it, so report degraded rather than unavailable.
		status = "degraded"
		cacheStatus = "unreachable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"cache":  cacheStatus,
	})
}
