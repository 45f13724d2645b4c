package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swiftcab/service-booking/internal/postgrest"
)

// HealthHandler exposes liveness and readiness probes. Readiness reflects
// whether the remote booking store is reachable.
type HealthHandler struct {
	store   *postgrest.Client
	service string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store *postgrest.Client, service string) *HealthHandler {
	return &HealthHandler{store: store, service: service}
}

// RegisterRoutes registers the health probe routes.
func (h *HealthHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Live)
	r.GET("/readyz", h.Ready)
}

// Live handles GET /healthz.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
	})
}

// Ready handles GET /readyz.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "degraded",
			"service": h.service,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"service": h.service,
	})
}
