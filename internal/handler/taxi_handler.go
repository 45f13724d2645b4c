package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/swiftcab/service-booking/internal/application"
	"github.com/swiftcab/service-booking/internal/response"
)

// TaxiHandler handles HTTP requests for the taxi catalog.
type TaxiHandler struct {
	service *application.TaxiService
}

// NewTaxiHandler creates a new TaxiHandler.
func NewTaxiHandler(service *application.TaxiService) *TaxiHandler {
	return &TaxiHandler{service: service}
}

// RegisterRoutes registers all taxi routes on the given router group.
func (h *TaxiHandler) RegisterRoutes(r *gin.RouterGroup) {
	taxis := r.Group("/api/v1/taxis")
	{
		taxis.GET("", h.ListAvailableTaxis)
		taxis.GET("/:id", h.GetTaxi)
	}
}

// ListAvailableTaxis handles GET /api/v1/taxis?tier=...&limit=...
func (h *TaxiHandler) ListAvailableTaxis(c *gin.Context) {
	tier := c.Query("tier")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	taxis, err := h.service.ListAvailable(c.Request.Context(), tier, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, taxis)
}

// GetTaxi handles GET /api/v1/taxis/:id.
func (h *TaxiHandler) GetTaxi(c *gin.Context) {
	t, err := h.service.GetTaxi(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, t)
}
