package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/swiftcab/service-booking/internal/application"
	bookingDomain "github.com/swiftcab/service-booking/internal/domain/booking"
	"github.com/swiftcab/service-booking/internal/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/api/v1/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/recent", h.ListRecentBookings)
		bookings.PATCH("/:id/status", h.UpdateBookingStatus)
	}
	r.GET("/api/v1/quotes", h.QuoteFares)
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	bk, res := h.service.CreateBooking(c.Request.Context(), req)
	response.FromResult(c, res, http.StatusCreated, bk)
}

// ListBookings handles GET /api/v1/bookings?phone=... and returns the
// caller's booking history, newest first.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		response.BadRequest(c, "phone query parameter is required")
		return
	}

	res := h.service.ListByUser(c.Request.Context(), phone)
	response.FromListResult(c, res)
}

// ListRecentBookings handles GET /api/v1/bookings/recent. Without a limit the
// store default applies.
func (h *BookingHandler) ListRecentBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	res := h.service.ListRecent(c.Request.Context(), limit)
	response.FromListResult(c, res)
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/:id/status.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	bookingID := c.Param("id")

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res := h.service.UpdateStatus(c.Request.Context(), bookingID, body.Status)
	response.FromResult(c, res, http.StatusOK, nil)
}

// QuoteFares handles GET /api/v1/quotes and estimates every tier's fare for
// the route given by from_lat/from_lng/to_lat/to_lng.
func (h *BookingHandler) QuoteFares(c *gin.Context) {
	from, err := queryPoint(c, "from_lat", "from_lng")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	to, err := queryPoint(c, "to_lat", "to_lng")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	quotes, err := h.service.QuoteFares(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, quotes)
}

func queryPoint(c *gin.Context, latKey, lngKey string) (bookingDomain.Point, error) {
	lat, err := strconv.ParseFloat(c.Query(latKey), 64)
	if err != nil {
		return bookingDomain.Point{}, fmt.Errorf("invalid or missing %s", latKey)
	}
	lng, err := strconv.ParseFloat(c.Query(lngKey), 64)
	if err != nil {
		return bookingDomain.Point{}, fmt.Errorf("invalid or missing %s", lngKey)
	}
	return bookingDomain.Point{Lat: lat, Lng: lng}, nil
}
