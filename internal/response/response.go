package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swiftcab/service-booking/internal/apperrors"
	"github.com/swiftcab/service-booking/internal/domain/booking"
)

// Envelope is the uniform JSON body for every response. Data is omitted when
// there is nothing to return.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// BadRequest writes a 400 response carrying a validation error code.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Error:   message,
		Code:    apperrors.CodeValidation,
	})
}

// Error writes the response for an application error, deriving the HTTP
// status from its code.
func Error(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), Envelope{
		Success: false,
		Error:   apperrors.Message(err),
		Code:    apperrors.CodeOf(err),
	})
}

// FromResult translates an operation outcome into an HTTP response, using
// successStatus and data for the happy path.
func FromResult(c *gin.Context, res booking.Result, successStatus int, data interface{}) {
	if !res.Success {
		c.JSON(apperrors.StatusForCode(res.Code), Envelope{
			Success: false,
			Error:   res.Error,
			Code:    res.Code,
		})
		return
	}
	c.JSON(successStatus, Envelope{Success: true, Data: data})
}

// FromListResult translates a read outcome into an HTTP response. The data
// array is present on failure too, so clients can always iterate it.
func FromListResult(c *gin.Context, res booking.ListResult) {
	if res.Error != "" {
		c.JSON(apperrors.StatusForCode(res.Code), Envelope{
			Success: false,
			Data:    res.Bookings,
			Error:   res.Error,
			Code:    res.Code,
		})
		return
	}
	c.JSON(http.StatusOK, Envelope{Success: true, Data: res.Bookings})
}
