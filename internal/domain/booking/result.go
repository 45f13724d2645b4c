package booking

import "github.com/swiftcab/service-booking/internal/apperrors"

// Result is the uniform outcome of a booking write operation. Failures are
// carried as data rather than raised, so callers can branch without error
// handling ceremony.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// OK returns a successful Result.
func OK() Result {
	return Result{Success: true}
}

// Fail converts an error into a failed Result, preserving the stable error
// code alongside the caller-facing message.
func Fail(err error) Result {
	return Result{
		Success: false,
		Error:   apperrors.Message(err),
		Code:    apperrors.CodeOf(err),
	}
}

// ListResult is the uniform outcome of a booking read operation. Bookings is
// never nil; a failed read carries an empty slice plus the error.
type ListResult struct {
	Bookings []Booking `json:"bookings"`
	Error    string    `json:"error,omitempty"`
	Code     string    `json:"code,omitempty"`
}

// ListOK wraps retrieved bookings, normalizing nil to an empty slice.
func ListOK(items []Booking) ListResult {
	if items == nil {
		items = []Booking{}
	}
	return ListResult{Bookings: items}
}

// ListFail converts an error into a failed ListResult with an empty slice.
func ListFail(err error) ListResult {
	return ListResult{
		Bookings: []Booking{},
		Error:    apperrors.Message(err),
		Code:     apperrors.CodeOf(err),
	}
}
