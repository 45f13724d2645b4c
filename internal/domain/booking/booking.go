package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swiftcab/service-booking/internal/apperrors"
)

// Point is a geographic position with an optional human-readable address.
type Point struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// Booking is one requested ride from pickup to drop-off. Fields mirror the
// persisted record one-to-one; the repository layer stores the booking as
// given, so any normalization happens before construction. TaxiID and ETA
// stay nil until dispatch assigns a taxi.
type Booking struct {
	ID            string        `json:"id"`
	UserName      string        `json:"user_name"`
	UserPhone     string        `json:"user_phone"`
	StartLocation Point         `json:"start_location"`
	EndLocation   Point         `json:"end_location"`
	Tier          TaxiTier      `json:"tier"`
	Distance      float64       `json:"distance"`
	Fare          float64       `json:"fare"`
	Status        BookingStatus `json:"status"`
	TaxiID        *string       `json:"taxi_id"`
	ETA           *int          `json:"eta"`
	Timestamp     int64         `json:"timestamp"`
}

// NewBooking assembles a booking in the pending state with a fresh ID and
// the current epoch-millisecond timestamp. Rider details may be empty; only
// the tier and the non-negativity of distance and fare are checked.
func NewBooking(userName, userPhone string, start, end Point, tier TaxiTier, distance, fare float64) (*Booking, error) {
	if !tier.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid taxi tier: %s", tier))
	}
	if distance < 0 {
		return nil, apperrors.NewValidationError("distance cannot be negative")
	}
	if fare < 0 {
		return nil, apperrors.NewValidationError("fare cannot be negative")
	}

	return &Booking{
		ID:            uuid.NewString(),
		UserName:      userName,
		UserPhone:     userPhone,
		StartLocation: start,
		EndLocation:   end,
		Tier:          tier,
		Distance:      distance,
		Fare:          fare,
		Status:        StatusPending,
		Timestamp:     time.Now().UnixMilli(),
	}, nil
}

// Assign attaches a taxi and its estimated arrival to the booking and moves
// it to the assigned state. etaMinutes may be nil when the dispatcher has no
// estimate yet.
func (b *Booking) Assign(taxiID string, etaMinutes *int) error {
	if !b.Status.CanTransitionTo(StatusAssigned) {
		return apperrors.NewInvalidStateError(string(b.Status), string(StatusAssigned))
	}
	if taxiID == "" {
		return apperrors.NewValidationError("taxi ID is required")
	}
	b.TaxiID = &taxiID
	b.ETA = etaMinutes
	b.Status = StatusAssigned
	return nil
}
