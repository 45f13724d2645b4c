package events

import "time"

// Topic names shared across SwiftCab services.
const (
	TopicBookingEvents  = "booking.events"
	TopicDispatchEvents = "dispatch.events"
)

// Event types carried on the booking topic.
const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
)

// Event types carried on the dispatch topic.
const (
	DispatchTaxiAssigned = "dispatch.taxi_assigned"
)

// BookingCreatedEvent announces a newly persisted booking.
type BookingCreatedEvent struct {
	BookingID  string    `json:"booking_id"`
	UserPhone  string    `json:"user_phone"`
	Tier       string    `json:"tier"`
	PickupLat  float64   `json:"pickup_lat"`
	PickupLng  float64   `json:"pickup_lng"`
	DropLat    float64   `json:"drop_lat"`
	DropLng    float64   `json:"drop_lng"`
	Fare       float64   `json:"fare"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent announces a booking status transition.
type BookingStatusChangedEvent struct {
	BookingID  string    `json:"booking_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TaxiAssignedEvent is published by the dispatch service once it matches a
// taxi to a booking.
type TaxiAssignedEvent struct {
	BookingID  string    `json:"booking_id"`
	TaxiID     string    `json:"taxi_id"`
	ETAMinutes int       `json:"eta_minutes"`
	OccurredAt time.Time `json:"occurred_at"`
}
