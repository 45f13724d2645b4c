package booking

import "context"

// BookingRepository defines the persistence contract for bookings.
type BookingRepository interface {
	// Create persists a new booking as exactly one record. The booking is
	// stored as given; duplicate IDs surface as conflict errors.
	Create(ctx context.Context, b *Booking) error

	// FindByUserPhone retrieves every booking made under the given phone
	// number, newest first. No match yields an empty slice, not an error.
	FindByUserPhone(ctx context.Context, userPhone string) ([]Booking, error)

	// FindRecent retrieves the most recent bookings across all users,
	// newest first, capped at limit. Non-positive limits fall back to the
	// default window of 50.
	FindRecent(ctx context.Context, limit int) ([]Booking, error)

	// UpdateStatus sets the status of the identified booking, leaving all
	// other fields untouched. Unknown IDs surface as not-found errors.
	UpdateStatus(ctx context.Context, id, status string) error
}
