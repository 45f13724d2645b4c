package taxi

import (
	"context"

	"github.com/swiftcab/service-booking/internal/domain/booking"
)

// TaxiRepository defines read access to the fleet catalog.
type TaxiRepository interface {
	// FindByID retrieves a taxi by its identifier. Unknown IDs surface as
	// not-found errors.
	FindByID(ctx context.Context, id string) (*Taxi, error)

	// FindAvailable retrieves taxis currently accepting rides, optionally
	// narrowed to a tier. An empty tier matches all tiers.
	FindAvailable(ctx context.Context, tier booking.TaxiTier, limit int) ([]Taxi, error)
}
