package taxi

import (
	"github.com/swiftcab/service-booking/internal/domain/booking"
)

// Taxi is one vehicle in the dispatchable fleet. The catalog is owned by the
// fleet service; this service reads it to resolve assignments and to show
// riders what is nearby.
type Taxi struct {
	ID          string           `json:"id"`
	DriverName  string           `json:"driver_name"`
	PlateNumber string           `json:"plate_number"`
	Tier        booking.TaxiTier `json:"tier"`
	Available   bool             `json:"available"`
	Location    booking.Point    `json:"location"`
}
