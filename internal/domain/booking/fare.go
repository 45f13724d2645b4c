package booking

import (
	"fmt"
	"math"
)

// FareStrategy defines the interface for estimating trip fares.
type FareStrategy interface {
	// Estimate returns the fare for the given parameters, rounded to cents.
	Estimate(params FareParams) (float64, error)
}

// FareParams holds the inputs for fare estimation.
type FareParams struct {
	DistanceKm float64
	Tier       TaxiTier
}

// FareQuote is one tier's estimate for a prospective trip.
type FareQuote struct {
	Tier       TaxiTier `json:"tier"`
	DistanceKm float64  `json:"distance_km"`
	Fare       float64  `json:"fare"`
}

// StandardFareStrategy implements the default SwiftCab rate card.
type StandardFareStrategy struct{}

// NewStandardFareStrategy creates a new StandardFareStrategy.
func NewStandardFareStrategy() *StandardFareStrategy {
	return &StandardFareStrategy{}
}

// Estimate computes the fare as base flagfall plus a per-kilometre rate.
//
// Rate card:
//   - economy:  2.50 base + 1.20/km
//   - standard: 3.50 base + 1.80/km
//   - premium:  5.00 base + 2.50/km
func (s *StandardFareStrategy) Estimate(params FareParams) (float64, error) {
	if params.DistanceKm < 0 {
		return 0, fmt.Errorf("distance cannot be negative")
	}

	base, perKm, err := tierRates(params.Tier)
	if err != nil {
		return 0, err
	}

	return RoundMoney(base + perKm*params.DistanceKm), nil
}

// tierRates returns the flagfall and per-km rate for a tier.
func tierRates(tier TaxiTier) (base, perKm float64, err error) {
	switch tier {
	case TierEconomy:
		return 2.50, 1.20, nil
	case TierStandard:
		return 3.50, 1.80, nil
	case TierPremium:
		return 5.00, 2.50, nil
	default:
		return 0, 0, fmt.Errorf("unknown taxi tier for fare estimation: %s", tier)
	}
}

// RoundMoney rounds to two decimals, matching the store's decimal(10,2)
// money columns.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
