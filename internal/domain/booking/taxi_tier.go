package booking

// TaxiTier represents the service class a rider can book.
type TaxiTier string

const (
	TierEconomy  TaxiTier = "economy"
	TierStandard TaxiTier = "standard"
	TierPremium  TaxiTier = "premium"
)

// Tiers lists every bookable tier in ascending price order.
func Tiers() []TaxiTier {
	return []TaxiTier{TierEconomy, TierStandard, TierPremium}
}

// IsValid returns true if the tier is recognized.
func (t TaxiTier) IsValid() bool {
	switch t {
	case TierEconomy, TierStandard, TierPremium:
		return true
	}
	return false
}

// String returns the string representation of the tier.
func (t TaxiTier) String() string {
	return string(t)
}
