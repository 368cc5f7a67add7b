package analysis

import (
	"math"

	"github.com/arnaudp/vintedflip/internal/model"
)

// Config holds the resale economics used by the scoring engine.
type Config struct {
	FeeRate      float64 // resale platform fee as a fraction of sale price
	ShippingCost float64 // flat shipping cost in currency units
	ResaleFactor float64 // fraction of market price realized on a conservative resale
}

// DefaultConfig returns the economics the engine runs with in production.
func DefaultConfig() Config {
	return Config{
		FeeRate:      0.105,
		ShippingCost: 5,
		ResaleFactor: 0.75,
	}
}

// Discount returns the estimated discount percent of currentPrice against
// marketPrice, rounded to one decimal. Defined as 0 when marketPrice <= 0.
func Discount(currentPrice, marketPrice float64) float64 {
	if marketPrice <= 0 {
		return 0
	}
	return math.Max(0, round1(100*(marketPrice-currentPrice)/marketPrice))
}

// ProfitPotential returns the expected profit of buying at currentPrice
// and reselling at ResaleFactor of marketPrice, net of fees and shipping.
// Never negative.
func (c Config) ProfitPotential(currentPrice, marketPrice float64) float64 {
	revenue := marketPrice * c.ResaleFactor * (1 - c.FeeRate)
	return math.Max(0, round2(revenue-currentPrice-c.ShippingCost))
}

// Profile is one set of opportunity thresholds. Two presets coexist
// historically; both stay independently constructible and the active one
// comes from configuration.
type Profile struct {
	MinProfit   float64
	MinDiscount float64
}

// AggressiveProfile is the default threshold set.
func AggressiveProfile() Profile {
	return Profile{MinProfit: 10, MinDiscount: 25}
}

// BaselineProfile trades a lower profit floor for a higher discount floor.
func BaselineProfile() Profile {
	return Profile{MinProfit: 5, MinDiscount: 30}
}

// IsOpportunity reports whether the item clears every threshold. All
// three conditions are required; the margin guard rejects items where
// the estimator produced a nominal discount with no real headroom.
func (p Profile) IsOpportunity(item model.EnrichedItem) bool {
	if item.ProfitPotential < p.MinProfit {
		return false
	}
	if item.DiscountPercent < p.MinDiscount {
		return false
	}
	if item.MarketPrice <= item.Price*1.5 {
		return false
	}
	return true
}
