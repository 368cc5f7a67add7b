package analysis

import (
	"math"
	"strings"
)

// BrandTier maps a list of brand names to a market-price multiplier.
type BrandTier struct {
	Name       string
	Members    []string
	Multiplier float64
}

// brandTiers is evaluated top to bottom; the first tier with a member
// present in either the brand label or the title wins. Kept as data so
// tiers can be extended without touching the matching logic.
var brandTiers = []BrandTier{
	{Name: "ultra-luxury", Members: []string{"louis vuitton", "gucci", "prada", "chanel", "dior"}, Multiplier: 4.0},
	{Name: "luxury", Members: []string{"yves saint laurent", "valentino", "givenchy", "fendi", "balenciaga"}, Multiplier: 3.5},
	{Name: "premium", Members: []string{"nike", "adidas", "jordan", "supreme", "off-white"}, Multiplier: 3.0},
	{Name: "mid-tier", Members: []string{"zara", "h&m", "uniqlo"}, Multiplier: 2.0},
}

// defaultMultiplier applies when no brand tier matches.
const defaultMultiplier = 2.5

var (
	mintKeywords     = []string{"new", "neuf", "jamais porté"}
	verygoodKeywords = []string{"excellent", "comme neuf"}
)

// EstimateMarketPrice computes the heuristic resale value of a listing
// from its brand tier and the condition signals in the title. The result
// is deterministic and non-negative for any currentPrice >= 0.
func EstimateMarketPrice(title, brand string, currentPrice float64) float64 {
	titleLower := strings.ToLower(title)
	brandLower := strings.ToLower(brand)

	multiplier := defaultMultiplier
	for _, tier := range brandTiers {
		if tier.matches(brandLower, titleLower) {
			multiplier = tier.Multiplier
			break
		}
	}

	return round2(currentPrice*multiplier + conditionBonus(titleLower))
}

// TierFor returns the name of the brand tier a listing falls into, or
// empty when none matches. Exposed for reporting.
func TierFor(title, brand string) string {
	titleLower := strings.ToLower(title)
	brandLower := strings.ToLower(brand)
	for _, tier := range brandTiers {
		if tier.matches(brandLower, titleLower) {
			return tier.Name
		}
	}
	return ""
}

func (t BrandTier) matches(brandLower, titleLower string) bool {
	for _, m := range t.Members {
		if strings.Contains(brandLower, m) || strings.Contains(titleLower, m) {
			return true
		}
	}
	return false
}

// conditionBonus adds a flat premium for listings whose title advertises
// condition. Mint keywords win over very-good keywords.
func conditionBonus(titleLower string) float64 {
	for _, kw := range mintKeywords {
		if strings.Contains(titleLower, kw) {
			return 0.8
		}
	}
	for _, kw := range verygoodKeywords {
		if strings.Contains(titleLower, kw) {
			return 0.5
		}
	}
	return 0
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
