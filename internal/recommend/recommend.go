// Package recommend prices an item across resale platforms and picks
// the one with the highest expected net profit.
package recommend

import (
	"math"
	"strings"

	"github.com/arnaudp/vintedflip/internal/model"
)

const shippingCost = 5.0

// platform describes one resale venue: its commission and how far above
// the adjusted value its buyers tolerate.
type platform struct {
	name    string
	feeRate float64
	margin  float64
}

// Table order is the tie-break order: on equal profit the earlier
// platform wins.
var platforms = []platform{
	{"vinted", 0.125, 1.0},
	{"depop", 0.105, 1.3},
	{"vestiaire", 0.15, 1.4},
	{"grailed", 0.08, 1.5},
}

// conditionFactors discounts the adjusted value by wear. Checked in
// order against the lowercased condition string, so "très bon" is
// matched before its substring "bon".
var conditionFactors = []struct {
	keys   []string
	factor float64
}{
	{[]string{"neuf", "new"}, 1.0},
	{[]string{"excellent"}, 0.85},
	{[]string{"très bon", "tres bon"}, 0.75},
	{[]string{"bon"}, 0.65},
	{[]string{"acceptable"}, 0.5},
	{[]string{"used"}, 0.55},
}

const defaultConditionFactor = 0.65

var categoryMultipliers = map[model.Category]float64{
	model.CategoryShoes:       1.1,
	model.CategoryBags:        1.2,
	model.CategoryAccessories: 0.9,
	model.CategoryOuterwear:   1.0,
	model.CategoryTops:        0.8,
	model.CategoryBottoms:     0.85,
	model.CategoryOther:       1.0,
}

// brandMultipliers reflects how well each label holds value on the
// secondary market. Scanned in order against brand then title.
var brandMultipliers = []struct {
	name string
	mult float64
}{
	{"louis vuitton", 1.3},
	{"chanel", 1.3},
	{"hermes", 1.4},
	{"gucci", 1.25},
	{"prada", 1.25},
	{"dior", 1.2},
	{"fendi", 1.15},
	{"balenciaga", 1.15},
	{"yves saint laurent", 1.1},
	{"valentino", 1.1},
	{"givenchy", 1.05},
	{"burberry", 1.05},
	{"versace", 1.05},
	{"coach", 0.95},
	{"michael kors", 0.9},
	{"dolce gabbana", 1.0},
	{"supreme", 1.2},
	{"off-white", 1.15},
	{"jordan", 1.05},
	{"nike", 1.0},
	{"adidas", 0.95},
}

// PlatformQuote is the expected economics of listing an item on one
// platform.
type PlatformQuote struct {
	Platform       string
	FeeRatePercent float64
	ResalePrice    float64
	NetRevenue     float64
	Profit         float64
}

// Recommendation is the cross-platform pricing verdict for one item.
type Recommendation struct {
	ItemID        string
	AdjustedValue float64
	PerPlatform   []PlatformQuote
	BestPlatform  string
	BestProfit    float64
}

// Recommend quotes the item on every platform and selects the most
// profitable one. Profit is net of the platform fee, the purchase price
// and a flat shipping cost, floored at zero.
func Recommend(item model.EnrichedItem) Recommendation {
	adjusted := round2(item.MarketPrice *
		conditionFactor(item.Condition) *
		categoryMultiplier(item.Category) *
		brandMultiplier(item.Brand, item.Title))

	rec := Recommendation{
		ItemID:        item.ID,
		AdjustedValue: adjusted,
		PerPlatform:   make([]PlatformQuote, 0, len(platforms)),
	}

	for _, p := range platforms {
		resale := round2(adjusted * p.margin)
		net := round2(resale * (1 - p.feeRate))
		profit := round2(net - item.Price - shippingCost)
		if profit < 0 {
			profit = 0
		}

		rec.PerPlatform = append(rec.PerPlatform, PlatformQuote{
			Platform:       p.name,
			FeeRatePercent: round2(p.feeRate * 100),
			ResalePrice:    resale,
			NetRevenue:     net,
			Profit:         profit,
		})

		if rec.BestPlatform == "" || profit > rec.BestProfit {
			rec.BestPlatform = p.name
			rec.BestProfit = profit
		}
	}

	return rec
}

func conditionFactor(condition string) float64 {
	lower := strings.ToLower(condition)
	for _, cf := range conditionFactors {
		for _, key := range cf.keys {
			if strings.Contains(lower, key) {
				return cf.factor
			}
		}
	}
	return defaultConditionFactor
}

func categoryMultiplier(cat model.Category) float64 {
	if m, ok := categoryMultipliers[cat]; ok {
		return m
	}
	return 1.0
}

func brandMultiplier(brand, title string) float64 {
	brandLower := strings.ToLower(brand)
	titleLower := strings.ToLower(title)
	for _, bm := range brandMultipliers {
		if strings.Contains(brandLower, bm.name) || strings.Contains(titleLower, bm.name) {
			return bm.mult
		}
	}
	return 1.0
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
