package pipeline

import (
	"strings"
	"time"

	"github.com/arnaudp/vintedflip/internal/analysis"
	"github.com/arnaudp/vintedflip/internal/model"
	"github.com/arnaudp/vintedflip/internal/vinted"
)

// Fallback values for listings that arrive with holes. The upstream API
// omits brand, photo or user blocks often enough that the rest of the
// pipeline must never see a nil.
const (
	unknownBrand  = "Unknown"
	unknownSize   = "N/A"
	unknownStatus = "N/A"
	unknownSeller = "N/A"
)

// categoryRule maps title keywords to a category. Rules are checked in
// order and the first match wins, so "leather boots bag strap" lands in
// shoes, not bags.
type categoryRule struct {
	category model.Category
	keywords []string
}

var categoryRules = []categoryRule{
	{model.CategoryShoes, []string{"shoe", "sneaker", "chaussure", "baskets", "boots"}},
	{model.CategoryBags, []string{"bag", "sac", "backpack", "purse"}},
	{model.CategoryOuterwear, []string{"jacket", "coat", "hoodie", "blouson", "manteau"}},
	{model.CategoryTops, []string{"shirt", "t-shirt", "tee", "chemise"}},
	{model.CategoryBottoms, []string{"pants", "jeans", "trousers", "pantalon"}},
	{model.CategoryAccessories, []string{"watch", "montre"}},
}

// DetectCategory buckets a listing title. Titles matching no rule fall
// through to CategoryOther.
func DetectCategory(title string) model.Category {
	lower := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return model.CategoryOther
}

// Normalizer turns raw catalog records into enriched items carrying the
// derived market signals. It is stateless apart from its scoring config
// and safe for concurrent use.
type Normalizer struct {
	scoring analysis.Config
	now     func() time.Time
}

func NewNormalizer(scoring analysis.Config) *Normalizer {
	return &Normalizer{scoring: scoring, now: time.Now}
}

// Normalize maps one raw listing to an enriched item. Records with no
// usable id are dropped; other missing fields take their fallback
// defaults and the derived signals are computed from whatever survived.
func (n *Normalizer) Normalize(raw model.RawListing) (model.EnrichedItem, bool) {
	if raw.ID == "" {
		return model.EnrichedItem{}, false
	}

	item := model.EnrichedItem{
		ID:         string(raw.ID),
		Title:      raw.Title,
		Price:      float64(raw.Price),
		Brand:      raw.BrandTitle,
		Size:       raw.SizeTitle,
		Condition:  raw.Status,
		Seller:     unknownSeller,
		URL:        vinted.ItemURL(string(raw.ID)),
		ObservedAt: n.now(),
	}

	if item.Brand == "" {
		item.Brand = unknownBrand
	}
	if item.Size == "" {
		item.Size = unknownSize
	}
	if item.Condition == "" {
		item.Condition = unknownStatus
	}
	if raw.Photo != nil {
		item.ImageURL = raw.Photo.FullSizeURL
	}
	if raw.User != nil {
		if raw.User.Login != "" {
			item.Seller = raw.User.Login
		}
		item.SellerRating = float64(raw.User.AveragePositiveFeedback)
	}

	item.Category = DetectCategory(item.Title)
	item.MarketPrice = analysis.EstimateMarketPrice(item.Title, item.Brand, item.Price)
	item.DiscountPercent = analysis.Discount(item.Price, item.MarketPrice)
	item.ProfitPotential = n.scoring.ProfitPotential(item.Price, item.MarketPrice)

	return item, true
}

// NormalizeAll normalizes a batch, preserving order and skipping
// dropped records.
func (n *Normalizer) NormalizeAll(raws []model.RawListing) []model.EnrichedItem {
	items := make([]model.EnrichedItem, 0, len(raws))
	for _, raw := range raws {
		if item, ok := n.Normalize(raw); ok {
			items = append(items, item)
		}
	}
	return items
}
