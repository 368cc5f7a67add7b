package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/arnaudp/vintedflip/internal/model"
)

// Factory generates deterministic listing fixtures from a seed.
type Factory struct {
	rand *rand.Rand
}

// NewFactory creates a factory. A zero seed picks one from the clock.
func NewFactory(seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{rand: rand.New(rand.NewSource(seed))}
}

var (
	factoryBrands = []string{"Nike", "Adidas", "Gucci", "Zara", "Levi's"}
	factoryTitles = []string{
		"%s sneakers taille 42",
		"Sac %s cuir",
		"T-shirt %s oversize",
		"Jeans %s slim",
		"Veste %s vintage",
	}
	factoryConditions = []string{
		"Neuf avec étiquette", "Très bon état", "Bon état", "Satisfaisant",
	}
)

// RawListing generates a plausible catalog record.
func (f *Factory) RawListing() model.RawListing {
	brand := factoryBrands[f.rand.Intn(len(factoryBrands))]
	return model.RawListing{
		ID:         model.ItemID(fmt.Sprintf("%d", f.rand.Int63n(1_000_000))),
		Title:      fmt.Sprintf(factoryTitles[f.rand.Intn(len(factoryTitles))], brand),
		Price:      model.Amount(f.Price()),
		BrandTitle: brand,
		SizeTitle:  fmt.Sprintf("%d", 36+f.rand.Intn(10)),
		Status:     factoryConditions[f.rand.Intn(len(factoryConditions))],
	}
}

// EnrichedItem generates a scored item with consistent derived fields
// left for the caller to overwrite as needed.
func (f *Factory) EnrichedItem() model.EnrichedItem {
	raw := f.RawListing()
	return model.EnrichedItem{
		ID:         string(raw.ID),
		Title:      raw.Title,
		Price:      float64(raw.Price),
		Brand:      raw.BrandTitle,
		Size:       raw.SizeTitle,
		Condition:  raw.Status,
		Seller:     "N/A",
		Category:   model.CategoryOther,
		ObservedAt: f.Date(),
	}
}

// Price generates a listing price between 5 and 50 euros.
func (f *Factory) Price() float64 {
	return float64(f.rand.Intn(4500)+500) / 100
}

// Date generates an observation time within the last 30 days.
func (f *Factory) Date() time.Time {
	return time.Now().AddDate(0, 0, -f.rand.Intn(30))
}
