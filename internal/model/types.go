package model

import (
	"bytes"
	"strconv"
	"time"
)

// Category buckets a listing by what the title says it is.
type Category string

const (
	CategoryShoes       Category = "shoes"
	CategoryBags        Category = "bags"
	CategoryOuterwear   Category = "outerwear"
	CategoryTops        Category = "tops"
	CategoryBottoms     Category = "bottoms"
	CategoryAccessories Category = "accessories"
	CategoryOther       Category = "other"
)

// Amount decodes a price field that the catalog API returns either as a
// bare JSON number or as a quoted string depending on endpoint version.
// Unparsable values decode to 0 rather than failing the whole payload.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(v)
	return nil
}

// ItemID decodes a listing identifier that may arrive as a number or a
// string.
type ItemID string

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	*id = ItemID(data)
	return nil
}

// RawListing is one record from the catalog search endpoint. Produced by
// the upstream API and read-only to us; only the fields we consume are
// mapped.
type RawListing struct {
	ID         ItemID `json:"id"`
	Title      string `json:"title"`
	Price      Amount `json:"price"`
	BrandTitle string `json:"brand_title"`
	SizeTitle  string `json:"size_title"`
	Status     string `json:"status"`
	Photo      *struct {
		FullSizeURL string `json:"full_size_url"`
	} `json:"photo"`
	User *struct {
		Login                   string `json:"login"`
		AveragePositiveFeedback Amount `json:"average_positive_feedback"`
	} `json:"user"`
}

// EnrichedItem is a normalized listing plus its derived market signals.
// MarketPrice, DiscountPercent and ProfitPotential are pure functions of
// (Price, Title, Brand, Condition). An item is never mutated after
// creation; a later fetch of the same id produces a new EnrichedItem.
type EnrichedItem struct {
	ID              string
	Title           string
	Price           float64
	Brand           string
	Size            string
	Condition       string
	Seller          string
	SellerRating    float64
	ImageURL        string
	URL             string
	Category        Category
	MarketPrice     float64
	DiscountPercent float64
	ProfitPotential float64
	ObservedAt      time.Time
}
