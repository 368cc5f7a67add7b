package analysis

import (
	"testing"
)

func TestEstimateMarketPrice_BrandTiers(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		brand    string
		price    float64
		expected float64
	}{
		{"ultra-luxury brand field", "Sac bandoulière", "Gucci", 40, 160.00},
		{"ultra-luxury in title only", "Louis Vuitton pochette", "", 100, 400.00},
		{"luxury tier", "Robe soirée", "Valentino", 50, 175.00},
		{"premium tier", "Air Max 90", "Nike", 30, 90.00},
		{"mid-tier", "T-shirt basique", "Zara", 20, 40.00},
		{"no tier defaults to 2.5", "Pull laine", "Unknown Brand", 10, 25.00},
		{"first tier wins over later", "Gucci x Adidas collab", "Gucci", 10, 40.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateMarketPrice(tt.title, tt.brand, tt.price)
			if got != tt.expected {
				t.Errorf("EstimateMarketPrice(%q, %q, %.2f) = %.2f, want %.2f",
					tt.title, tt.brand, tt.price, got, tt.expected)
			}
		})
	}
}

func TestEstimateMarketPrice_ConditionBonus(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected float64
	}{
		{"new keyword", "Gucci bag authentic new with tags", 160.80},
		{"neuf keyword", "Sac Gucci neuf", 160.80},
		{"jamais porté keyword", "Gucci jamais porté", 160.80},
		{"excellent keyword", "Gucci excellent état", 160.50},
		{"comme neuf wins mint bonus via neuf substring", "Gucci comme neuf", 160.80},
		{"no condition keyword", "Gucci sac vintage", 160.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateMarketPrice(tt.title, "Gucci", 40)
			if got != tt.expected {
				t.Errorf("EstimateMarketPrice(%q) = %.2f, want %.2f", tt.title, got, tt.expected)
			}
		})
	}
}

func TestEstimateMarketPrice_DegenerateInputs(t *testing.T) {
	// Zero price yields just the condition bonus. Accepted, not special-cased.
	if got := EstimateMarketPrice("Nike neuf", "Nike", 0); got != 0.8 {
		t.Errorf("expected zero-price estimate 0.80, got %.2f", got)
	}
	if got := EstimateMarketPrice("", "", 0); got != 0 {
		t.Errorf("expected zero estimate for empty input, got %.2f", got)
	}
}

func TestEstimateMarketPrice_Deterministic(t *testing.T) {
	first := EstimateMarketPrice("Jordan 1 retro", "Jordan", 75.50)
	for i := 0; i < 10; i++ {
		if got := EstimateMarketPrice("Jordan 1 retro", "Jordan", 75.50); got != first {
			t.Fatalf("estimate not deterministic: %.2f vs %.2f", got, first)
		}
	}
	if first < 0 {
		t.Fatalf("estimate must be non-negative, got %.2f", first)
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		brand    string
		title    string
		expected string
	}{
		{"Chanel", "", "ultra-luxury"},
		{"", "sac balenciaga", "luxury"},
		{"Supreme", "", "premium"},
		{"Uniqlo", "", "mid-tier"},
		{"Carhartt", "veste workwear", ""},
	}

	for _, tt := range tests {
		if got := TierFor(tt.title, tt.brand); got != tt.expected {
			t.Errorf("TierFor(%q, %q) = %q, want %q", tt.title, tt.brand, got, tt.expected)
		}
	}
}
