// ABOUTME: Tests for place payload derivation helpers
// ABOUTME: Covers postal code extraction, price level ordinal, and fallbacks
package models

import "testing"

func TestPostalCode(t *testing.T) {
	p := Place{
		AddressComponents: []AddressComponent{
			{LongText: "Invalidenstraße", ShortText: "Invalidenstr.", Types: []string{"route"}},
			{ShortText: "10115", Types: []string{"postal_code"}},
			{LongText: "Berlin", Types: []string{"locality", "political"}},
		},
	}

	code := p.PostalCode()
	if code == nil {
		t.Fatal("PostalCode() = nil, want 10115")
	}
	if *code != "10115" {
		t.Errorf("PostalCode() = %q, want %q", *code, "10115")
	}
}

func TestPostalCodePrefersLongText(t *testing.T) {
	p := Place{
		AddressComponents: []AddressComponent{
			{LongText: "10115", ShortText: "101", Types: []string{"postal_code"}},
		},
	}

	code := p.PostalCode()
	if code == nil || *code != "10115" {
		t.Errorf("PostalCode() = %v, want 10115", code)
	}
}

func TestPostalCodeAbsent(t *testing.T) {
	p := Place{
		AddressComponents: []AddressComponent{
			{LongText: "Berlin", Types: []string{"locality"}},
		},
	}

	if code := p.PostalCode(); code != nil {
		t.Errorf("PostalCode() = %q, want nil", *code)
	}

	// No components at all must not panic either.
	if code := (Place{}).PostalCode(); code != nil {
		t.Errorf("PostalCode() on empty place = %q, want nil", *code)
	}
}

func TestPriceLevelOrdinal(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  int
	}{
		{"three euros", "$€€€", 3},
		{"one euro", "€", 1},
		{"no symbols", "PRICE_LEVEL_MODERATE", 0},
		{"after last dollar", "$$€€", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Place{PriceLevel: tt.level}
			got := p.PriceLevelOrdinal()
			if got == nil {
				t.Fatalf("PriceLevelOrdinal() = nil, want %d", tt.want)
			}
			if *got != tt.want {
				t.Errorf("PriceLevelOrdinal() = %d, want %d", *got, tt.want)
			}
		})
	}
}

func TestPriceLevelOrdinalAbsent(t *testing.T) {
	if got := (Place{}).PriceLevelOrdinal(); got != nil {
		t.Errorf("PriceLevelOrdinal() = %d, want nil", *got)
	}
}

func TestCityQueryName(t *testing.T) {
	c := City{Name: "Frankfurt am Main", SimplifiedName: "Frankfurt"}
	if got := c.QueryName(); got != "Frankfurt" {
		t.Errorf("QueryName() = %q, want %q", got, "Frankfurt")
	}

	c.SimplifiedName = ""
	if got := c.QueryName(); got != "Frankfurt am Main" {
		t.Errorf("QueryName() = %q, want %q", got, "Frankfurt am Main")
	}
}

func TestDisplayNameAndSummaryFallbacks(t *testing.T) {
	p := Place{}
	if got := p.DisplayNameText(); got != "" {
		t.Errorf("DisplayNameText() = %q, want empty", got)
	}
	if got := p.EditorialSummaryText(); got != "" {
		t.Errorf("EditorialSummaryText() = %q, want empty", got)
	}
	if got := p.PrimaryType(); got != "" {
		t.Errorf("PrimaryType() = %q, want empty", got)
	}

	p = Place{
		DisplayName:      &LocalizedText{Text: "Bäckerei Schmidt"},
		EditorialSummary: &LocalizedText{Text: "Traditionsbäckerei"},
		Types:            []string{"bakery", "food"},
	}
	if got := p.DisplayNameText(); got != "Bäckerei Schmidt" {
		t.Errorf("DisplayNameText() = %q, want Bäckerei Schmidt", got)
	}
	if got := p.PrimaryType(); got != "bakery" {
		t.Errorf("PrimaryType() = %q, want bakery", got)
	}
}
