// Package knowledge holds the static trucking vocabulary: location spellings,
// truck-type aliases, compatibility tables, and rate benchmarks. A Base is
// constructed once, injected into the extractor and matcher, and never mutated,
// so it is safe for concurrent read-only reuse across transcripts.
package knowledge

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LocationEntry maps a canonical place name to its spelling variants.
type LocationEntry struct {
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases"`
}

// TruckClass maps a canonical truck category to its aliases. Registration
// order is significant: alias ties resolve to the first-registered class.
type TruckClass struct {
	Type    string   `yaml:"type"`
	Aliases []string `yaml:"aliases"`
}

// Compat lists which load truck-type descriptions a canonical category can
// serve, cannot serve, or can serve at a stretch.
type Compat struct {
	Compatible   []string `yaml:"compatible"`
	Incompatible []string `yaml:"incompatible"`
	Flexible     []string `yaml:"flexible"`
}

// ProductCompat lists which truck categories suit a product.
type ProductCompat struct {
	Product    string   `yaml:"product"`
	Preferred  []string `yaml:"preferred"`
	Acceptable []string `yaml:"acceptable"`
	Avoid      []string `yaml:"avoid"`
}

// RateBand is a per-km market-rate benchmark for one truck class.
type RateBand struct {
	Class    string  `yaml:"class"`
	MinPerKm float64 `yaml:"min_per_km"`
	AvgPerKm float64 `yaml:"avg_per_km"`
	MaxPerKm float64 `yaml:"max_per_km"`
}

// RateEstimate is a benchmark-derived total-rate estimate for a route.
type RateEstimate struct {
	Estimated float64 `json:"estimated"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	PerKm     float64 `json:"per_km"`
}

// Base is the read-only knowledge base.
type Base struct {
	locations       []LocationEntry
	truckClasses    []TruckClass
	truckCompat     map[string]Compat
	productCompat   []ProductCompat
	rateBands       []RateBand
	seasonalFactors map[string]float64
}

// NormalizeLocation maps a raw place string to its canonical name. A variant
// matches when the lowercased input equals it or contains it as a substring.
// Unknown places pass through title-cased; the function is total and never
// returns an empty string for non-empty input.
func (b *Base) NormalizeLocation(raw string) string {
	clean := strings.ToLower(strings.TrimSpace(raw))
	for _, entry := range b.locations {
		for _, alias := range entry.Aliases {
			if clean == alias || strings.Contains(clean, alias) {
				return entry.Canonical
			}
		}
	}
	return cases.Title(language.English).String(strings.TrimSpace(raw))
}

// TruckClasses returns the registered truck categories in registration order.
func (b *Base) TruckClasses() []TruckClass {
	return b.truckClasses
}

// NormalizeTruckType maps a raw truck description to a canonical category by
// exact alias containment. It returns ("", false) when no alias occurs in the
// text.
func (b *Base) NormalizeTruckType(raw string) (string, bool) {
	lower := strings.ToLower(raw)
	for _, tc := range b.truckClasses {
		for _, alias := range tc.Aliases {
			if strings.Contains(lower, alias) {
				return tc.Type, true
			}
		}
	}
	return "", false
}

// TruckCompat returns the compatibility rules for a canonical truck category.
func (b *Base) TruckCompat(truckType string) (Compat, bool) {
	c, ok := b.truckCompat[truckType]
	return c, ok
}

// ProductCompatFor returns the compatibility entry whose product name occurs
// in the given product description.
func (b *Base) ProductCompatFor(product string) (ProductCompat, bool) {
	lower := strings.ToLower(product)
	for _, pc := range b.productCompat {
		if strings.Contains(lower, pc.Product) {
			return pc, true
		}
	}
	return ProductCompat{}, false
}

// EstimateRate returns a market-rate estimate for a truck class over a route
// distance, scaled by the named seasonal factor ("normal" when unknown).
// It returns false when no rate band mentions the truck class.
func (b *Base) EstimateRate(truckClass string, distanceKm float64, season string) (RateEstimate, bool) {
	factor, ok := b.seasonalFactors[season]
	if !ok {
		factor = 1.0
	}
	lower := strings.ToLower(truckClass)
	for _, band := range b.rateBands {
		if !strings.Contains(band.Class, lower) {
			continue
		}
		return RateEstimate{
			Estimated: band.AvgPerKm * distanceKm * factor,
			Min:       band.MinPerKm * distanceKm * factor,
			Max:       band.MaxPerKm * distanceKm * factor,
			PerKm:     band.AvgPerKm * factor,
		}, true
	}
	return RateEstimate{}, false
}
