package knowledge

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type overlay struct {
	Locations     []LocationEntry `yaml:"locations"`
	TruckClasses  []TruckClass    `yaml:"truck_classes"`
	ProductCompat []ProductCompat `yaml:"product_compat"`
	RateBands     []RateBand      `yaml:"rate_bands"`
}

// Load builds a Base from the built-in defaults overlaid with a user-supplied
// YAML vocabulary file. Entries sharing a canonical name replace the default;
// new entries append after it, preserving default registration order.
func Load(path string) (*Base, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "knowledge: read %s", path)
	}

	var ov overlay
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return nil, eris.Wrapf(err, "knowledge: parse %s", path)
	}

	base := NewDefault()

	for _, loc := range ov.Locations {
		loc.Aliases = lowerAll(loc.Aliases)
		base.locations = upsertLocation(base.locations, loc)
	}
	for _, tc := range ov.TruckClasses {
		tc.Aliases = lowerAll(tc.Aliases)
		base.truckClasses = upsertTruckClass(base.truckClasses, tc)
	}
	for _, pc := range ov.ProductCompat {
		pc.Product = strings.ToLower(pc.Product)
		base.productCompat = upsertProductCompat(base.productCompat, pc)
	}
	for _, rb := range ov.RateBands {
		rb.Class = strings.ToLower(rb.Class)
		base.rateBands = upsertRateBand(base.rateBands, rb)
	}

	return base, nil
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func upsertLocation(entries []LocationEntry, e LocationEntry) []LocationEntry {
	for i := range entries {
		if strings.EqualFold(entries[i].Canonical, e.Canonical) {
			entries[i] = e
			return entries
		}
	}
	return append(entries, e)
}

func upsertTruckClass(entries []TruckClass, e TruckClass) []TruckClass {
	for i := range entries {
		if entries[i].Type == e.Type {
			entries[i] = e
			return entries
		}
	}
	return append(entries, e)
}

func upsertProductCompat(entries []ProductCompat, e ProductCompat) []ProductCompat {
	for i := range entries {
		if entries[i].Product == e.Product {
			entries[i] = e
			return entries
		}
	}
	return append(entries, e)
}

func upsertRateBand(entries []RateBand, e RateBand) []RateBand {
	for i := range entries {
		if entries[i].Class == e.Class {
			entries[i] = e
			return entries
		}
	}
	return append(entries, e)
}
