package extract

import (
	"strconv"
	"strings"

	"github.com/freightlink/match-cli/internal/fuzzy"
	"github.com/freightlink/match-cli/internal/model"
)

// matchTruckType scans role text for a truck category. An exact alias
// substring wins immediately; otherwise the best approximate alias above the
// fuzzy threshold is taken, ties resolving to the first-registered category.
func (e *Extractor) matchTruckType(text string) (model.TruckType, bool) {
	lower := strings.ToLower(text)

	if tt, ok := e.kb.NormalizeTruckType(lower); ok {
		return model.TruckType(tt), true
	}

	var (
		best     float64
		bestType model.TruckType
	)
	for _, tc := range e.kb.TruckClasses() {
		for _, alias := range tc.Aliases {
			score := fuzzy.PartialRatio(alias, lower)
			if score >= e.cfg.FuzzyThreshold && score > best {
				best = score
				bestType = model.TruckType(tc.Type)
			}
		}
	}
	if bestType != "" {
		return bestType, true
	}
	return "", false
}

// extractTonnage returns the first numeric literal followed by a tonnage unit.
func extractTonnage(text string) *float64 {
	m := tonnageRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

// extractLength returns the first integer literal followed by a length unit.
func extractLength(text string) *int {
	m := lengthRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &v
}

// extractPrice returns the first price-shaped number. The currency/rate cue
// family takes precedence over the quote cue family; within a family the
// earliest occurrence wins.
func extractPrice(text string) *float64 {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		m = quotedPriceRe.FindStringSubmatch(text)
	}
	if m == nil {
		return nil
	}
	raw := strings.ReplaceAll(m[1], ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// extractRoute recovers origin and destination. A single-shot "from X to Y"
// wins; otherwise phrases after direction cue words are collected and
// normalized, the first two distinct names becoming origin and destination.
// A lone name is assigned by whichever directional cue appears in the text,
// "from" winning when both do.
func (e *Extractor) extractRoute(text string) (from, to string) {
	if m := fromToRe.FindStringSubmatch(text); m != nil {
		return e.kb.NormalizeLocation(m[1]), e.kb.NormalizeLocation(m[2])
	}

	var names []string
	seen := map[string]bool{}
	for _, m := range locationCueRe.FindAllStringSubmatch(text, -1) {
		raw := strings.TrimSpace(m[1])
		if raw == "" {
			continue
		}
		name := e.kb.NormalizeLocation(raw)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	switch {
	case len(names) >= 2:
		return names[0], names[1]
	case len(names) == 1:
		lower := strings.ToLower(text)
		if strings.Contains(lower, "from") {
			return names[0], ""
		}
		if strings.Contains(lower, "to") {
			return "", names[0]
		}
	}
	return "", ""
}
