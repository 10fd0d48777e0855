package match

import (
	"strconv"
	"strings"

	"github.com/freightlink/match-cli/internal/fuzzy"
	"github.com/freightlink/match-cli/internal/model"
)

var weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// scoreTruckType compares the trucker's canonical type against the load's
// truck-type text. Exact containment wins outright, then a strong fuzzy
// match, then the compatibility table, with a fuzzy floor of 0.3.
func (m *Matcher) scoreTruckType(truckerType model.TruckType, loadType string) float64 {
	if truckerType == "" {
		return 0.0
	}
	trucker := strings.ToLower(string(truckerType))
	load := strings.ToLower(strings.TrimSpace(loadType))
	if load == "" {
		return 0.5
	}

	if strings.Contains(load, trucker) || strings.Contains(trucker, load) {
		return 1.0
	}

	sim := fuzzy.Ratio(trucker, load)
	if sim > m.cfg.FuzzyThreshold {
		return sim
	}

	if compat, ok := m.kb.TruckCompat(trucker); ok {
		for _, c := range compat.Compatible {
			if strings.Contains(load, c) {
				return 0.9
			}
		}
		for _, c := range compat.Incompatible {
			if strings.Contains(load, c) {
				return 0.1
			}
		}
		for _, c := range compat.Flexible {
			if strings.Contains(load, c) {
				return 0.6
			}
		}
	}

	if sim < 0.3 {
		return 0.3
	}
	return sim
}

// scoreTonnage checks whether the truck capacity covers the load tonnage.
// Either side missing or unparsable is neutral.
func (m *Matcher) scoreTonnage(capacity *float64, loadTonnage string) float64 {
	if capacity == nil {
		return 0.5
	}
	need, ok := parseTonnageText(loadTonnage)
	if !ok || need <= 0 {
		return 0.5
	}

	tol := m.cfg.TonnageTolerance
	if *capacity >= need {
		if *capacity <= need*(1+tol) {
			return 1.0
		}
		return 0.7
	}
	if *capacity/need >= 1-tol {
		return 0.6
	}
	return 0.1
}

// scoreLength checks truck length against the load requirement in feet.
func (m *Matcher) scoreLength(length *int, loadLength string) float64 {
	if length == nil {
		return 0.7
	}
	need, ok := parseLengthText(loadLength)
	if !ok {
		return 0.7
	}

	have := *length
	if have == need {
		return 1.0
	}
	diff := have - need
	if diff < 0 {
		diff = -diff
	}
	if diff <= m.cfg.LengthToleranceFt {
		return 0.9
	}
	if have > need {
		if diff <= 5 {
			return 0.8
		}
		return 0.6
	}
	if diff <= 2 {
		return 0.5
	}
	return 0.2
}

// scoreLocation checks whether a load endpoint lies on the trucker's
// preferred routes. No stated routes is mildly neutral.
func (m *Matcher) scoreLocation(routes []string, loc string) float64 {
	if len(routes) == 0 {
		return 0.4
	}
	lower := strings.ToLower(strings.TrimSpace(loc))
	if lower == "" {
		return 0.4
	}

	for _, r := range routes {
		route := strings.ToLower(r)
		if strings.Contains(route, lower) || strings.Contains(lower, route) {
			return 1.0
		}
	}
	_, best := fuzzy.BestMatch(lower, routes)
	return best
}

// scoreProduct consults the product compatibility table. Unknown products
// and unknown truck types both read as mildly positive.
func (m *Matcher) scoreProduct(truckerType model.TruckType, product string) float64 {
	if truckerType == "" {
		return 0.6
	}
	pc, ok := m.kb.ProductCompatFor(product)
	if !ok {
		return 0.6
	}

	trucker := strings.ToLower(string(truckerType))
	for _, p := range pc.Preferred {
		if strings.Contains(trucker, p) {
			return 1.0
		}
	}
	for _, p := range pc.Acceptable {
		if strings.Contains(trucker, p) {
			return 0.7
		}
	}
	for _, p := range pc.Avoid {
		if strings.Contains(trucker, p) {
			return 0.2
		}
	}
	return 0.6
}

// scoreAvailability starts from a soft positive and adjusts on the load ETA:
// immediate availability against a same-day load is a perfect fit, and each
// weekday named in both a constraint and the ETA halves the score.
func (m *Matcher) scoreAvailability(entities *model.ExtractedEntities, load *model.Load) float64 {
	score := 0.8
	eta := strings.ToLower(load.ETA)

	if entities.AvailableImmediately && strings.Contains(eta, "same day") {
		score = 1.0
	}

	for _, constraint := range entities.AvailabilityConstraints {
		c := strings.ToLower(constraint)
		for _, day := range weekdays {
			if strings.Contains(c, day) && strings.Contains(eta, day) {
				score *= 0.5
				break
			}
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// parseTonnageText pulls a numeric tonnage out of catalogue text such as
// "25 tons" or "7.5 mt". Dashes and empty cells mean unspecified.
func parseTonnageText(s string) (float64, bool) {
	clean := strings.ToLower(strings.TrimSpace(s))
	if clean == "" || clean == "-" {
		return 0, false
	}
	for _, unit := range []string{"tonnes", "tons", "ton", "mt"} {
		clean = strings.ReplaceAll(clean, unit, "")
	}
	clean = strings.TrimSpace(clean)
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseLengthText pulls a length in feet out of catalogue text such as
// "32 ft" or "20 feet".
func parseLengthText(s string) (int, bool) {
	clean := strings.ToLower(strings.TrimSpace(s))
	if clean == "" || clean == "-" {
		return 0, false
	}
	for _, unit := range []string{"feet", "ft", "foot"} {
		clean = strings.ReplaceAll(clean, unit, "")
	}
	clean = strings.TrimSpace(clean)
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return int(v), true
}
