// Package match scores entity records against a load catalogue and ranks the
// results with explanations.
package match

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/freightlink/match-cli/internal/config"
)

// DefaultConfig returns a config.MatcherConfig with the standard business
// parameters. Weights sum to 1.0.
func DefaultConfig() config.MatcherConfig {
	return config.MatcherConfig{
		Weights: config.MatchWeights{
			TruckType:    0.25,
			Tonnage:      0.20,
			Length:       0.15,
			RouteFrom:    0.15,
			RouteTo:      0.10,
			Product:      0.10,
			Availability: 0.05,
		},
		HighThreshold:     0.85,
		MediumThreshold:   0.60,
		LowThreshold:      0.40,
		TonnageTolerance:  0.2,
		LengthToleranceFt: 2,
		FuzzyThreshold:    0.8,
		MaxConcurrency:    8,
	}
}

// WeightSum returns the sum of all criterion weights.
func WeightSum(c config.MatcherConfig) float64 {
	w := c.Weights
	return w.TruckType + w.Tonnage + w.Length + w.RouteFrom + w.RouteTo + w.Product + w.Availability
}

// ValidateConfig checks that a MatcherConfig is internally consistent.
// Invalid weights are programmer error and the only fatal failure class in
// the matcher.
func ValidateConfig(c config.MatcherConfig) error {
	var errs []string

	weights := map[string]float64{
		"truck_type":   c.Weights.TruckType,
		"tonnage":      c.Weights.Tonnage,
		"length":       c.Weights.Length,
		"route_from":   c.Weights.RouteFrom,
		"route_to":     c.Weights.RouteTo,
		"product":      c.Weights.Product,
		"availability": c.Weights.Availability,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("weight %s must be >= 0", name))
		}
	}

	sum := WeightSum(c)
	if sum <= 0 {
		errs = append(errs, "weight sum must be > 0")
	}
	if math.Abs(sum-1.0) > 0.01 {
		errs = append(errs, fmt.Sprintf("weights should sum to 1.0, got %.3f", sum))
	}

	for name, th := range map[string]float64{
		"high_threshold":   c.HighThreshold,
		"medium_threshold": c.MediumThreshold,
		"low_threshold":    c.LowThreshold,
	} {
		if th < 0 || th > 1 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 1", name))
		}
	}
	if c.HighThreshold < c.MediumThreshold || c.MediumThreshold < c.LowThreshold {
		errs = append(errs, "thresholds must be ordered high >= medium >= low")
	}

	if c.TonnageTolerance < 0 || c.TonnageTolerance >= 1 {
		errs = append(errs, "tonnage_tolerance must be in [0, 1)")
	}
	if c.LengthToleranceFt < 0 {
		errs = append(errs, "length_tolerance_ft must be >= 0")
	}
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 1 {
		errs = append(errs, "fuzzy_threshold must be between 0 and 1")
	}
	if c.MaxConcurrency < 0 {
		errs = append(errs, "max_concurrency must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("match: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
