package match

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/freightlink/match-cli/internal/config"
	"github.com/freightlink/match-cli/internal/knowledge"
	"github.com/freightlink/match-cli/internal/model"
)

// criterionOrder fixes the evaluation order so score aggregation and
// explanation output are deterministic.
var criterionOrder = []string{
	"truck_type",
	"tonnage",
	"length",
	"route_from",
	"route_to",
	"product",
	"availability",
}

// reasonTexts describes each criterion when it scores high.
var reasonTexts = map[string]string{
	"truck_type":   "truck type matches the load requirement",
	"tonnage":      "truck capacity suits the load tonnage",
	"length":       "truck length fits the load",
	"route_from":   "origin lies on the trucker's preferred routes",
	"route_to":     "destination lies on the trucker's preferred routes",
	"product":      "product is well suited to this truck",
	"availability": "availability lines up with the load ETA",
}

// mismatchTexts describes each criterion when it scores low.
var mismatchTexts = map[string]string{
	"truck_type":   "truck type does not suit the load",
	"tonnage":      "truck capacity is a poor fit for the load tonnage",
	"length":       "truck length is a poor fit for the load",
	"route_from":   "origin is off the trucker's preferred routes",
	"route_to":     "destination is off the trucker's preferred routes",
	"product":      "product is a poor fit for this truck",
	"availability": "availability conflicts with the load ETA",
}

// Matcher scores extracted entity records against catalogue loads.
type Matcher struct {
	kb  *knowledge.Base
	cfg config.MatcherConfig
}

// New builds a Matcher. The config is validated up front; an invalid config
// is the caller's bug, not a per-load condition, so it fails construction.
func New(kb *knowledge.Base, cfg config.MatcherConfig) (*Matcher, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if kb == nil {
		kb = knowledge.NewDefault()
	}
	return &Matcher{kb: kb, cfg: cfg}, nil
}

// Score evaluates one load against the extracted entities and returns the
// full per-criterion breakdown. It never fails: missing data degrades to
// neutral scores instead.
func (m *Matcher) Score(entities *model.ExtractedEntities, load *model.Load) model.MatchResult {
	scores := map[string]float64{
		"truck_type":   m.scoreTruckType(entities.TruckType, load.TruckType),
		"tonnage":      m.scoreTonnage(entities.Tonnage, load.Tonnage),
		"length":       m.scoreLength(entities.TruckLength, load.TruckLength),
		"route_from":   m.scoreLocation(entities.PreferredRoutes, load.FromLocation),
		"route_to":     m.scoreLocation(entities.PreferredRoutes, load.ToLocation),
		"product":      m.scoreProduct(entities.TruckType, load.Product),
		"availability": m.scoreAvailability(entities, load),
	}

	weights := map[string]float64{
		"truck_type":   m.cfg.Weights.TruckType,
		"tonnage":      m.cfg.Weights.Tonnage,
		"length":       m.cfg.Weights.Length,
		"route_from":   m.cfg.Weights.RouteFrom,
		"route_to":     m.cfg.Weights.RouteTo,
		"product":      m.cfg.Weights.Product,
		"availability": m.cfg.Weights.Availability,
	}

	var overall float64
	for _, name := range criterionOrder {
		overall += scores[name] * weights[name]
	}

	// MandatoryMatch is advisory: downstream filters may act on it, but the
	// recommendation tier follows the weighted score alone.
	mandatory := scores["truck_type"] >= 0.5 && scores["tonnage"] >= 0.5

	result := model.MatchResult{
		LoadID:         load.ID,
		OverallScore:   overall,
		DetailedScores: scores,
		MandatoryMatch: mandatory,
		Recommendation: m.Recommend(overall),
	}

	for _, name := range criterionOrder {
		switch {
		case scores[name] > 0.8:
			result.MatchReasons = append(result.MatchReasons, reasonTexts[name])
		case scores[name] < 0.3:
			result.MismatchReasons = append(result.MismatchReasons, mismatchTexts[name])
		}
	}

	result.PriceGap, result.NegotiationLikelihood = m.priceAssessment(entities, load)
	return result
}

// Match scores every matchable load in catalogue order and returns the
// ranked results. Zero-score results are dropped. Ties keep catalogue order.
func (m *Matcher) Match(ctx context.Context, entities *model.ExtractedEntities, loads []*model.Load) ([]model.MatchResult, error) {
	candidates := make([]*model.Load, 0, len(loads))
	for _, l := range loads {
		if l != nil && l.Matchable() {
			candidates = append(candidates, l)
		}
	}

	scored := make([]model.MatchResult, len(candidates))
	g, ctx := errgroup.WithContext(ctx)
	limit := m.cfg.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, load := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return eris.Wrap(err, "match: scoring cancelled")
			}
			scored[i] = m.Score(entities, load)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]model.MatchResult, 0, len(scored))
	for _, r := range scored {
		if r.OverallScore > 0 {
			results = append(results, r)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].OverallScore > results[j].OverallScore
	})

	zap.L().Debug("scored loads",
		zap.Int("candidates", len(candidates)),
		zap.Int("ranked", len(results)))
	return results, nil
}

// Best returns the top-ranked result, or false when nothing matched.
func (m *Matcher) Best(ctx context.Context, entities *model.ExtractedEntities, loads []*model.Load) (model.MatchResult, bool, error) {
	results, err := m.Match(ctx, entities, loads)
	if err != nil || len(results) == 0 {
		return model.MatchResult{}, false, err
	}
	return results[0], true, nil
}

// Recommend maps a weighted score onto an action tier. Monotone in the
// score: a higher score never lands a worse tier.
func (m *Matcher) Recommend(overall float64) model.Recommendation {
	switch {
	case overall >= m.cfg.HighThreshold:
		return model.RecommendationAutoApprove
	case overall >= m.cfg.MediumThreshold:
		return model.RecommendationHumanReview
	case overall >= m.cfg.LowThreshold:
		return model.RecommendationCreateLead
	default:
		return model.RecommendationReject
	}
}

// priceAssessment compares the trucker's expected rate against the load
// price. Without both numbers the likelihood is a neutral 0.5 and the gap
// stays unset.
func (m *Matcher) priceAssessment(entities *model.ExtractedEntities, load *model.Load) (*float64, float64) {
	if entities.ExpectedRate == nil || load.Price == nil || *load.Price <= 0 {
		return nil, 0.5
	}
	gap := math.Abs(*entities.ExpectedRate - *load.Price)
	pct := gap / *load.Price
	likelihood := 0.3
	switch {
	case pct < 0.1:
		likelihood = 0.9
	case pct < 0.2:
		likelihood = 0.7
	}
	return &gap, likelihood
}

// String renders a short one-line summary for logs and CLI output.
func Summary(r model.MatchResult) string {
	return fmt.Sprintf("%s score=%.3f mandatory=%t recommendation=%s",
		r.LoadID, r.OverallScore, r.MandatoryMatch, r.Recommendation)
}
