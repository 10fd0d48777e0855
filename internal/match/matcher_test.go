package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightlink/match-cli/internal/model"
)

func openTruckEntities() *model.ExtractedEntities {
	return &model.ExtractedEntities{
		TruckType:            model.TruckTypeOpen,
		TruckLength:          ptrInt(25),
		Tonnage:              ptrFloat64(15),
		PreferredRoutes:      []string{"Tumakuru", "Madurai"},
		AvailableImmediately: true,
		ExpectedRate:         ptrFloat64(23000),
	}
}

func agricultureLoad() *model.Load {
	return &model.Load{
		ID:           "L003",
		FromLocation: "Tumakuru",
		ToLocation:   "Madurai",
		TruckType:    "Open",
		TruckLength:  "25",
		Tonnage:      "15",
		Product:      "Agriculture",
		Price:        ptrFloat64(22000),
		ETA:          "3 days",
		Status:       model.LoadStatusAvailable,
	}
}

func TestScoreStrongMatch(t *testing.T) {
	m := newTestMatcher(t)

	result := m.Score(openTruckEntities(), agricultureLoad())

	assert.Equal(t, "L003", result.LoadID)
	assert.InDelta(t, 0.95, result.OverallScore, 0.001)
	assert.True(t, result.MandatoryMatch)
	assert.Equal(t, model.RecommendationAutoApprove, result.Recommendation)

	assert.InDelta(t, 1.0, result.DetailedScores["truck_type"], 0.001)
	assert.InDelta(t, 1.0, result.DetailedScores["tonnage"], 0.001)
	assert.InDelta(t, 1.0, result.DetailedScores["route_from"], 0.001)
	assert.InDelta(t, 1.0, result.DetailedScores["route_to"], 0.001)
	assert.InDelta(t, 0.6, result.DetailedScores["product"], 0.001)
	assert.InDelta(t, 0.8, result.DetailedScores["availability"], 0.001)

	// Criteria above 0.8 become reasons, in fixed criterion order.
	assert.Equal(t, []string{
		reasonTexts["truck_type"],
		reasonTexts["tonnage"],
		reasonTexts["length"],
		reasonTexts["route_from"],
		reasonTexts["route_to"],
	}, result.MatchReasons)
	assert.Empty(t, result.MismatchReasons)

	require.NotNil(t, result.PriceGap)
	assert.InDelta(t, 1000, *result.PriceGap, 0.001)
	assert.InDelta(t, 0.9, result.NegotiationLikelihood, 0.001)
}

func TestScoreMandatoryAdvisory(t *testing.T) {
	m := newTestMatcher(t)

	// A container truck misses the truck-type bar against an open load. The
	// flag is surfaced for downstream filtering; the tier still follows the
	// weighted score.
	entities := openTruckEntities()
	entities.TruckType = model.TruckTypeContainer

	result := m.Score(entities, agricultureLoad())

	assert.InDelta(t, 0.1, result.DetailedScores["truck_type"], 0.001)
	assert.False(t, result.MandatoryMatch)
	assert.Equal(t, model.RecommendationHumanReview, result.Recommendation)
	assert.Contains(t, result.MismatchReasons, mismatchTexts["truck_type"])
}

func TestScoreHighTierWithoutMandatory(t *testing.T) {
	m := newTestMatcher(t)

	// A misspelled catalogue truck type drags the truck-type criterion below
	// the mandatory bar while every other criterion is perfect. The weighted
	// total still clears the high threshold, so the tier is auto_approve.
	entities := &model.ExtractedEntities{
		TruckType:            model.TruckTypeOpen,
		TruckLength:          ptrInt(25),
		Tonnage:              ptrFloat64(10),
		PreferredRoutes:      []string{"Tumakuru", "Madurai"},
		AvailableImmediately: true,
	}
	load := &model.Load{
		ID:           "L010",
		FromLocation: "Tumakuru",
		ToLocation:   "Madurai",
		TruckType:    "opxyz",
		TruckLength:  "25",
		Tonnage:      "10",
		Product:      "Ashirwad Pipes",
		ETA:          "same day",
		Status:       model.LoadStatusAvailable,
	}

	result := m.Score(entities, load)

	assert.InDelta(t, 0.4, result.DetailedScores["truck_type"], 0.001)
	assert.False(t, result.MandatoryMatch)
	assert.GreaterOrEqual(t, result.OverallScore, 0.85)
	assert.Equal(t, model.RecommendationAutoApprove, result.Recommendation)
}

func TestRecommendationMonotoneInScore(t *testing.T) {
	m := newTestMatcher(t)

	rank := map[model.Recommendation]int{
		model.RecommendationReject:      0,
		model.RecommendationCreateLead:  1,
		model.RecommendationHumanReview: 2,
		model.RecommendationAutoApprove: 3,
	}

	prev := model.RecommendationReject
	for score := 0.0; score <= 1.0; score += 0.05 {
		rec := m.Recommend(score)
		assert.GreaterOrEqual(t, rank[rec], rank[prev], "score %.2f", score)
		prev = rec
	}
}

func TestScoreDeterministic(t *testing.T) {
	m := newTestMatcher(t)
	entities := openTruckEntities()
	load := agricultureLoad()

	first := m.Score(entities, load)
	for i := 0; i < 10; i++ {
		again := m.Score(entities, load)
		assert.Equal(t, first.OverallScore, again.OverallScore)
		assert.Equal(t, first.MatchReasons, again.MatchReasons)
		assert.Equal(t, first.Recommendation, again.Recommendation)
	}
}

func TestScoreBounds(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		name     string
		entities *model.ExtractedEntities
		load     *model.Load
	}{
		{"empty entities", &model.ExtractedEntities{}, agricultureLoad()},
		{"empty load", openTruckEntities(), &model.Load{ID: "L000"}},
		{"both empty", &model.ExtractedEntities{}, &model.Load{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := m.Score(tt.entities, tt.load)
			assert.GreaterOrEqual(t, result.OverallScore, 0.0)
			assert.LessOrEqual(t, result.OverallScore, 1.0)
			for name, s := range result.DetailedScores {
				assert.GreaterOrEqual(t, s, 0.0, name)
				assert.LessOrEqual(t, s, 1.0, name)
			}
		})
	}
}

func TestRecommend(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		name    string
		overall float64
		want    model.Recommendation
	}{
		{"high", 0.90, model.RecommendationAutoApprove},
		{"exactly high", 0.85, model.RecommendationAutoApprove},
		{"medium", 0.70, model.RecommendationHumanReview},
		{"exactly medium", 0.60, model.RecommendationHumanReview},
		{"low", 0.50, model.RecommendationCreateLead},
		{"exactly low", 0.40, model.RecommendationCreateLead},
		{"below low", 0.30, model.RecommendationReject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Recommend(tt.overall))
		})
	}
}

func TestPriceAssessment(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		name           string
		expected       *float64
		price          *float64
		wantGap        *float64
		wantLikelihood float64
	}{
		{"no expected rate", nil, ptrFloat64(20000), nil, 0.5},
		{"no load price", ptrFloat64(20000), nil, nil, 0.5},
		{"zero load price", ptrFloat64(20000), ptrFloat64(0), nil, 0.5},
		{"close rates", ptrFloat64(21000), ptrFloat64(20000), ptrFloat64(1000), 0.9},
		{"moderate gap", ptrFloat64(23000), ptrFloat64(20000), ptrFloat64(3000), 0.7},
		{"wide gap", ptrFloat64(30000), ptrFloat64(20000), ptrFloat64(10000), 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := &model.ExtractedEntities{ExpectedRate: tt.expected}
			load := &model.Load{Price: tt.price}
			gap, likelihood := m.priceAssessment(entities, load)
			if tt.wantGap == nil {
				assert.Nil(t, gap)
			} else {
				require.NotNil(t, gap)
				assert.InDelta(t, *tt.wantGap, *gap, 0.001)
			}
			assert.InDelta(t, tt.wantLikelihood, likelihood, 0.001)
		})
	}
}

func TestMatchRanksAndFilters(t *testing.T) {
	m := newTestMatcher(t)
	entities := openTruckEntities()

	strong := agricultureLoad()
	weaker := &model.Load{
		ID:           "L001",
		FromLocation: "Chennai",
		ToLocation:   "Bangalore",
		TruckType:    "Container",
		TruckLength:  "20",
		Tonnage:      "20",
		Product:      "General Cargo",
		Price:        ptrFloat64(25000),
		ETA:          "2 days",
		Status:       model.LoadStatusAvailable,
	}
	assigned := agricultureLoad()
	assigned.ID = "L999"
	assigned.Status = model.LoadStatusAssigned

	results, err := m.Match(context.Background(), entities, []*model.Load{weaker, assigned, strong})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "L003", results[0].LoadID)
	assert.Equal(t, "L001", results[1].LoadID)
	assert.Greater(t, results[0].OverallScore, results[1].OverallScore)
	for _, r := range results {
		assert.NotEqual(t, "L999", r.LoadID)
	}
}

func TestMatchStableTieOrder(t *testing.T) {
	m := newTestMatcher(t)
	entities := openTruckEntities()

	first := agricultureLoad()
	first.ID = "A"
	second := agricultureLoad()
	second.ID = "B"

	results, err := m.Match(context.Background(), entities, []*model.Load{first, second})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "A", results[0].LoadID)
	assert.Equal(t, "B", results[1].LoadID)
}

func TestMatchNilAndEmpty(t *testing.T) {
	m := newTestMatcher(t)
	entities := openTruckEntities()

	results, err := m.Match(context.Background(), entities, nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = m.Match(context.Background(), entities, []*model.Load{nil})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBest(t *testing.T) {
	m := newTestMatcher(t)
	entities := openTruckEntities()

	best, ok, err := m.Best(context.Background(), entities, []*model.Load{agricultureLoad()})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "L003", best.LoadID)

	_, ok, err = m.Best(context.Background(), entities, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSummary(t *testing.T) {
	m := newTestMatcher(t)
	result := m.Score(openTruckEntities(), agricultureLoad())

	line := Summary(result)
	assert.Contains(t, line, "L003")
	assert.Contains(t, line, "score=0.950")
	assert.Contains(t, line, "recommendation=auto_approve")
}
