package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightlink/match-cli/internal/knowledge"
	"github.com/freightlink/match-cli/internal/model"
)

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := New(knowledge.NewDefault(), DefaultConfig())
	require.NoError(t, err)
	return m
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

func TestScoreTruckType(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		name    string
		trucker model.TruckType
		load    string
		want    float64
	}{
		{"missing trucker type", "", "Open", 0.0},
		{"empty load type neutral", model.TruckTypeOpen, "", 0.5},
		{"exact containment", model.TruckTypeOpen, "Open", 1.0},
		{"load contains trucker", model.TruckTypeOpen, "Open Truck", 1.0},
		{"compat incompatible", model.TruckTypeContainer, "open truck needed", 0.1},
		{"unrelated type floors", model.TruckTypeOpen, "Refrigerated Van", 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.scoreTruckType(tt.trucker, tt.load)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}
}

func TestScoreTruckTypeCompatTable(t *testing.T) {
	m := newTestMatcher(t)

	// "goods vehicle" is not a substring of "open" in either direction and
	// sits below the fuzzy threshold, so the compatibility table decides.
	got := m.scoreTruckType(model.TruckTypeOpen, "goods vehicle")
	assert.InDelta(t, 0.9, got, 0.01)

	// Container against an incompatible open-truck description.
	got = m.scoreTruckType(model.TruckTypeContainer, "open truck wanted")
	assert.InDelta(t, 0.1, got, 0.01)
}

func TestScoreTonnage(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		name     string
		capacity *float64
		load     string
		want     float64
	}{
		{"missing capacity", nil, "20 tons", 0.5},
		{"missing load tonnage", ptrFloat64(15), "", 0.5},
		{"dash means unspecified", ptrFloat64(15), "-", 0.5},
		{"unparsable", ptrFloat64(15), "heavy", 0.5},
		{"exact", ptrFloat64(20), "20 tons", 1.0},
		{"within tolerance over", ptrFloat64(23), "20", 1.0},
		{"too much capacity", ptrFloat64(30), "20 tons", 0.7},
		{"slightly under", ptrFloat64(17), "20 mt", 0.6},
		{"far under", ptrFloat64(8), "25 tons", 0.1},
		{"unit variants", ptrFloat64(7.5), "7.5mt", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.scoreTonnage(tt.capacity, tt.load)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}
}

func TestScoreLength(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		name   string
		length *int
		load   string
		want   float64
	}{
		{"missing length", nil, "32 ft", 0.7},
		{"unparsable load", ptrInt(25), "long", 0.7},
		{"exact", ptrInt(32), "32 ft", 1.0},
		{"within two feet", ptrInt(30), "32 feet", 0.9},
		{"longer within five", ptrInt(36), "32", 0.8},
		{"much longer", ptrInt(40), "32 ft", 0.6},
		{"much shorter", ptrInt(20), "32 ft", 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.scoreLength(tt.length, tt.load)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}
}

func TestScoreLocation(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		name    string
		routes  []string
		loc     string
		wantMin float64
		wantMax float64
	}{
		{"no routes neutral", nil, "Chennai", 0.4, 0.4},
		{"empty location neutral", []string{"Chennai"}, "", 0.4, 0.4},
		{"direct hit", []string{"Tumakuru", "Madurai"}, "Madurai", 1.0, 1.0},
		{"substring hit", []string{"Greater Chennai"}, "Chennai", 1.0, 1.0},
		{"fuzzy close", []string{"Tumakuru"}, "Tumkur", 0.5, 0.99},
		{"off route", []string{"Delhi"}, "Kochi", 0.0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.scoreLocation(tt.routes, tt.loc)
			assert.GreaterOrEqual(t, got, tt.wantMin)
			assert.LessOrEqual(t, got, tt.wantMax)
		})
	}
}

func TestScoreProduct(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		name    string
		trucker model.TruckType
		product string
		want    float64
	}{
		{"unknown trucker type", "", "Ashirwad Pipes", 0.6},
		{"unknown product", model.TruckTypeOpen, "Steel Coils", 0.6},
		{"preferred", model.TruckTypeOpen, "Ashirwad Pipes", 1.0},
		{"acceptable", model.TruckTypeContainer, "Cotton Boxes", 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.scoreProduct(tt.trucker, tt.product)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}
}

func TestScoreAvailability(t *testing.T) {
	m := newTestMatcher(t)

	base := &model.ExtractedEntities{AvailableImmediately: true}

	// Default soft positive.
	got := m.scoreAvailability(base, &model.Load{ETA: "3 days"})
	assert.InDelta(t, 0.8, got, 0.01)

	// Immediate availability against a same-day load.
	got = m.scoreAvailability(base, &model.Load{ETA: "same day pickup"})
	assert.InDelta(t, 1.0, got, 0.01)

	// Weekday collision halves the score.
	constrained := &model.ExtractedEntities{
		AvailableImmediately:    true,
		AvailabilityConstraints: []string{"not on sunday"},
	}
	got = m.scoreAvailability(constrained, &model.Load{ETA: "sunday loading"})
	assert.InDelta(t, 0.4, got, 0.01)
}

func TestParseTonnageText(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   float64
		wantOK bool
	}{
		{"plain", "25", 25, true},
		{"tons suffix", "25 tons", 25, true},
		{"mt suffix", "7.5mt", 7.5, true},
		{"tonnes suffix", "8 tonnes", 8, true},
		{"dash", "-", 0, false},
		{"empty", "", 0, false},
		{"garbage", "heavy stuff", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTonnageText(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestParseLengthText(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   int
		wantOK bool
	}{
		{"plain", "32", 32, true},
		{"ft suffix", "32 ft", 32, true},
		{"feet suffix", "20 feet", 20, true},
		{"dash", "-", 0, false},
		{"garbage", "very long", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseLengthText(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
