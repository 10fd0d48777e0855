package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightlink/match-cli/internal/config"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ValidateConfig(cfg))
	assert.InDelta(t, 1.0, WeightSum(cfg), 0.001)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.MatcherConfig)
		wantErr string
	}{
		{
			name:   "valid default",
			mutate: func(c *config.MatcherConfig) {},
		},
		{
			name: "negative weight",
			mutate: func(c *config.MatcherConfig) {
				c.Weights.TruckType = -0.25
			},
			wantErr: "weight truck_type must be >= 0",
		},
		{
			name: "weights do not sum to one",
			mutate: func(c *config.MatcherConfig) {
				c.Weights.Availability = 0.30
			},
			wantErr: "weights should sum to 1.0",
		},
		{
			name: "threshold out of range",
			mutate: func(c *config.MatcherConfig) {
				c.HighThreshold = 1.5
			},
			wantErr: "high_threshold must be between 0 and 1",
		},
		{
			name: "thresholds out of order",
			mutate: func(c *config.MatcherConfig) {
				c.MediumThreshold = 0.90
			},
			wantErr: "thresholds must be ordered high >= medium >= low",
		},
		{
			name: "tonnage tolerance too large",
			mutate: func(c *config.MatcherConfig) {
				c.TonnageTolerance = 1.0
			},
			wantErr: "tonnage_tolerance must be in [0, 1)",
		},
		{
			name: "negative length tolerance",
			mutate: func(c *config.MatcherConfig) {
				c.LengthToleranceFt = -1
			},
			wantErr: "length_tolerance_ft must be >= 0",
		},
		{
			name: "fuzzy threshold out of range",
			mutate: func(c *config.MatcherConfig) {
				c.FuzzyThreshold = 1.2
			},
			wantErr: "fuzzy_threshold must be between 0 and 1",
		},
		{
			name: "negative concurrency",
			mutate: func(c *config.MatcherConfig) {
				c.MaxConcurrency = -1
			},
			wantErr: "max_concurrency must be >= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateConfigCollectsAllFailures(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Tonnage = -0.20
	cfg.MaxConcurrency = -1

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight tonnage must be >= 0")
	assert.Contains(t, err.Error(), "max_concurrency must be >= 0")
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LowThreshold = -0.1

	_, err := New(nil, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestNewDefaultsKnowledgeBase(t *testing.T) {
	m, err := New(nil, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, m.kb)
}
