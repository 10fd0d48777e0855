package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Extractor ExtractorConfig `yaml:"extractor" mapstructure:"extractor"`
	Matcher   MatcherConfig   `yaml:"matcher" mapstructure:"matcher"`
	Knowledge KnowledgeConfig `yaml:"knowledge" mapstructure:"knowledge"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int     `yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ExtractorConfig configures the entity extraction stage.
type ExtractorConfig struct {
	// FuzzyThreshold is the minimum normalized similarity for accepting a
	// misspelled truck-type alias.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
}

// KnowledgeConfig configures the vocabulary knowledge base.
type KnowledgeConfig struct {
	// VocabPath optionally points to a YAML overlay merged over the
	// built-in vocabulary.
	VocabPath string `yaml:"vocab_path" mapstructure:"vocab_path"`
}

// MatchWeights are the per-criterion weights of the load matcher. They are
// business parameters and must sum to 1.0.
type MatchWeights struct {
	TruckType    float64 `yaml:"truck_type" mapstructure:"truck_type"`
	Tonnage      float64 `yaml:"tonnage" mapstructure:"tonnage"`
	Length       float64 `yaml:"length" mapstructure:"length"`
	RouteFrom    float64 `yaml:"route_from" mapstructure:"route_from"`
	RouteTo      float64 `yaml:"route_to" mapstructure:"route_to"`
	Product      float64 `yaml:"product" mapstructure:"product"`
	Availability float64 `yaml:"availability" mapstructure:"availability"`
}

// MatcherConfig configures load matching.
type MatcherConfig struct {
	Weights MatchWeights `yaml:"weights" mapstructure:"weights"`

	// Recommendation tier boundaries on overall score.
	HighThreshold   float64 `yaml:"high_threshold" mapstructure:"high_threshold"`
	MediumThreshold float64 `yaml:"medium_threshold" mapstructure:"medium_threshold"`
	LowThreshold    float64 `yaml:"low_threshold" mapstructure:"low_threshold"`

	// TonnageTolerance is the accepted relative overshoot/undershoot (0.2 = 20%).
	TonnageTolerance float64 `yaml:"tonnage_tolerance" mapstructure:"tonnage_tolerance"`
	// LengthToleranceFt is the accepted absolute length difference in feet.
	LengthToleranceFt int `yaml:"length_tolerance_ft" mapstructure:"length_tolerance_ft"`
	// FuzzyThreshold is the minimum similarity for a fuzzy truck-type accept.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`

	// MaxConcurrency bounds parallel load scoring. Zero means serial.
	MaxConcurrency int `yaml:"max_concurrency" mapstructure:"max_concurrency"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "match.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 10)
	v.SetDefault("server.rate_limit_burst", 20)
	v.SetDefault("extractor.fuzzy_threshold", 0.85)
	v.SetDefault("matcher.weights.truck_type", 0.25)
	v.SetDefault("matcher.weights.tonnage", 0.20)
	v.SetDefault("matcher.weights.length", 0.15)
	v.SetDefault("matcher.weights.route_from", 0.15)
	v.SetDefault("matcher.weights.route_to", 0.10)
	v.SetDefault("matcher.weights.product", 0.10)
	v.SetDefault("matcher.weights.availability", 0.05)
	v.SetDefault("matcher.high_threshold", 0.85)
	v.SetDefault("matcher.medium_threshold", 0.60)
	v.SetDefault("matcher.low_threshold", 0.40)
	v.SetDefault("matcher.tonnage_tolerance", 0.2)
	v.SetDefault("matcher.length_tolerance_ft", 2)
	v.SetDefault("matcher.fuzzy_threshold", 0.8)
	v.SetDefault("matcher.max_concurrency", 8)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
