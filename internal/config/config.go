// Package config provides configuration loading and validation for the scorer.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. RESUME_SCORER_SCORING_BLEND_RATIO.
const EnvPrefix = "RESUME_SCORER"

// Config is the full runtime configuration. All fields have defaults; see Default.
type Config struct {
	Log         LogConfig     `mapstructure:"log" json:"log"`
	Scoring     ScoringConfig `mapstructure:"scoring" json:"scoring"`
	KB          KBConfig      `mapstructure:"kb" json:"kb"`
	ML          MLConfig      `mapstructure:"ml" json:"ml"`
	Gemini      GeminiConfig  `mapstructure:"gemini" json:"gemini"`
	DatabaseURL string        `mapstructure:"database_url" json:"database_url,omitempty"`
	Server      ServerConfig  `mapstructure:"server" json:"server"`
}

// LogConfig selects the zap encoder and level.
type LogConfig struct {
	JSON  bool `mapstructure:"json" json:"json"`
	Debug bool `mapstructure:"debug" json:"debug"`
}

// ScoringConfig tunes the analysis, matcher and fusion stages.
type ScoringConfig struct {
	BlendRatio        float64 `mapstructure:"blend_ratio" json:"blend_ratio"`
	FuzzyThreshold    float64 `mapstructure:"fuzzy_threshold" json:"fuzzy_threshold"`
	KBThreshold       float64 `mapstructure:"kb_threshold" json:"kb_threshold"`
	SemanticWindow    int     `mapstructure:"semantic_window" json:"semantic_window"`
	MaxParallelChecks int     `mapstructure:"max_parallel_checks" json:"max_parallel_checks"`
}

// KBConfig points at the JSONL knowledge base.
type KBConfig struct {
	Path  string `mapstructure:"path" json:"path,omitempty"`
	Model string `mapstructure:"model" json:"model,omitempty"`
}

// MLConfig enables the optional ranker and cross-encoder.
type MLConfig struct {
	RankerPath      string `mapstructure:"ranker_path" json:"ranker_path,omitempty"`
	UseCrossEncoder bool   `mapstructure:"use_cross_encoder" json:"use_cross_encoder"`
}

// GeminiConfig holds credentials and model names for the Gemini API.
type GeminiConfig struct {
	APIKey         string `mapstructure:"api_key" json:"-"`
	EmbeddingModel string `mapstructure:"embedding_model" json:"embedding_model,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port      int             `mapstructure:"port" json:"port"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig configures the per-IP token buckets.
type RateLimitConfig struct {
	Enabled   bool          `mapstructure:"enabled" json:"enabled"`
	Limit     int           `mapstructure:"limit" json:"limit"`
	Window    time.Duration `mapstructure:"window" json:"window"`
	Whitelist []string      `mapstructure:"whitelist" json:"whitelist,omitempty"`
	Blacklist []string      `mapstructure:"blacklist" json:"blacklist,omitempty"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Scoring: ScoringConfig{
			BlendRatio:        0.5,
			FuzzyThreshold:    0.8,
			KBThreshold:       0.5,
			SemanticWindow:    2000,
			MaxParallelChecks: 4,
		},
		Gemini: GeminiConfig{EmbeddingModel: "text-embedding-004"},
		Server: ServerConfig{
			Port: 8080,
			RateLimit: RateLimitConfig{
				Enabled: true,
				Limit:   60,
				Window:  time.Minute,
			},
		},
	}
}

// SetDefaults registers Default() on v so that env overrides resolve for every key.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("scoring.blend_ratio", d.Scoring.BlendRatio)
	v.SetDefault("scoring.fuzzy_threshold", d.Scoring.FuzzyThreshold)
	v.SetDefault("scoring.kb_threshold", d.Scoring.KBThreshold)
	v.SetDefault("scoring.semantic_window", d.Scoring.SemanticWindow)
	v.SetDefault("scoring.max_parallel_checks", d.Scoring.MaxParallelChecks)
	v.SetDefault("kb.path", d.KB.Path)
	v.SetDefault("kb.model", d.KB.Model)
	v.SetDefault("ml.ranker_path", d.ML.RankerPath)
	v.SetDefault("ml.use_cross_encoder", d.ML.UseCrossEncoder)
	v.SetDefault("gemini.api_key", d.Gemini.APIKey)
	v.SetDefault("gemini.embedding_model", d.Gemini.EmbeddingModel)
	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.rate_limit.enabled", d.Server.RateLimit.Enabled)
	v.SetDefault("server.rate_limit.limit", d.Server.RateLimit.Limit)
	v.SetDefault("server.rate_limit.window", d.Server.RateLimit.Window)
	v.SetDefault("server.rate_limit.whitelist", d.Server.RateLimit.Whitelist)
	v.SetDefault("server.rate_limit.blacklist", d.Server.RateLimit.Blacklist)
}

// New returns a viper instance with defaults and environment binding applied.
// GEMINI_API_KEY and DATABASE_URL are honoured without the prefix.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("gemini.api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	return v
}

// Load reads the optional config file at path (YAML or JSON, chosen by
// extension) on top of defaults and environment, then validates the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = New()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects out-of-range ratios, thresholds and sizes.
func (c *Config) Validate() error {
	var errs []error
	unit := func(name string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("config error: '%s' must be within [0, 1], got %g", name, v))
		}
	}
	unit("scoring.blend_ratio", c.Scoring.BlendRatio)
	unit("scoring.fuzzy_threshold", c.Scoring.FuzzyThreshold)
	unit("scoring.kb_threshold", c.Scoring.KBThreshold)

	if c.Scoring.SemanticWindow <= 0 {
		errs = append(errs, fmt.Errorf("config error: 'scoring.semantic_window' must be positive"))
	}
	if c.Scoring.MaxParallelChecks <= 0 {
		errs = append(errs, fmt.Errorf("config error: 'scoring.max_parallel_checks' must be positive"))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port))
	}
	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.Limit <= 0 {
			errs = append(errs, fmt.Errorf("config error: 'server.rate_limit.limit' must be positive"))
		}
		if c.Server.RateLimit.Window <= 0 {
			errs = append(errs, fmt.Errorf("config error: 'server.rate_limit.window' must be positive"))
		}
	}
	return errors.Join(errs...)
}
