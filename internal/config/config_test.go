package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.5, cfg.Scoring.BlendRatio)
	assert.Equal(t, 0.8, cfg.Scoring.FuzzyThreshold)
	assert.Equal(t, 0.5, cfg.Scoring.KBThreshold)
	assert.Equal(t, 2000, cfg.Scoring.SemanticWindow)
	assert.Equal(t, 4, cfg.Scoring.MaxParallelChecks)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, Default().Scoring, cfg.Scoring)
	assert.Equal(t, time.Minute, cfg.Server.RateLimit.Window)
}

func TestLoad_YAMLFile(t *testing.T) {
	content := `
scoring:
  blend_ratio: 0.7
  fuzzy_threshold: 0.9
kb:
  path: /data/kb.jsonl
ml:
  use_cross_encoder: true
server:
  port: 9090
  rate_limit:
    window: 30s
`
	path := filepath.Join(t.TempDir(), "scorer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, 0.7, cfg.Scoring.BlendRatio)
	assert.Equal(t, 0.9, cfg.Scoring.FuzzyThreshold)
	assert.Equal(t, 0.5, cfg.Scoring.KBThreshold)
	assert.Equal(t, "/data/kb.jsonl", cfg.KB.Path)
	assert.True(t, cfg.ML.UseCrossEncoder)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.RateLimit.Window)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RESUME_SCORER_SCORING_KB_THRESHOLD", "0.65")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/scorer")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, 0.65, cfg.Scoring.KBThreshold)
	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, "postgres://localhost/scorer", cfg.DatabaseURL)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(New(), "/nonexistent/path/scorer.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scorer.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"scoring": {"blend_ratio": 1.5}}`), 0644))

	cfg, err := Load(New(), path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "scoring.blend_ratio")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Scoring.FuzzyThreshold = -0.1
	cfg.Scoring.SemanticWindow = 0
	cfg.Server.RateLimit.Limit = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scoring.fuzzy_threshold")
	assert.Contains(t, err.Error(), "scoring.semantic_window")
	assert.Contains(t, err.Error(), "server.rate_limit.limit")
}

func TestValidate_RateLimitDisabled(t *testing.T) {
	cfg := Default()
	cfg.Server.RateLimit = RateLimitConfig{Enabled: false}
	assert.NoError(t, cfg.Validate())
}
