// Package llm provides the Gemini client used for sentence embeddings and
// relevance judging, plus its model configuration.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for cheap pairwise judgments such as relevance scoring
	TierLite ModelTier = "lite"
	// TierStandard is for structured output that needs moderate reasoning
	TierStandard ModelTier = "standard"
)

// DefaultEmbeddingModel is the sentence-embedding model used when none is configured.
const DefaultEmbeddingModel = "text-embedding-004"

// Config holds the model configuration for the application
type Config struct {
	Models         map[ModelTier]string
	EmbeddingModel string
	Temperature    float32
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		EmbeddingModel: DefaultEmbeddingModel,
		Temperature:    0,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// GetEmbeddingModel returns the configured embedding model or the default.
func (c *Config) GetEmbeddingModel() string {
	if c.EmbeddingModel == "" {
		return DefaultEmbeddingModel
	}
	return c.EmbeddingModel
}

// WithEmbeddingModel returns a copy of the config using the given embedding model.
func (c *Config) WithEmbeddingModel(model string) *Config {
	newConfig := &Config{
		Models:         make(map[ModelTier]string, len(c.Models)),
		EmbeddingModel: model,
		Temperature:    c.Temperature,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	return newConfig
}
