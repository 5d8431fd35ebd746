package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/adaptive"
	"github.com/jonathan/resume-scorer/internal/analysis"
	"github.com/jonathan/resume-scorer/internal/checkers"
	"github.com/jonathan/resume-scorer/internal/config"
	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/embedding"
	"github.com/jonathan/resume-scorer/internal/fetch"
	"github.com/jonathan/resume-scorer/internal/kb"
	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/mlscore"
	"github.com/jonathan/resume-scorer/internal/parsing"
	"github.com/jonathan/resume-scorer/internal/pipeline"
	"github.com/jonathan/resume-scorer/internal/skills"
)

// kbModelHashing selects the offline hashing embedder for the knowledge base.
const kbModelHashing = "hashing"

const browserTimeout = 60 * time.Second

// buildOptions selects the optional components a command needs.
type buildOptions struct {
	browser      bool
	connectStore bool
	requireStore bool
}

// components is the wired scoring stack shared by every command.
type components struct {
	client   llm.Client
	embedder embedding.Embedder
	kb       *kb.Handle
	matcher  *skills.Matcher
	ml       *mlscore.Scorer
	analyzer *analysis.Analyzer
	pipeline *pipeline.Pipeline
	store    *db.DB
}

// searcher returns the KB as a Searcher, or nil when none is configured.
func (c *components) searcher() kb.Searcher {
	if c.kb == nil {
		return nil
	}
	return c.kb
}

// Close releases the Gemini client and database pool.
func (c *components) Close() {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

func buildComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts buildOptions) (*components, error) {
	c := &components{embedder: embedding.Unavailable{}}

	if cfg.Gemini.APIKey != "" {
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig().WithEmbeddingModel(cfg.Gemini.EmbeddingModel), cfg.Gemini.APIKey)
		if err != nil {
			return nil, err
		}
		c.client = client
		c.embedder = embedding.NewCached(embedding.NewGemini(client), embedding.DefaultCacheSize)
	} else {
		logger.Warn("GEMINI_API_KEY not set; semantic fit and ML scoring use fallbacks")
	}

	if cfg.KB.Path != "" {
		kbEmbedder := c.embedder
		if cfg.KB.Model == kbModelHashing {
			kbEmbedder = embedding.NewHashing(0)
		}
		c.kb = kb.FileHandle(cfg.KB.Path, kbEmbedder, logger)
	}

	c.matcher = skills.NewMatcher(c.searcher(),
		skills.WithFuzzyThreshold(cfg.Scoring.FuzzyThreshold),
		skills.WithKBThreshold(cfg.Scoring.KBThreshold),
		skills.WithLogger(logger))

	mlOpts := []mlscore.Option{
		mlscore.WithWindow(cfg.Scoring.SemanticWindow),
		mlscore.WithLogger(logger),
	}
	if cfg.ML.UseCrossEncoder {
		if c.client == nil {
			logger.Warn("cross-encoder requested but no Gemini client is configured")
		} else {
			mlOpts = append(mlOpts, mlscore.WithCrossEncoder(mlscore.NewLLMJudge(c.client)))
		}
	}
	if cfg.ML.RankerPath != "" {
		ranker, err := mlscore.LoadGBDT(cfg.ML.RankerPath)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to load ranker: %w", err)
		}
		mlOpts = append(mlOpts, mlscore.WithRanker(ranker))
	}
	c.ml = mlscore.New(c.embedder, mlOpts...)

	semantic := checkers.NewSemanticFit(c.embedder, logger).
		WithWindow(cfg.Scoring.SemanticWindow).
		WithFallback(c.ml)
	c.analyzer = analysis.New(
		analysis.WithCheckers(checkers.Default(checkers.Deps{Semantic: semantic})...),
		analysis.WithSkillMatcher(c.matcher),
		analysis.WithParallelism(cfg.Scoring.MaxParallelChecks),
		analysis.WithLogger(logger))

	if opts.requireStore && cfg.DatabaseURL == "" {
		c.Close()
		return nil, errors.New("DATABASE_URL is required to save analyses")
	}
	if (opts.connectStore || opts.requireStore) && cfg.DatabaseURL != "" {
		store, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			c.Close()
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			c.Close()
			return nil, err
		}
		c.store = store
	}

	fetchOpts := []fetch.Option{fetch.WithLogger(logger)}
	if opts.browser {
		fetchOpts = append(fetchOpts, fetch.WithRenderer(fetch.ChromeRenderer(browserTimeout)))
	}
	pipeOpts := []pipeline.Option{
		pipeline.WithEnhancer(adaptive.NewEnhancer(
			adaptive.WithBlendRatio(cfg.Scoring.BlendRatio),
			adaptive.WithLogger(logger))),
		pipeline.WithMLScorer(c.ml),
		pipeline.WithFetcher(fetch.NewFetcher(fetchOpts...)),
		pipeline.WithLogger(logger),
	}
	if c.client != nil {
		pipeOpts = append(pipeOpts, pipeline.WithJobParser(parsing.NewParser(c.client, logger)))
	}
	if c.store != nil {
		pipeOpts = append(pipeOpts, pipeline.WithStore(c.store))
	}
	c.pipeline = pipeline.New(c.analyzer, pipeOpts...)

	return c, nil
}
