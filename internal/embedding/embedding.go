// Package embedding provides sentence-embedding backends behind a single
// interface: the Gemini embedding API, a deterministic local hashing
// embedder, and an in-memory cache that wraps either.
package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/resume-scorer/internal/llm"
)

// ErrUnavailable is returned by embedders that have no backing model.
var ErrUnavailable = errors.New("embedding model unavailable")

// Embedder encodes texts into fixed-length vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// Gemini embeds texts through an llm.Client.
type Gemini struct {
	client llm.Client
}

// NewGemini wraps an llm.Client as an Embedder.
func NewGemini(client llm.Client) *Gemini {
	return &Gemini{client: client}
}

// Embed returns the embedding of a single text.
func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch returns one embedding per text.
func (g *Gemini) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if g == nil || g.client == nil {
		return nil, ErrUnavailable
	}
	vecs, err := g.client.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("gemini embed: got %d vectors for %d texts", len(vecs), len(texts))
	}
	return vecs, nil
}

// Model returns the embedding model name.
func (g *Gemini) Model() string {
	if g == nil || g.client == nil {
		return ""
	}
	return g.client.EmbeddingModel()
}

// Unavailable is an Embedder that always fails. It stands in when no model
// is configured so callers exercise their fallback chain.
type Unavailable struct{}

// Embed always returns ErrUnavailable.
func (Unavailable) Embed(context.Context, string) ([]float32, error) { return nil, ErrUnavailable }

// EmbedBatch always returns ErrUnavailable.
func (Unavailable) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, ErrUnavailable
}

// Model returns an empty name.
func (Unavailable) Model() string { return "" }
