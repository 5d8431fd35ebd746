package embedding

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/textutil"
)

type stubClient struct {
	vecs [][]float32
	err  error
}

func (s *stubClient) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return "", nil
}

func (s *stubClient) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vecs[:min(len(texts), len(s.vecs))], nil
}

func (s *stubClient) EmbeddingModel() string { return "stub-embedder" }

func (s *stubClient) Close() error { return nil }

type countingEmbedder struct {
	calls atomic.Int32
	inner Embedder
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls.Add(1)
	return c.inner.Embed(ctx, text)
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls.Add(int32(len(texts)))
	return c.inner.EmbedBatch(ctx, texts)
}

func (c *countingEmbedder) Model() string { return "counting" }

func TestHashing_Deterministic(t *testing.T) {
	h := NewHashing(0)
	a, err := h.Embed(context.Background(), "Python Django developer")
	require.NoError(t, err)
	b, err := h.Embed(context.Background(), "Python Django developer")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultHashDims)
	assert.InDelta(t, 1.0, textutil.Cosine(a, b), 1e-6)
}

func TestHashing_RelatedTextsAreCloser(t *testing.T) {
	h := NewHashing(256)
	ctx := context.Background()
	jd, _ := h.Embed(ctx, "Backend engineer with Python, Django and AWS experience")
	near, _ := h.Embed(ctx, "Python developer building Django services on AWS")
	far, _ := h.Embed(ctx, "Mechanical engineer using CAD and SolidWorks")
	assert.Greater(t, textutil.Cosine(jd, near), textutil.Cosine(jd, far))
}

func TestHashing_EmptyTextIsZeroVector(t *testing.T) {
	v, err := NewHashing(8).Embed(context.Background(), "the and of")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), v)
}

func TestCached_ReusesVectors(t *testing.T) {
	inner := &countingEmbedder{inner: NewHashing(16)}
	c := NewCached(inner, 2)
	ctx := context.Background()

	_, err := c.Embed(ctx, "a text")
	require.NoError(t, err)
	_, err = c.Embed(ctx, "a text")
	require.NoError(t, err)
	assert.Equal(t, int32(1), inner.calls.Load())

	vecs, err := c.EmbedBatch(ctx, []string{"a text", "b text", "c text"})
	require.NoError(t, err)
	assert.Len(t, vecs, 3)
	assert.Equal(t, int32(3), inner.calls.Load())
	assert.Equal(t, 2, c.Len())
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.Embed(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrUnavailable))

	var g *Gemini
	_, err = g.EmbedBatch(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGemini_Embed(t *testing.T) {
	g := NewGemini(&stubClient{vecs: [][]float32{{1, 0}}})
	v, err := g.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, v)
	assert.Equal(t, "stub-embedder", g.Model())

	_, err = g.EmbedBatch(context.Background(), []string{"x", "y"})
	assert.Error(t, err)

	failing := NewGemini(&stubClient{err: errors.New("quota")})
	_, err = failing.Embed(context.Background(), "x")
	assert.ErrorContains(t, err, "quota")
}
