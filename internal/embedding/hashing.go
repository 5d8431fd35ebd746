package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/resume-scorer/internal/textutil"
)

// DefaultHashDims is the vector size of the hashing embedder.
const DefaultHashDims = 384

var hashTokenPattern = regexp.MustCompile(`[a-z0-9][a-z0-9+#.]*`)

// Hashing is a deterministic bag-of-words embedder using signed feature
// hashing over unigrams and bigrams. It needs no network access and yields
// identical vectors for identical input.
type Hashing struct {
	Dims int
}

// NewHashing returns a hashing embedder with the given dimensionality.
func NewHashing(dims int) *Hashing {
	if dims <= 0 {
		dims = DefaultHashDims
	}
	return &Hashing{Dims: dims}
}

// Embed returns the L2-normalized hashed vector of text.
func (h *Hashing) Embed(_ context.Context, text string) ([]float32, error) {
	return h.vector(text), nil
}

// EmbedBatch embeds every text.
func (h *Hashing) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.vector(t)
	}
	return out, nil
}

// Model names the embedder.
func (h *Hashing) Model() string {
	return "hashing"
}

func (h *Hashing) vector(text string) []float32 {
	dims := h.Dims
	if dims <= 0 {
		dims = DefaultHashDims
	}
	vec := make([]float64, dims)

	var tokens []string
	for _, tok := range hashTokenPattern.FindAllString(strings.ToLower(text), -1) {
		tok = strings.TrimRight(tok, ".")
		if tok == "" || textutil.IsStopWord(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	add := func(feature string, weight float64) {
		f := fnv.New64a()
		_, _ = f.Write([]byte(feature))
		sum := f.Sum64()
		idx := int(sum % uint64(dims))
		if sum&(1<<63) != 0 {
			weight = -weight
		}
		vec[idx] += weight
	}
	for i, tok := range tokens {
		add(tok, 1)
		if i > 0 {
			add(tokens[i-1]+" "+tok, 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	out := make([]float32, dims)
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}
