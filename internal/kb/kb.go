// Package kb provides semantic search over the skills/occupations knowledge
// base: an in-memory cosine index over precomputed entry embeddings.
package kb

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-scorer/internal/embedding"
)

// Entry types.
const (
	TypeSkill      = "skill"
	TypeOccupation = "occupation"
)

// Defaults for skill extraction.
const (
	DefaultExtractTopK      = 20
	DefaultExtractThreshold = 0.3
	embedBatchSize          = 64
	embedParallelism        = 4
)

// ErrEmptyQuery is returned when a search is attempted with blank text.
var ErrEmptyQuery = errors.New("empty query")

// Entry is one vocabulary item.
type Entry struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	AltLabels   []string  `json:"alt_labels,omitempty"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// Result is a search hit.
type Result struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

// Stats summarizes the index contents.
type Stats struct {
	TotalEntries int            `json:"total_entries"`
	Types        map[string]int `json:"types"`
	Model        string         `json:"model"`
	Dimensions   int            `json:"dimensions"`
}

// Searcher is the read-only search surface consumed by the skill matcher.
type Searcher interface {
	Search(ctx context.Context, query, typeFilter string, topK int) ([]Result, error)
}

// Index is an immutable, concurrency-safe vector index.
type Index struct {
	entries  []Entry
	vectors  [][]float64
	byID     map[string]int
	embedder embedding.Embedder
	dims     int
}

// NewIndex builds an index, embedding any entries that arrive without a
// vector. Vectors are L2-normalized so search is a dot product.
func NewIndex(ctx context.Context, entries []Entry, e embedding.Embedder) (*Index, error) {
	if e == nil {
		return nil, fmt.Errorf("kb: embedder is required")
	}
	entries = append([]Entry(nil), entries...)
	if err := embedMissing(ctx, entries, e); err != nil {
		return nil, err
	}

	ix := &Index{
		entries:  entries,
		vectors:  make([][]float64, len(entries)),
		byID:     make(map[string]int, len(entries)),
		embedder: e,
	}
	for i, en := range entries {
		if ix.dims == 0 {
			ix.dims = len(en.Embedding)
		}
		if len(en.Embedding) != ix.dims {
			return nil, fmt.Errorf("kb: entry %q has %d dimensions, want %d", en.ID, len(en.Embedding), ix.dims)
		}
		ix.vectors[i] = normalize(en.Embedding)
		ix.entries[i].Embedding = nil
		ix.byID[en.ID] = i
	}
	return ix, nil
}

func embedMissing(ctx context.Context, entries []Entry, e embedding.Embedder) error {
	var missing []int
	for i, en := range entries {
		if len(en.Embedding) == 0 {
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedParallelism)
	for start := 0; start < len(missing); start += embedBatchSize {
		batch := missing[start:min(start+embedBatchSize, len(missing))]
		g.Go(func() error {
			texts := make([]string, len(batch))
			for j, i := range batch {
				texts[j] = entryText(entries[i])
			}
			vecs, err := e.EmbedBatch(gctx, texts)
			if err != nil {
				return fmt.Errorf("kb: embed entries: %w", err)
			}
			for j, i := range batch {
				entries[i].Embedding = vecs[j]
			}
			return nil
		})
	}
	return g.Wait()
}

func entryText(e Entry) string {
	parts := append([]string{e.Label}, e.AltLabels...)
	text := strings.Join(parts, ", ")
	if e.Description != "" {
		text += ". " + e.Description
	}
	return text
}

// Load reads a JSON Lines file of entries and builds an index.
func Load(ctx context.Context, path string, e embedding.Embedder) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("kb: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	entries, err := ReadEntries(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("kb: read %s: %w", path, err)
	}
	return NewIndex(ctx, entries, e)
}

// ReadEntries decodes one JSON entry per line, skipping blank lines.
func ReadEntries(r *bufio.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var entries []Entry
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if e.ID == "" {
			e.ID = fmt.Sprintf("entry-%d", line)
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}

// Search returns the topK entries most similar to query, optionally limited
// to one entry type.
func (ix *Index) Search(ctx context.Context, query, typeFilter string, topK int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	vec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("kb: embed query: %w", err)
	}
	return ix.SearchVector(vec, typeFilter, topK), nil
}

// SearchBatch runs Search for every query with a single embedding call.
func (ix *Index) SearchBatch(ctx context.Context, queries []string, typeFilter string, topK int) ([][]Result, error) {
	vecs, err := ix.embedder.EmbedBatch(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("kb: embed queries: %w", err)
	}
	out := make([][]Result, len(queries))
	for i, v := range vecs {
		out[i] = ix.SearchVector(v, typeFilter, topK)
	}
	return out, nil
}

// SearchVector ranks entries by cosine similarity to vec.
func (ix *Index) SearchVector(vec []float32, typeFilter string, topK int) []Result {
	if topK <= 0 || len(vec) != ix.dims {
		return nil
	}
	q := normalize(vec)
	results := make([]Result, 0, len(ix.entries))
	for i, en := range ix.entries {
		if typeFilter != "" && en.Type != typeFilter {
			continue
		}
		results = append(results, Result{ID: en.ID, Label: en.Label, Type: en.Type, Score: dot(q, ix.vectors[i])})
	}
	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// ExtractSkills returns skill entries similar to text scoring at least threshold.
func (ix *Index) ExtractSkills(ctx context.Context, text string, topK int, threshold float64) ([]Result, error) {
	results, err := ix.Search(ctx, text, TypeSkill, topK)
	if err != nil {
		return nil, err
	}
	out := results[:0]
	for _, r := range results {
		if r.Score >= threshold {
			out = append(out, r)
		}
	}
	return out, nil
}

// GetByID returns the entry with the given ID.
func (ix *Index) GetByID(id string) (Entry, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return Entry{}, false
	}
	return ix.entries[i], true
}

// Len returns the number of entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Stats reports entry counts per type.
func (ix *Index) Stats() Stats {
	s := Stats{TotalEntries: len(ix.entries), Types: map[string]int{}, Model: ix.embedder.Model(), Dimensions: ix.dims}
	for _, e := range ix.entries {
		s.Types[e.Type]++
	}
	return s
}

func normalize(v []float32) []float64 {
	out := make([]float64, len(v))
	var norm float64
	for i, x := range v {
		out[i] = float64(x)
		norm += out[i] * out[i]
	}
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i := range out {
		out[i] /= norm
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
