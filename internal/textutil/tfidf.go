package textutil

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrEmptyVocabulary is returned when no document yields a single term.
var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain only stop words")

var (
	// DefaultTokenPattern matches words of two or more word characters.
	DefaultTokenPattern = regexp.MustCompile(`\b\w\w+\b`)
	// TechTokenPattern keeps technology spellings such as "c#", "node.js" or "ci/cd".
	TechTokenPattern = regexp.MustCompile(`\b[A-Za-z][A-Za-z0-9+#.\-/]*\b`)
)

// Vectorizer turns documents into L2-normalized TF-IDF vectors over a shared
// vocabulary of lowercase n-grams. Stop words are removed before n-grams are
// formed.
type Vectorizer struct {
	MinN         int
	MaxN         int
	MaxFeatures  int
	TokenPattern *regexp.Regexp
	KeepStops    bool
}

// Matrix is the fitted output of a Vectorizer: one row per document, one
// column per term.
type Matrix struct {
	Terms []string
	Rows  [][]float64
}

// NewVectorizer returns a vectorizer with the given n-gram range and feature cap.
// A non-positive maxFeatures keeps every term.
func NewVectorizer(minN, maxN, maxFeatures int) *Vectorizer {
	return &Vectorizer{MinN: minN, MaxN: maxN, MaxFeatures: maxFeatures, TokenPattern: DefaultTokenPattern}
}

// Analyze returns the n-grams extracted from a single document.
func (v *Vectorizer) Analyze(doc string) []string {
	pattern := v.TokenPattern
	if pattern == nil {
		pattern = DefaultTokenPattern
	}
	minN, maxN := v.MinN, v.MaxN
	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}

	raw := pattern.FindAllString(strings.ToLower(doc), -1)
	tokens := raw[:0:0]
	for _, tok := range raw {
		if !v.KeepStops && IsStopWord(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}

	var grams []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

// FitTransform learns the vocabulary and inverse document frequencies from
// docs and returns their TF-IDF rows. Vocabulary capping keeps the terms with
// the highest total count, ties broken alphabetically.
func (v *Vectorizer) FitTransform(docs []string) (*Matrix, error) {
	counts := make([]map[string]int, len(docs))
	total := map[string]int{}
	df := map[string]int{}
	for i, doc := range docs {
		counts[i] = map[string]int{}
		for _, g := range v.Analyze(doc) {
			counts[i][g]++
			total[g]++
		}
		for g := range counts[i] {
			df[g]++
		}
	}
	if len(total) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(total))
	for t := range total {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if total[terms[i]] != total[terms[j]] {
			return total[terms[i]] > total[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		terms = terms[:v.MaxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	m := &Matrix{Terms: terms, Rows: make([][]float64, len(docs))}
	for i := range docs {
		row := make([]float64, len(terms))
		var norm float64
		for j, t := range terms {
			c := counts[i][t]
			if c == 0 {
				continue
			}
			idf := math.Log((1+n)/(1+float64(df[t]))) + 1
			row[j] = float64(c) * idf
			norm += row[j] * row[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j] /= norm
			}
		}
		m.Rows[i] = row
	}
	return m, nil
}

// TopTerms returns up to n terms of the given row with positive weight,
// highest weight first.
func (m *Matrix) TopTerms(row, n int) []string {
	if row < 0 || row >= len(m.Rows) {
		return nil
	}
	weights := m.Rows[row]
	idx := make([]int, 0, len(weights))
	for j, w := range weights {
		if w > 0 {
			idx = append(idx, j)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return weights[idx[a]] > weights[idx[b]]
	})
	if n > 0 && len(idx) > n {
		idx = idx[:n]
	}
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = m.Terms[j]
	}
	return out
}

// Similarity returns the cosine similarity between two rows.
func (m *Matrix) Similarity(a, b int) float64 {
	if a < 0 || b < 0 || a >= len(m.Rows) || b >= len(m.Rows) {
		return 0
	}
	return Cosine(m.Rows[a], m.Rows[b])
}

// TFIDFSimilarity fits a unigram vectorizer on both texts and returns their
// cosine similarity.
func TFIDFSimilarity(a, b string, maxFeatures int) (float64, error) {
	m, err := NewVectorizer(1, 1, maxFeatures).FitTransform([]string{a, b})
	if err != nil {
		return 0, err
	}
	return m.Similarity(0, 1), nil
}
