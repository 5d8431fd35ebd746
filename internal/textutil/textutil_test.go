package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorizer_AnalyzeDropsStopWordsBeforeNgrams(t *testing.T) {
	v := NewVectorizer(1, 2, 0)
	grams := v.Analyze("Experience with the Python language")
	assert.Contains(t, grams, "python")
	assert.Contains(t, grams, "experience python")
	assert.NotContains(t, grams, "the")
}

func TestVectorizer_TechPatternKeepsSymbols(t *testing.T) {
	v := &Vectorizer{MinN: 1, MaxN: 1, TokenPattern: TechTokenPattern}
	grams := v.Analyze("Strong C# and Node.js skills.")
	assert.Contains(t, grams, "c#")
	assert.Contains(t, grams, "node.js")
	assert.Contains(t, grams, "skills")
}

func TestVectorizer_FitTransformEmpty(t *testing.T) {
	_, err := NewVectorizer(1, 1, 10).FitTransform([]string{"the and", ""})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestMatrix_TopTermsByFrequency(t *testing.T) {
	m, err := NewVectorizer(1, 1, 2).FitTransform([]string{"python python python django django sql"})
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "django"}, m.TopTerms(0, 10))
	assert.Nil(t, m.TopTerms(5, 10))
}

func TestTFIDFSimilarity(t *testing.T) {
	same, err := TFIDFSimilarity("python django developer", "python django developer", 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, same, 1e-9)

	diff, err := TFIDFSimilarity("python django developer", "mechanical cad solidworks", 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, diff, 1e-9)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2}, []float32{2, 4}), 1e-6)
	assert.Equal(t, 0.0, Cosine([]float64{1}, []float64{1, 2}))
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 2}))
}

func TestFuzzyRatio(t *testing.T) {
	assert.Equal(t, 1.0, FuzzyRatio("kubernetes", "kubernetes"))
	assert.Greater(t, FuzzyRatio("postgresql", "postgressql"), 0.8)
	assert.Less(t, FuzzyRatio("java", "excel"), 0.5)
}

func TestRemap(t *testing.T) {
	assert.InDelta(t, 40.0, Remap(0.1, 0.25, 0.85, 40, 95), 1e-9)
	assert.InDelta(t, 95.0, Remap(0.9, 0.25, 0.85, 40, 95), 1e-9)
	assert.InDelta(t, 67.5, Remap(0.55, 0.25, 0.85, 40, 95), 1e-9)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "résu", Truncate("résumé", 4))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestFleschReadingEase(t *testing.T) {
	_, err := FleschReadingEase("   ")
	assert.ErrorIs(t, err, ErrNoWords)

	simple, err := FleschReadingEase("I ran. He sat. We ate.")
	require.NoError(t, err)
	assert.Greater(t, simple, 80.0)

	dense, err := FleschReadingEase("Comprehensive organizational transformation initiatives necessitate interdisciplinary collaboration.")
	require.NoError(t, err)
	assert.Less(t, dense, 60.0)
}

func TestCountSyllables(t *testing.T) {
	assert.Equal(t, 1, CountSyllables("cat"))
	assert.Equal(t, 1, CountSyllables("make"))
	assert.Equal(t, 4, CountSyllables("developer"))
}
