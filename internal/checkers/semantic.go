package checkers

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/embedding"
	"github.com/jonathan/resume-scorer/internal/logging"
	"github.com/jonathan/resume-scorer/internal/textutil"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Semantic fit tuning. The boost and penalty bands couple keyword evidence
// with embedding similarity so neither alone can produce a high score.
const (
	DefaultSemanticWindow = 2000

	criticalTermCount     = 10
	criticalMismatchRate  = 0.25
	criticalMismatchScale = 10.0
	criticalMissingShown  = 5
	defaultCriticalRate   = 0.5
	boostRate             = 0.6
	boostBase             = 0.8
	boostSlope            = 0.4
	boostCap              = 1.2
	moderateRate          = 0.35
	moderateOffset        = 0.3
	moderateFloor         = 0.7
	weakMultiplier        = 0.5
	embeddingFailureScore = 5.0
	fallbackMaxFeatures   = 100
	strongSimilarity      = 0.65
	strongKeywordRate     = 0.5
	goodSimilarity        = 0.5
	goodKeywordRate       = 0.35
	wrongRoleKeywordRate  = 0.3
)

// Relevance estimates how well a résumé fits a job description on a [0, 1]
// scale without sentence embeddings.
type Relevance interface {
	Relevance(ctx context.Context, resume, jd string) (float64, error)
}

// TFIDFRelevance is the last-resort Relevance: unigram TF-IDF cosine.
type TFIDFRelevance struct{}

// Relevance returns the TF-IDF cosine similarity of the two texts.
func (TFIDFRelevance) Relevance(_ context.Context, resume, jd string) (float64, error) {
	return textutil.TFIDFSimilarity(jd, resume, fallbackMaxFeatures)
}

// SemanticFit is the two-stage JD fit checker: a cheap critical-term gate
// followed by embedding similarity.
type SemanticFit struct {
	embedder embedding.Embedder
	fallback Relevance
	logger   *zap.Logger
	window   int
}

// NewSemanticFit builds the checker. A nil embedder sends every stage-two
// computation to the fallback relevance, TF-IDF unless WithFallback is set.
func NewSemanticFit(e embedding.Embedder, logger *zap.Logger) *SemanticFit {
	if e == nil {
		e = embedding.Unavailable{}
	}
	return &SemanticFit{
		embedder: e,
		fallback: TFIDFRelevance{},
		logger:   logging.OrNop(logger),
		window:   DefaultSemanticWindow,
	}
}

// WithFallback sets the relevance used when embeddings fail.
func (s *SemanticFit) WithFallback(r Relevance) *SemanticFit {
	if r != nil {
		s.fallback = r
	}
	return s
}

// WithWindow sets the character window applied to both texts before embedding.
func (s *SemanticFit) WithWindow(chars int) *SemanticFit {
	if chars > 0 {
		s.window = chars
	}
	return s
}

// Name returns the checker name.
func (s *SemanticFit) Name() string { return "semantic_fit" }

// Category returns the scored category.
func (s *SemanticFit) Category() types.Category { return types.SemanticFit }

// Check scores the résumé against the JD.
func (s *SemanticFit) Check(ctx context.Context, in *Input) types.CheckResult {
	return s.Score(ctx, in.ResumeText, in.JDText())
}

// CriticalTerms returns the JD's top TF-IDF unigrams and bigrams.
func CriticalTerms(jd string) ([]string, error) {
	m, err := textutil.NewVectorizer(1, 2, criticalTermCount).FitTransform([]string{jd})
	if err != nil {
		return nil, err
	}
	return m.TopTerms(0, criticalTermCount), nil
}

// Score computes semantic fit for raw texts. An empty résumé scores 0 and
// an empty JD earns the full ceiling.
func (s *SemanticFit) Score(ctx context.Context, resume, jd string) types.CheckResult {
	if strings.TrimSpace(resume) == "" {
		return types.NewCheckResult(types.SemanticFit, 0, "Invalid resume text")
	}
	if strings.TrimSpace(jd) == "" {
		return types.NewCheckResult(types.SemanticFit, types.SemanticFit.MaxPoints())
	}

	resumeLower := strings.ToLower(resume)
	rate := defaultCriticalRate
	terms, err := CriticalTerms(jd)
	if err != nil {
		s.logger.Warn("critical term extraction failed", zap.Error(err))
	} else if len(terms) > 0 {
		var missing []string
		found := 0
		for _, t := range terms {
			if strings.Contains(resumeLower, t) {
				found++
			} else if len(missing) < criticalMissingShown && indexOf(terms, t) < criticalMissingShown {
				missing = append(missing, t)
			}
		}
		rate = float64(found) / float64(len(terms))
		if rate < criticalMismatchRate {
			return types.NewCheckResult(types.SemanticFit, rate*criticalMismatchScale,
				"Critical mismatch - missing: "+strings.Join(missing, ", "))
		}
	}

	sim, err := s.similarity(ctx, resume, jd)
	if err != nil {
		s.logger.Warn("semantic embedding failed, using fallback relevance",
			zap.Error(err), zap.String("model", s.embedder.Model()))
		sim, err = s.fallback.Relevance(ctx, textutil.Truncate(resume, s.window), textutil.Truncate(jd, s.window))
		if err != nil {
			s.logger.Warn("fallback relevance failed", zap.Error(err))
			return types.NewCheckResult(types.SemanticFit, embeddingFailureScore, "Semantic analysis failed")
		}
		sim = textutil.Clamp(sim, 0, 1)
	}

	ceiling := types.SemanticFit.MaxPoints()
	var score float64
	switch {
	case rate >= boostRate:
		score = sim * ceiling * min(boostCap, boostBase+rate*boostSlope)
	case rate >= moderateRate:
		score = sim * ceiling * max(moderateFloor, rate+moderateOffset)
	default:
		score = sim * ceiling * weakMultiplier
	}

	var msg string
	switch {
	case sim >= strongSimilarity && rate >= strongKeywordRate:
		msg = fmt.Sprintf("Strong match (%.0f%% semantic, %.0f%% keywords)", sim*100, rate*100)
	case sim >= goodSimilarity && rate >= goodKeywordRate:
		msg = fmt.Sprintf("Good match (%.0f%% semantic, %.0f%% keywords)", sim*100, rate*100)
	case rate < wrongRoleKeywordRate:
		msg = fmt.Sprintf("Weak match (%.0f%%) - wrong role fit", sim*100)
	default:
		msg = fmt.Sprintf("Moderate match (%.0f%% semantic, %.0f%% keywords)", sim*100, rate*100)
	}
	return types.NewCheckResult(types.SemanticFit, score, msg)
}

func (s *SemanticFit) similarity(ctx context.Context, resume, jd string) (float64, error) {
	vecs, err := s.embedder.EmbedBatch(ctx, []string{
		textutil.Truncate(resume, s.window),
		textutil.Truncate(jd, s.window),
	})
	if err != nil {
		return 0, err
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("expected 2 embeddings, got %d", len(vecs))
	}
	return textutil.Cosine(vecs[0], vecs[1]), nil
}

func indexOf(items []string, target string) int {
	for i, it := range items {
		if it == target {
			return i
		}
	}
	return -1
}
