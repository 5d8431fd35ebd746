// Package mlscore computes a model-based relevance score between a résumé
// and a job description. The embedding path is preferred; a cross-encoder
// and finally TF-IDF cosine similarity serve as fallbacks.
package mlscore

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/embedding"
	"github.com/jonathan/resume-scorer/internal/logging"
	"github.com/jonathan/resume-scorer/internal/textutil"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Scoring methods reported in MLScore.Method.
const (
	MethodEmbedding    = "embedding"
	MethodRanker       = "ranker"
	MethodCrossEncoder = "cross_encoder"
	MethodTFIDF        = "tfidf"
	MethodInvalid      = "invalid"
)

// Similarity recalibration: cosine similarities in [0.25, 0.85] are spread
// over display scores [40, 95].
const (
	similarityLow  = 0.25
	similarityHigh = 0.85
	displayLow     = 40.0
	displayHigh    = 95.0

	DefaultWindow      = 2000
	tfidfMaxFeatures   = 100
	neutralTFIDF       = 0.5
	invalidExplanation = "Invalid input"
)

// Scorer computes ML match scores. It is safe for concurrent use when its
// collaborators are.
type Scorer struct {
	embedder embedding.Embedder
	cross    CrossEncoder
	ranker   Ranker
	window   int
	logger   *zap.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithCrossEncoder sets the fallback cross-encoder.
func WithCrossEncoder(c CrossEncoder) Option {
	return func(s *Scorer) { s.cross = c }
}

// WithRanker sets the optional gradient-boosted ranker.
func WithRanker(r Ranker) Option {
	return func(s *Scorer) { s.ranker = r }
}

// WithWindow sets the rune limit applied to each text before embedding.
func WithWindow(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.window = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scorer) { s.logger = logging.OrNop(l) }
}

// New builds a Scorer. A nil embedder sends every request down the
// fallback chain.
func New(e embedding.Embedder, opts ...Option) *Scorer {
	if e == nil {
		e = embedding.Unavailable{}
	}
	s := &Scorer{embedder: e, window: DefaultWindow, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Score returns a 0-100 relevance score with an explanation.
func (s *Scorer) Score(ctx context.Context, resume, jd string) types.MLScore {
	if strings.TrimSpace(resume) == "" || strings.TrimSpace(jd) == "" {
		return types.MLScore{Score: 0, Explanation: invalidExplanation, Method: MethodInvalid}
	}

	r := textutil.Truncate(resume, s.window)
	j := textutil.Truncate(jd, s.window)
	vecs, err := s.embedder.EmbedBatch(ctx, []string{r, j})
	if err == nil && len(vecs) == 2 {
		return s.fromEmbeddings(ctx, resume, jd, vecs[0], vecs[1])
	}
	if err == nil {
		err = fmt.Errorf("got %d vectors for 2 texts", len(vecs))
	}
	s.logger.Warn("embedding similarity failed, falling back to cross-encoder",
		zap.String("model", s.embedder.Model()), zap.Error(err))

	ce := s.crossEncoderScore(ctx, resume, jd)
	score := round2(ce.value * 100)
	return types.MLScore{Score: score, Explanation: Explain(score, ce.value), Method: ce.method, Similarity: ce.value}
}

func (s *Scorer) fromEmbeddings(ctx context.Context, resume, jd string, rv, jv []float32) types.MLScore {
	sim := textutil.Cosine(rv, jv)
	method := MethodEmbedding
	raw := sim

	if s.ranker != nil {
		ce := sim
		if s.cross != nil {
			if logit, err := s.cross.Predict(ctx, jd, resume); err == nil {
				ce = CalibrateCrossEncoder(logit)
			} else {
				s.logger.Warn("cross-encoder failed, using similarity as ranker input", zap.Error(err))
			}
		}
		pred, err := s.ranker.Predict(RankerFeatures(ce, rv, jv))
		if err != nil || math.IsNaN(pred) {
			s.logger.Warn("ranker prediction failed, using similarity", zap.Error(err))
		} else {
			raw = pred
			method = MethodRanker
		}
	}

	score := round2(RemapSimilarity(raw))
	return types.MLScore{Score: score, Explanation: Explain(score, sim), Method: method, Similarity: sim}
}

type fallbackScore struct {
	value  float64
	method string
}

// crossEncoderScore returns a calibrated [0, 1] relevance, dropping to
// TF-IDF similarity when no cross-encoder is usable.
func (s *Scorer) crossEncoderScore(ctx context.Context, resume, jd string) fallbackScore {
	if s.cross != nil {
		logit, err := s.cross.Predict(ctx, jd, resume)
		if err == nil {
			return fallbackScore{value: CalibrateCrossEncoder(logit), method: MethodCrossEncoder}
		}
		s.logger.Warn("cross-encoder failed, falling back to TF-IDF", zap.Error(err))
	}
	sim, err := textutil.TFIDFSimilarity(jd, resume, tfidfMaxFeatures)
	if err != nil {
		s.logger.Warn("TF-IDF similarity failed, using neutral score", zap.Error(err))
		sim = neutralTFIDF
	}
	return fallbackScore{value: sim, method: MethodTFIDF}
}

// Relevance returns the embedding-free relevance on [0, 1]: the calibrated
// cross-encoder when one is configured and succeeds, else TF-IDF similarity.
func (s *Scorer) Relevance(ctx context.Context, resume, jd string) (float64, error) {
	if strings.TrimSpace(resume) == "" || strings.TrimSpace(jd) == "" {
		return 0, fmt.Errorf("relevance: empty input")
	}
	if s.cross != nil {
		logit, err := s.cross.Predict(ctx, jd, resume)
		if err == nil {
			return CalibrateCrossEncoder(logit), nil
		}
		s.logger.Warn("cross-encoder failed, falling back to TF-IDF", zap.Error(err))
	}
	return textutil.TFIDFSimilarity(jd, resume, tfidfMaxFeatures)
}

// RemapSimilarity spreads a cosine similarity over the display range.
func RemapSimilarity(sim float64) float64 {
	return textutil.Remap(sim, similarityLow, similarityHigh, displayLow, displayHigh)
}

// Explain describes a score. similarity is reported as a percentage.
func Explain(score, similarity float64) string {
	pct := similarity * 100
	switch {
	case score >= 85:
		return fmt.Sprintf("Excellent match (%.0f%% semantic similarity)", pct)
	case score >= 70:
		return fmt.Sprintf("Strong match (%.0f%% semantic similarity)", pct)
	case score >= 50:
		return fmt.Sprintf("Moderate match (%.0f%% semantic similarity)", pct)
	default:
		return fmt.Sprintf("Weak match (%.0f%% semantic similarity) - consider tailoring resume", pct)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
