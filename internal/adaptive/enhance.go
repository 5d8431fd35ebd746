package adaptive

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/logging"
	"github.com/jonathan/resume-scorer/internal/mlscore"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Fusion parameters.
const (
	DefaultBlendRatio   = 0.5
	penaltyPerPoint     = 0.01
	maxFormattingDrag   = 10.0
	contactBoost        = 5.0
	improvementCount    = 3
	improvementCeiling  = 70.0
	displayMax          = 100.0
	missingLayoutAssume = 100.0
)

// Input is everything Enhance reads.
type Input struct {
	Analysis *types.AnalysisResult
	ML       *types.MLScore
	Profile  *types.CandidateProfile
	JDText   string
}

// Enhancer fuses rule and ML scores for display.
type Enhancer struct {
	blend  float64
	logger *zap.Logger
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithBlendRatio sets the rule-score share of the fused score.
func WithBlendRatio(r float64) Option {
	return func(e *Enhancer) {
		if r >= 0 && r <= 1 {
			e.blend = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Enhancer) { e.logger = logging.OrNop(l) }
}

// NewEnhancer builds an Enhancer with a 50/50 blend.
func NewEnhancer(opts ...Option) *Enhancer {
	e := &Enhancer{blend: DefaultBlendRatio, logger: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Enhance validates the analysis and builds the display result. The rule
// score is carried over unchanged; when an ML score is present it is
// blended in and a capped formatting penalty is subtracted.
func (e *Enhancer) Enhance(in Input) (*types.EnhancedAnalysisResult, error) {
	if err := ValidateAnalysis(in.Analysis); err != nil {
		return nil, err
	}
	raw := in.Analysis

	display := DisplayScores(raw.Breakdown)
	penalty := FormattingPenalty(display)
	boosted := applyContactBoost(display, in.Profile)

	out := &types.EnhancedAnalysisResult{
		ID:                raw.ID,
		FinalScore:        round1(raw.FinalScore),
		Grade:             raw.Grade,
		RuleScore:         raw.FinalScore,
		Breakdown:         copyBreakdown(raw.Breakdown),
		DisplayBreakdown:  roundAll(boosted),
		Feedback:          append([]string{}, raw.Feedback...),
		SkillMatchDetails: raw.SkillMatchDetails,
	}

	if ml := in.ML; ml != nil && ml.Method != mlscore.MethodInvalid && !math.IsNaN(ml.Score) {
		score := ml.Score
		out.MLScore = &score
		out.MLExplanation = ml.Explanation
		out.FormattingPenalty = round1(penalty)
		fused := Fuse(raw.FinalScore, score, penalty, e.blend)
		out.FinalScore = round1(fused)
		out.Grade = types.GradeFor(out.FinalScore)
		e.logger.Debug("fused rule and ML scores",
			zap.Float64("rule", raw.FinalScore),
			zap.Float64("ml", score),
			zap.Float64("penalty", penalty),
			zap.Float64("fused", out.FinalScore))
	}

	out.Improvements = Improvements(boosted)
	out.Suggestions = Suggestions(boosted, raw.SkillMatchDetails.Missing, skillNames(in.Profile), in.JDText)
	out.Summary = Summary(out.FinalScore, out.Grade)
	return out, nil
}

// DisplayScores maps each raw score onto 0-100 against its ceiling.
func DisplayScores(breakdown map[types.Category]float64) map[types.Category]float64 {
	out := make(map[types.Category]float64, len(breakdown))
	for c, v := range breakdown {
		out[c] = math.Min(displayMax, v/c.MaxPoints()*100)
	}
	return out
}

// FormattingPenalty is 0.01 per display point file_layout falls below 100,
// capped at 10. A missing file_layout score carries no penalty.
func FormattingPenalty(display map[types.Category]float64) float64 {
	layout, ok := display[types.FileLayout]
	if !ok {
		layout = missingLayoutAssume
	}
	return math.Min(penaltyPerPoint*math.Max(0, displayMax-layout), maxFormattingDrag)
}

// Fuse blends the rule and ML scores, subtracts the penalty and clamps the
// result to [0, 100].
func Fuse(rule, ml, penalty, blend float64) float64 {
	fused := blend*rule + (1-blend)*ml - penalty
	return math.Min(displayMax, math.Max(0, fused))
}

func applyContactBoost(display map[types.Category]float64, p *types.CandidateProfile) map[types.Category]float64 {
	out := make(map[types.Category]float64, len(display))
	for c, v := range display {
		out[c] = v
	}
	if p != nil && p.Email != "" && p.Phone != "" {
		if v, ok := out[types.OnlinePresence]; ok {
			out[types.OnlinePresence] = math.Min(displayMax, v+contactBoost)
		}
	}
	return out
}

var tips = map[types.Category]string{
	types.SemanticFit:          "Tailor content to match job requirements more closely",
	types.KeywordAlignment:     "Include more job-specific keywords and technical terms",
	types.SkillContext:         "Demonstrate skills with concrete examples in experience section",
	types.QuantifiedImpact:     "Add measurable achievements (%, $, time saved)",
	types.ProfessionalLanguage: "Use stronger action verbs and professional terminology",
	types.FileLayout:           "Improve document structure and formatting",
	types.Readability:          "Simplify language and improve clarity",
	types.CareerProgression:    "Highlight career growth and advancement",
	types.EmploymentGaps:       "Address any gaps in employment history",
	types.OnlinePresence:       "Add LinkedIn or professional portfolio links",
	types.FontConsistency:      "Use one or two standard fonts consistently",
	types.DateConsistency:      "Use one date format throughout (e.g. Jan 2020 - Mar 2022)",
}

// Improvements returns tips for the three lowest display scores that fall
// below 70. Ties keep category display order.
func Improvements(display map[types.Category]float64) []types.Improvement {
	cats := make([]types.Category, 0, len(display))
	for _, c := range types.AllCategories {
		if _, ok := display[c]; ok {
			cats = append(cats, c)
		}
	}
	sort.SliceStable(cats, func(i, j int) bool { return display[cats[i]] < display[cats[j]] })

	out := []types.Improvement{}
	for _, c := range cats[:min(improvementCount, len(cats))] {
		if display[c] >= improvementCeiling {
			continue
		}
		tip, ok := tips[c]
		if !ok {
			tip = "Improve " + string(c)
		}
		out = append(out, types.Improvement{Category: c, Score: round1(display[c]), Tip: tip})
	}
	return out
}

func copyBreakdown(b map[types.Category]float64) map[types.Category]float64 {
	out := make(map[types.Category]float64, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

func roundAll(m map[types.Category]float64) map[types.Category]float64 {
	for k, v := range m {
		m[k] = round1(v)
	}
	return m
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func skillNames(p *types.CandidateProfile) []string {
	if p == nil {
		return nil
	}
	return p.SkillNames()
}
