package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-scorer/internal/checkers"
	"github.com/jonathan/resume-scorer/internal/logging"
	"github.com/jonathan/resume-scorer/internal/skills"
	"github.com/jonathan/resume-scorer/internal/types"
)

// DefaultParallelism bounds concurrent checker execution.
const DefaultParallelism = 4

// Analyzer runs a checker set and aggregates the results.
type Analyzer struct {
	checkers    []checkers.Checker
	merge       MergePolicy
	matcher     *skills.Matcher
	parallelism int
	now         func() time.Time
	newID       func() string
	logger      *zap.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCheckers replaces the default checker set.
func WithCheckers(cs ...checkers.Checker) Option {
	return func(a *Analyzer) { a.checkers = cs }
}

// WithMergePolicy sets how variants of one category are combined.
func WithMergePolicy(p MergePolicy) Option {
	return func(a *Analyzer) { a.merge = p }
}

// WithSkillMatcher enables required-skill matching.
func WithSkillMatcher(m *skills.Matcher) Option {
	return func(a *Analyzer) { a.matcher = m }
}

// WithParallelism bounds the number of checkers run at once.
func WithParallelism(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.parallelism = n
		}
	}
}

// WithClock sets the reference time for date arithmetic.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithIDGenerator sets the analysis ID source.
func WithIDGenerator(fn func() string) Option {
	return func(a *Analyzer) { a.newID = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) { a.logger = logging.OrNop(l) }
}

// New builds an Analyzer. Without WithCheckers it runs checkers.Default
// with no semantic embedder.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		merge:       MaxScore{},
		parallelism: DefaultParallelism,
		now:         time.Now,
		newID:       uuid.NewString,
		logger:      zap.NewNop(),
	}
	for _, o := range opts {
		o(a)
	}
	if a.checkers == nil {
		a.checkers = checkers.Default(checkers.Deps{})
	}
	return a
}

// Analyze scores one candidate against an optional job. Checker failures
// never surface as errors; the only error is a cancelled context.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*types.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	in := PrepareInput(req)
	in.Now = a.now()
	results := a.runCheckers(ctx, in)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	merged := a.mergeByCategory(results)
	hasJob := req.Job.HasText()

	breakdown := make(map[types.Category]float64, len(merged))
	checks := make([]types.CheckResult, 0, len(merged))
	for _, c := range types.AllCategories {
		r := merged[c]
		breakdown[c] = r.RawScore
		checks = append(checks, r)
	}

	var feedback []string
	for _, r := range checks {
		feedback = append(feedback, r.Feedback...)
	}
	final, grade, override := FinalScore(breakdown, hasJob)
	if override != "" {
		feedback = append([]string{override}, feedback...)
	}
	if feedback == nil {
		feedback = []string{}
	}

	res := &types.AnalysisResult{
		ID:                a.newID(),
		FinalScore:        final,
		Grade:             grade,
		Breakdown:         breakdown,
		Feedback:          feedback,
		SkillMatchDetails: emptyDetails(),
		Checks:            checks,
	}
	if hasJob {
		if d := merged[types.KeywordAlignment].Details; d != nil {
			res.SkillMatchDetails = *d
		}
	}
	if a.matcher != nil && req.Job != nil && (len(req.Job.RequiredSkills) > 0 || len(req.Job.PreferredSkills) > 0) {
		res.SkillMatch = a.matcher.MatchJob(ctx, in.Profile.SkillNames(), req.Job)
	}

	a.logger.Debug("analysis complete",
		zap.String("id", res.ID),
		zap.Float64("final_score", res.FinalScore),
		zap.String("grade", string(res.Grade)),
		zap.Bool("has_job", hasJob),
		zap.String("override", override),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// runCheckers runs every checker, substituting the category's neutral
// result for any that panics. Results keep registration order.
func (a *Analyzer) runCheckers(ctx context.Context, in *checkers.Input) []types.CheckResult {
	results := make([]types.CheckResult, len(a.checkers))
	var g errgroup.Group
	g.SetLimit(a.parallelism)
	for i, c := range a.checkers {
		g.Go(func() error {
			results[i] = a.safeCheck(ctx, c, in)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (a *Analyzer) safeCheck(ctx context.Context, c checkers.Checker, in *checkers.Input) (r types.CheckResult) {
	defer func() {
		if p := recover(); p != nil {
			a.logger.Warn("checker panicked, using neutral score",
				zap.String("checker", c.Name()),
				zap.String("category", string(c.Category())),
				zap.Any("panic", p))
			r = types.NeutralResult(c.Category())
		}
	}()
	r = c.Check(ctx, in)
	r.Category = c.Category()
	return r.Clamped()
}

// mergeByCategory groups results by category and merges variants. Every
// category is present in the output; ones with no checker get their
// neutral score.
func (a *Analyzer) mergeByCategory(results []types.CheckResult) map[types.Category]types.CheckResult {
	grouped := map[types.Category][]types.CheckResult{}
	for _, r := range results {
		grouped[r.Category] = append(grouped[r.Category], r)
	}
	merged := make(map[types.Category]types.CheckResult, len(types.AllCategories))
	for _, c := range types.AllCategories {
		switch rs := grouped[c]; len(rs) {
		case 0:
			merged[c] = types.NeutralResult(c)
		case 1:
			merged[c] = rs[0]
		default:
			merged[c] = a.merge.Merge(rs)
		}
	}
	return merged
}

func emptyDetails() types.SkillMatchDetails {
	return types.SkillMatchDetails{Matched: []string{}, Missing: []string{}}
}
