// Package pipeline runs a complete scoring pass: job description resolution,
// rule-based analysis and ML scoring in parallel, fusion, and persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-scorer/internal/adaptive"
	"github.com/jonathan/resume-scorer/internal/analysis"
	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/fetch"
	"github.com/jonathan/resume-scorer/internal/logging"
	"github.com/jonathan/resume-scorer/internal/parsing"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Step names reported through ProgressCallback.
const (
	StepFetchJob = "fetch_job"
	StepParseJob = "parse_job"
	StepAnalyze  = "analyze"
	StepMLScore  = "ml_score"
	StepEnhance  = "enhance"
	StepPersist  = "persist"
)

// ErrNoFetcher is returned when a request names a job URL but the pipeline
// was built without a fetcher.
var ErrNoFetcher = errors.New("job URL given but fetching is not configured")

// ProgressEvent represents a progress update during a run.
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called as each step completes.
type ProgressCallback func(event ProgressEvent)

// JobFetcher resolves a job description URL to text.
type JobFetcher interface {
	JobDescription(ctx context.Context, url string) (*fetch.Result, error)
}

// JobParser extracts structured requirements from job description text.
type JobParser interface {
	ParseJob(ctx context.Context, text string) (*types.JobRequirement, error)
}

// MLScorer produces the embedding-based score for a résumé/JD pair.
type MLScorer interface {
	Score(ctx context.Context, resume, jd string) types.MLScore
}

// Store persists finished analyses.
type Store interface {
	SaveAnalysis(ctx context.Context, a *db.Analysis) error
}

// Request is one pipeline run.
type Request struct {
	analysis.Request
	JobURL string `json:"jd_url,omitempty"`
	WithML bool   `json:"with_ml,omitempty"`
}

// Result bundles every stage's output.
type Result struct {
	Analysis *types.AnalysisResult         `json:"analysis"`
	ML       *types.MLScore                `json:"ml_score,omitempty"`
	Enhanced *types.EnhancedAnalysisResult `json:"enhanced"`
	JobURL   string                        `json:"jd_url,omitempty"`
	Stored   bool                          `json:"stored"`
}

// Pipeline wires the scoring components together. Only the analyzer is
// required.
type Pipeline struct {
	analyzer *analysis.Analyzer
	enhancer *adaptive.Enhancer
	ml       MLScorer
	fetcher  JobFetcher
	parser   JobParser
	store    Store
	logger   *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithEnhancer sets the fusion layer.
func WithEnhancer(e *adaptive.Enhancer) Option { return func(p *Pipeline) { p.enhancer = e } }

// WithMLScorer enables ML scoring for requests that ask for it.
func WithMLScorer(s MLScorer) Option { return func(p *Pipeline) { p.ml = s } }

// WithFetcher enables job descriptions by URL.
func WithFetcher(f JobFetcher) Option { return func(p *Pipeline) { p.fetcher = f } }

// WithJobParser enables requirement extraction for jobs given as bare text.
func WithJobParser(jp JobParser) Option { return func(p *Pipeline) { p.parser = jp } }

// WithStore enables persistence.
func WithStore(s Store) Option { return func(p *Pipeline) { p.store = s } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(p *Pipeline) { p.logger = logging.OrNop(l) } }

// New builds a Pipeline around analyzer.
func New(analyzer *analysis.Analyzer, opts ...Option) *Pipeline {
	p := &Pipeline{analyzer: analyzer, logger: zap.NewNop()}
	for _, o := range opts {
		o(p)
	}
	if p.enhancer == nil {
		p.enhancer = adaptive.NewEnhancer(adaptive.WithLogger(p.logger))
	}
	return p
}

// Run executes the pipeline. Persistence failures are logged, not returned.
func (p *Pipeline) Run(ctx context.Context, req Request, onProgress ProgressCallback) (*Result, error) {
	emit := func(step, msg string, content any) {
		if onProgress != nil {
			onProgress(ProgressEvent{Step: step, Message: msg, Content: content})
		}
	}

	if req.JobURL != "" {
		if err := p.resolveJob(ctx, &req); err != nil {
			return nil, err
		}
		emit(StepFetchJob, fmt.Sprintf("Fetched job description from %s (%d chars)", req.JobURL, len(req.Job.Text)), nil)
	}

	if p.parser != nil && needsParsing(req.Job) {
		if p.parseJob(ctx, &req) {
			emit(StepParseJob, fmt.Sprintf("Extracted %d required and %d preferred skills",
				len(req.Job.RequiredSkills), len(req.Job.PreferredSkills)), req.Job)
		}
	}

	out := &Result{JobURL: req.JobURL}
	resumeText := req.ResumeText
	if resumeText == "" && req.Profile != nil {
		resumeText = req.Profile.Text
	}
	jdText := req.Job.EffectiveText()
	runML := req.WithML && p.ml != nil && strings.TrimSpace(resumeText) != "" && strings.TrimSpace(jdText) != ""
	if req.WithML && !runML {
		p.logger.Warn("ML scoring requested but skipped",
			zap.Bool("scorer_configured", p.ml != nil),
			zap.Bool("has_resume_text", strings.TrimSpace(resumeText) != ""),
			zap.Bool("has_jd_text", strings.TrimSpace(jdText) != ""))
	}

	// the ML score does not depend on the rule-based analysis
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := p.analyzer.Analyze(gCtx, req.Request)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		out.Analysis = res
		return nil
	})
	if runML {
		g.Go(func() error {
			score := p.ml.Score(gCtx, resumeText, jdText)
			out.ML = &score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	emit(StepAnalyze, fmt.Sprintf("Rule-based score %.1f (%s)", out.Analysis.FinalScore, out.Analysis.Grade), out.Analysis)
	if out.ML != nil {
		emit(StepMLScore, fmt.Sprintf("ML score %.2f via %s", out.ML.Score, out.ML.Method), out.ML)
	}

	enhanced, err := p.enhancer.Enhance(adaptive.Input{
		Analysis: out.Analysis,
		ML:       out.ML,
		Profile:  req.Profile,
		JDText:   jdText,
	})
	if err != nil {
		return nil, fmt.Errorf("enhancement failed: %w", err)
	}
	out.Enhanced = enhanced
	emit(StepEnhance, fmt.Sprintf("Final score %.1f (%s)", enhanced.FinalScore, enhanced.Grade), enhanced)

	if p.store != nil {
		out.Stored = p.persist(ctx, out)
		if out.Stored {
			emit(StepPersist, "Stored analysis "+out.Analysis.ID, nil)
		}
	}
	return out, nil
}

func (p *Pipeline) resolveJob(ctx context.Context, req *Request) error {
	if p.fetcher == nil {
		return ErrNoFetcher
	}
	res, err := p.fetcher.JobDescription(ctx, req.JobURL)
	if err != nil {
		return fmt.Errorf("job description fetch failed: %w", err)
	}

	job := &types.JobRequirement{}
	if req.Job != nil {
		*job = *req.Job
	}
	if job.Text == "" {
		job.Text = res.Text
	}
	req.Job = job
	p.logger.Info("fetched job description",
		zap.String("url", req.JobURL),
		zap.String("platform", string(res.Platform)),
		zap.Bool("rendered", res.Rendered),
		zap.Int("chars", len(res.Text)))
	return nil
}

func needsParsing(job *types.JobRequirement) bool {
	return strings.TrimSpace(job.Text) != "" && len(job.RequiredSkills) == 0 && len(job.PreferredSkills) == 0
}

// parseJob fills the job's skill lists from its text. Failures are logged
// and the job is left as given.
func (p *Pipeline) parseJob(ctx context.Context, req *Request) bool {
	parsed, err := p.parser.ParseJob(ctx, req.Job.Text)
	if err != nil {
		p.logger.Warn("job requirement extraction failed; matching against JD text only", zap.Error(err))
		return false
	}
	job := *req.Job
	parsing.Merge(&job, parsed)
	req.Job = &job
	return true
}

func (p *Pipeline) persist(ctx context.Context, out *Result) bool {
	row, err := db.NewAnalysis(out.Analysis, out.Enhanced, out.ML)
	if err == nil {
		err = p.store.SaveAnalysis(ctx, row)
	}
	if err != nil {
		p.logger.Warn("failed to store analysis", zap.String("id", out.Analysis.ID), zap.Error(err))
		return false
	}
	return true
}
