// Package checkers implements the independent category scorers that make up
// a résumé analysis. Each checker reads an Input and returns a clamped
// types.CheckResult; none depends on another checker's output.
package checkers

import (
	"context"
	"time"

	"github.com/jonathan/resume-scorer/internal/types"
)

// Input carries everything a checker may look at for one analysis.
// All fields are read-only.
type Input struct {
	Profile        *types.CandidateProfile
	Job            *types.JobRequirement
	Layout         *types.LayoutMetadata
	ResumeText     string
	ExperienceText string
	Bullets        []string
	ContactText    string
	Now            time.Time
}

// JDText returns the job description text, or "" when there is no job.
// Structured jobs without text are rendered from their title and skills.
func (in *Input) JDText() string {
	return in.Job.EffectiveText()
}

func (in *Input) work() []types.WorkExperience {
	if in.Profile == nil {
		return nil
	}
	return in.Profile.Experience
}

func (in *Input) skills() []string {
	if in.Profile == nil {
		return nil
	}
	return in.Profile.SkillNames()
}

func (in *Input) now() time.Time {
	if in.Now.IsZero() {
		return time.Now()
	}
	return in.Now
}

// Checker scores one category.
type Checker interface {
	Name() string
	Category() types.Category
	Check(ctx context.Context, in *Input) types.CheckResult
}

// Func adapts a plain function into a Checker.
type Func struct {
	name     string
	category types.Category
	fn       func(ctx context.Context, in *Input) types.CheckResult
}

// NewFunc builds a Checker from a function.
func NewFunc(name string, c types.Category, fn func(ctx context.Context, in *Input) types.CheckResult) *Func {
	return &Func{name: name, category: c, fn: fn}
}

// Name returns the checker name.
func (f *Func) Name() string { return f.name }

// Category returns the scored category.
func (f *Func) Category() types.Category { return f.category }

// Check runs the function and clamps its result to the category.
func (f *Func) Check(ctx context.Context, in *Input) types.CheckResult {
	r := f.fn(ctx, in)
	r.Category = f.category
	r.MaxPoints = f.category.MaxPoints()
	return r.Clamped()
}

// Deps are the shared resources some checkers need.
type Deps struct {
	Semantic *SemanticFit
}

// Default returns the full checker set. Career progression and quantified
// impact each appear twice, once per variant; the orchestrator merges them.
func Default(deps Deps) []Checker {
	semantic := deps.Semantic
	if semantic == nil {
		semantic = NewSemanticFit(nil, nil)
	}
	return []Checker{
		NewFunc("file_layout", types.FileLayout, CheckFileLayout),
		NewFunc("font_consistency", types.FontConsistency, CheckFontConsistency),
		NewFunc("readability", types.Readability, CheckReadability),
		NewFunc("professional_language", types.ProfessionalLanguage, CheckProfessionalLanguage),
		NewFunc("date_consistency", types.DateConsistency, CheckDateConsistency),
		NewFunc("employment_gaps", types.EmploymentGaps, CheckEmploymentGaps),
		NewFunc("career_progression", types.CareerProgression, CheckCareerProgression),
		NewFunc("career_progression_pattern", types.CareerProgression, CheckProgressionPattern),
		NewFunc("keyword_alignment", types.KeywordAlignment, CheckKeywordAlignment),
		NewFunc("skill_context", types.SkillContext, CheckSkillContext),
		semantic,
		NewFunc("quantified_impact", types.QuantifiedImpact, CheckQuantifiedImpact),
		NewFunc("quantified_impact_pattern", types.QuantifiedImpact, CheckImpactPattern),
		NewFunc("online_presence", types.OnlinePresence, CheckOnlinePresence),
	}
}

// fromPercent maps a 0-100 variant score onto the category's raw scale.
func fromPercent(c types.Category, pct float64) float64 {
	return pct / 100 * c.MaxPoints()
}
