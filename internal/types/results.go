// Package types provides type definitions for structured data used throughout the resume-scorer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"math"

	"github.com/go-playground/validator/v10"
)

// CheckResult is the outcome of one category scorer.
// RawScore always lies in [0, MaxPoints].
type CheckResult struct {
	Category  Category           `json:"category"`
	RawScore  float64            `json:"raw_score"`
	MaxPoints float64            `json:"max_points"`
	Feedback  []string           `json:"feedback"`
	Details   *SkillMatchDetails `json:"details,omitempty"`
}

// NewCheckResult builds a clamped result for the category.
func NewCheckResult(c Category, score float64, feedback ...string) CheckResult {
	if feedback == nil {
		feedback = []string{}
	}
	r := CheckResult{
		Category:  c,
		RawScore:  score,
		MaxPoints: c.MaxPoints(),
		Feedback:  feedback,
	}
	return r.Clamped()
}

// NeutralResult is the fallback substituted when a checker cannot run.
func NeutralResult(c Category, feedback ...string) CheckResult {
	return NewCheckResult(c, c.NeutralScore(), feedback...)
}

// Clamped returns a copy with RawScore forced into [0, MaxPoints].
// NaN scores collapse to zero.
func (r CheckResult) Clamped() CheckResult {
	if r.MaxPoints <= 0 {
		r.MaxPoints = r.Category.MaxPoints()
	}
	switch {
	case math.IsNaN(r.RawScore) || r.RawScore < 0:
		r.RawScore = 0
	case r.RawScore > r.MaxPoints:
		r.RawScore = r.MaxPoints
	}
	return r
}

// Percent returns the score on a 0-100 scale.
func (r CheckResult) Percent() float64 {
	if r.MaxPoints <= 0 {
		return 0
	}
	return r.RawScore / r.MaxPoints * 100
}

// Grade is a letter grade derived from a 0-100 score.
type Grade string

// Letter grades.
const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// GradeFor maps a final score onto the letter bands 90/80/70/60.
func GradeFor(score float64) Grade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	default:
		return GradeF
	}
}

// SkillMatchDetails summarizes JD keyword coverage for an analysis.
type SkillMatchDetails struct {
	Matched          []string `json:"matched"`
	Missing          []string `json:"missing"`
	MatchedCount     int      `json:"matched_count"`
	MissingCount     int      `json:"missing_count"`
	MatchedTechnical []string `json:"matched_technical,omitempty"`
	MissingTechnical []string `json:"missing_technical,omitempty"`
	MatchedSoft      []string `json:"matched_soft,omitempty"`
	MissingSoft      []string `json:"missing_soft,omitempty"`
}

// AnalysisResult is the rule-based verdict for one (candidate, job) pair.
// It is never mutated after construction.
type AnalysisResult struct {
	ID                string               `json:"id,omitempty"`
	FinalScore        float64              `json:"final_score" validate:"gte=0,lte=100"`
	Grade             Grade                `json:"grade" validate:"required,oneof=A B C D F"`
	Breakdown         map[Category]float64 `json:"breakdown" validate:"required"`
	Feedback          []string             `json:"feedback"`
	SkillMatchDetails SkillMatchDetails    `json:"skill_match_details"`
	SkillMatch        *SkillMatchResult    `json:"skill_match,omitempty"`
	Checks            []CheckResult        `json:"checks,omitempty"`
}

// Validate validates the AnalysisResult using the validator.
func (a *AnalysisResult) Validate() error {
	validate := validator.New()
	return validate.Struct(a)
}

// SkillMatchResult is the outcome of matching candidate skills against the
// skills a job requires.
type SkillMatchResult struct {
	Matched           []string          `json:"matched_skills"`
	Missing           []string          `json:"missing_skills"`
	MatchPercentage   float64           `json:"match_percentage"`
	MatchMap          map[string]string `json:"match_map"`
	Methods           map[string]string `json:"match_methods,omitempty"`
	TotalJDSkills     int               `json:"total_jd_skills"`
	TotalResumeSkills int               `json:"total_resume_skills"`
	MatchedTechnical  []string          `json:"matched_technical,omitempty"`
	MissingTechnical  []string          `json:"missing_technical,omitempty"`
	WeightedCoverage  *float64          `json:"weighted_coverage,omitempty"`
}

// MLScore is the model-based relevance score between a résumé and a JD.
type MLScore struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
	Method      string  `json:"method"`
	Similarity  float64 `json:"similarity"`
}

// Improvement is an actionable suggestion for a weak category.
type Improvement struct {
	Category Category `json:"category"`
	Score    float64  `json:"score"`
	Tip      string   `json:"tip"`
}

// EnhancedAnalysisResult is the display-ready result after rule/ML fusion.
type EnhancedAnalysisResult struct {
	ID                string               `json:"id,omitempty"`
	FinalScore        float64              `json:"final_score"`
	Grade             Grade                `json:"grade"`
	RuleScore         float64              `json:"rule_score"`
	MLScore           *float64             `json:"ml_score,omitempty"`
	MLExplanation     string               `json:"ml_explanation,omitempty"`
	FormattingPenalty float64              `json:"formatting_penalty"`
	Breakdown         map[Category]float64 `json:"breakdown"`
	DisplayBreakdown  map[Category]float64 `json:"display_breakdown"`
	Feedback          []string             `json:"feedback"`
	Suggestions       []string             `json:"enhanced_feedback"`
	Improvements      []Improvement        `json:"improvements"`
	Summary           string               `json:"summary"`
	SkillMatchDetails SkillMatchDetails    `json:"skill_match_details"`
}
