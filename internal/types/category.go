// Package types provides type definitions for structured data used throughout the resume-scorer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// Category names one scoring dimension of an analysis.
type Category string

// Scoring categories. The string values are the stable breakdown keys.
const (
	FileLayout           Category = "file_layout"
	FontConsistency      Category = "font_consistency"
	Readability          Category = "readability"
	ProfessionalLanguage Category = "professional_language"
	DateConsistency      Category = "date_consistency"
	EmploymentGaps       Category = "employment_gaps"
	CareerProgression    Category = "career_progression"
	KeywordAlignment     Category = "keyword_alignment"
	SkillContext         Category = "skill_context"
	SemanticFit          Category = "semantic_fit"
	QuantifiedImpact     Category = "quantified_impact"
	OnlinePresence       Category = "online_presence"
)

type categorySpec struct {
	maxPoints float64
	weight    float64
	neutral   float64
}

// categoryTable holds the fixed ceiling, final-score weight, and the neutral
// score used when a checker cannot produce a result.
var categoryTable = map[Category]categorySpec{
	FileLayout:           {maxPoints: 20, weight: 0.10, neutral: 20},
	FontConsistency:      {maxPoints: 10, weight: 0.05, neutral: 10},
	Readability:          {maxPoints: 10, weight: 0.05, neutral: 7},
	ProfessionalLanguage: {maxPoints: 10, weight: 0.05, neutral: 7},
	DateConsistency:      {maxPoints: 5, weight: 0.025, neutral: 5},
	EmploymentGaps:       {maxPoints: 10, weight: 0.05, neutral: 10},
	CareerProgression:    {maxPoints: 5, weight: 0.025, neutral: 5},
	KeywordAlignment:     {maxPoints: 15, weight: 0.15, neutral: 7.5},
	SkillContext:         {maxPoints: 5, weight: 0.05, neutral: 2.5},
	SemanticFit:          {maxPoints: 20, weight: 0.25, neutral: 5},
	QuantifiedImpact:     {maxPoints: 10, weight: 0.15, neutral: 0},
	OnlinePresence:       {maxPoints: 5, weight: 0.05, neutral: 0},
}

// AllCategories lists every category in display order.
var AllCategories = []Category{
	FileLayout,
	FontConsistency,
	Readability,
	ProfessionalLanguage,
	DateConsistency,
	EmploymentGaps,
	CareerProgression,
	KeywordAlignment,
	SkillContext,
	SemanticFit,
	QuantifiedImpact,
	OnlinePresence,
}

// MaxPoints returns the raw-score ceiling for the category.
// Unknown categories default to 10.
func (c Category) MaxPoints() float64 {
	if spec, ok := categoryTable[c]; ok {
		return spec.maxPoints
	}
	return 10
}

// Weight returns the fraction of the final 0-100 score the category contributes
// when it scores its maximum. Unknown categories weigh nothing.
func (c Category) Weight() float64 {
	return categoryTable[c].weight
}

// NeutralScore returns the conservative fallback raw score for the category.
func (c Category) NeutralScore() float64 {
	return categoryTable[c].neutral
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// ParseCategory converts a breakdown key into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
