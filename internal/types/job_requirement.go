// Package types provides type definitions for structured data used throughout the resume-scorer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// JobRequirement represents a job description, either as free text or
// pre-structured by a JD parser.
type JobRequirement struct {
	Title           string   `json:"title,omitempty"`
	Text            string   `json:"text"`
	RequiredSkills  []string `json:"required_skills,omitempty"`
	PreferredSkills []string `json:"preferred_skills,omitempty"`
	MinYears        int      `json:"min_years,omitempty" validate:"gte=0"`
}

// HasText reports whether the job carries anything to align against: free
// text, a title or skill lists.
func (j *JobRequirement) HasText() bool {
	return strings.TrimSpace(j.EffectiveText()) != ""
}

// EffectiveText returns the description text. A structured job without text
// is rendered from its title and skill lists.
func (j *JobRequirement) EffectiveText() string {
	if j == nil {
		return ""
	}
	if strings.TrimSpace(j.Text) != "" {
		return j.Text
	}
	var parts []string
	if t := strings.TrimSpace(j.Title); t != "" {
		parts = append(parts, t+".")
	}
	if len(j.RequiredSkills) > 0 {
		parts = append(parts, "Required skills: "+strings.Join(j.RequiredSkills, ", ")+".")
	}
	if len(j.PreferredSkills) > 0 {
		parts = append(parts, "Preferred skills: "+strings.Join(j.PreferredSkills, ", ")+".")
	}
	return strings.Join(parts, " ")
}

// Validate validates the JobRequirement using the validator.
func (j *JobRequirement) Validate() error {
	validate := validator.New()
	return validate.Struct(j)
}

// SkillTarget is a weighted skill the job asks for.
type SkillTarget struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Source string  `json:"source"`
}

// Skill target sources.
const (
	SourceRequired  = "required"
	SourcePreferred = "preferred"
)

// LayoutMetadata describes the visual structure of the source document as
// reported by the text/layout extractor.
type LayoutMetadata struct {
	HasTables bool      `json:"has_tables"`
	HasImages bool      `json:"has_images"`
	FontNames []string  `json:"font_names,omitempty"`
	FontSizes []float64 `json:"font_sizes,omitempty"`
}
