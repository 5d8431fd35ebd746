// Package types provides type definitions for structured data used throughout the resume-scorer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PresentSentinel marks a work experience that has not ended.
const PresentSentinel = "present"

// CandidateProfile is the structured résumé produced by an entity extractor.
// It is treated as read-only by every checker.
type CandidateProfile struct {
	Name       string             `json:"name"`
	Email      string             `json:"email,omitempty"`
	Phone      string             `json:"phone,omitempty"`
	Links      []string           `json:"links,omitempty"`
	Skills     []Skill            `json:"skills"`
	Experience []WorkExperience   `json:"experience" validate:"dive"`
	Degrees    []string           `json:"degrees,omitempty"`
	Text       string             `json:"text"`
	Confidence map[string]float64 `json:"confidence,omitempty" validate:"omitempty,dive,gte=0,lte=1"`
}

// Skill is a single skill listed by the candidate.
type Skill struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts either a plain string or an object carrying the
// skill under "name", "label" or "skill".
func (s *Skill) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		s.Name = strings.TrimSpace(plain)
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("skill must be a string or object: %w", err)
	}
	for _, key := range []string{"name", "label", "skill"} {
		if v, ok := obj[key].(string); ok && strings.TrimSpace(v) != "" {
			s.Name = strings.TrimSpace(v)
			return nil
		}
	}
	s.Name = ""
	return nil
}

// WorkExperience is one entry of the candidate's work history.
// Dates are kept as the extractor produced them; EndDate may be empty or
// "present" for the current role.
type WorkExperience struct {
	Company   string `json:"company"`
	Title     string `json:"title" validate:"required"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
}

// IsCurrent reports whether the role is still ongoing.
func (w WorkExperience) IsCurrent() bool {
	end := strings.TrimSpace(w.EndDate)
	return end == "" || strings.EqualFold(end, PresentSentinel)
}

// SkillNames returns the non-empty skill names in listed order.
func (p *CandidateProfile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		if n := strings.TrimSpace(s.Name); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Validate validates the CandidateProfile using the validator.
func (p *CandidateProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
