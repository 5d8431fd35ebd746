// Package adaptive turns a rule-based analysis into a display-ready result:
// per-category 0-100 scores, optional fusion with an ML score, improvement
// tips and a summary.
package adaptive

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/types"
)

// ValidationError reports a malformed analysis handed to the enhancer.
type ValidationError struct {
	Reason string
	Cause  error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid analysis: %s: %v", e.Reason, e.Cause)
	}
	return "invalid analysis: " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// DecodeAnalysis parses a serialized analysis, rejecting documents that are
// not objects or lack final_score, grade or breakdown.
func DecodeAnalysis(data []byte) (*types.AnalysisResult, error) {
	if err := schemas.Validate(schemas.AnalysisResult, data); err != nil {
		return nil, &ValidationError{Reason: "schema", Cause: err}
	}
	var a types.AnalysisResult
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, &ValidationError{Reason: "decode", Cause: err}
	}
	if err := ValidateAnalysis(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ValidateAnalysis checks the fields the enhancer depends on.
func ValidateAnalysis(a *types.AnalysisResult) error {
	if a == nil {
		return &ValidationError{Reason: "analysis is nil"}
	}
	if len(a.Breakdown) == 0 {
		return &ValidationError{Reason: "breakdown is missing"}
	}
	if math.IsNaN(a.FinalScore) || math.IsInf(a.FinalScore, 0) {
		return &ValidationError{Reason: "final_score is not a number"}
	}
	for c, v := range a.Breakdown {
		if !c.Valid() {
			return &ValidationError{Reason: fmt.Sprintf("unknown breakdown category %q", c)}
		}
		if math.IsNaN(v) || v < 0 {
			return &ValidationError{Reason: fmt.Sprintf("breakdown %s has invalid score %v", c, v)}
		}
	}
	if err := a.Validate(); err != nil {
		return &ValidationError{Reason: "fields", Cause: err}
	}
	return nil
}
