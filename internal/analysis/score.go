// Package analysis runs the checker set for one candidate and job, merges
// the per-category results and computes the weighted final score.
package analysis

import (
	"math"

	"github.com/jonathan/resume-scorer/internal/types"
)

// Mismatch override thresholds on the raw semantic_fit score (of 20) and
// the caps they impose on the final score.
const (
	CriticalSemanticFit = 4.0
	WeakSemanticFit     = 7.0
	CriticalCap         = 30.0
	WeakCap             = 50.0

	CriticalMismatchMessage = "⚠️ CRITICAL: Resume does not match job role requirements"
	WeakAlignmentMessage    = "⚠️ WARNING: Weak job-role alignment detected"
)

// WeightedScore normalizes each raw score to 0-100 against its category
// ceiling and sums the weighted values, clamped to [0, 100]. Unknown
// categories carry no weight. Categories are summed in display order so
// identical breakdowns produce identical totals.
func WeightedScore(breakdown map[types.Category]float64) float64 {
	var total float64
	for _, c := range types.AllCategories {
		raw, ok := breakdown[c]
		if !ok {
			continue
		}
		total += raw / c.MaxPoints() * 100 * c.Weight()
	}
	return math.Min(100, math.Max(0, total))
}

// ApplyMismatchOverride caps score when a job is present and the semantic
// fit is low. It returns the capped score and the message to prepend, if any.
func ApplyMismatchOverride(score, semanticFit float64, hasJob bool) (float64, string) {
	if !hasJob {
		return score, ""
	}
	switch {
	case semanticFit < CriticalSemanticFit:
		return math.Min(score, CriticalCap), CriticalMismatchMessage
	case semanticFit < WeakSemanticFit:
		return math.Min(score, WeakCap), WeakAlignmentMessage
	default:
		return score, ""
	}
}

// FinalScore computes the rounded final score, grade and override message
// for a breakdown.
func FinalScore(breakdown map[types.Category]float64, hasJob bool) (float64, types.Grade, string) {
	score := WeightedScore(breakdown)
	score, msg := ApplyMismatchOverride(score, breakdown[types.SemanticFit], hasJob)
	score = Round1(score)
	return score, types.GradeFor(score), msg
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
