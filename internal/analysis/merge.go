package analysis

import (
	"github.com/jonathan/resume-scorer/internal/types"
)

// MergePolicy combines several results for the same category into one.
type MergePolicy interface {
	Merge(results []types.CheckResult) types.CheckResult
}

// MaxScore keeps the highest raw score among the variants. Either variant
// detecting the signal is enough. Feedback from every variant is kept in
// order, without duplicates.
type MaxScore struct{}

// Merge implements MergePolicy.
func (MaxScore) Merge(results []types.CheckResult) types.CheckResult {
	if len(results) == 0 {
		return types.CheckResult{}
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.RawScore > best.RawScore {
			best.RawScore = r.RawScore
		}
		if best.Details == nil && r.Details != nil {
			best.Details = r.Details
		}
	}

	seen := map[string]bool{}
	feedback := []string{}
	for _, r := range results {
		for _, f := range r.Feedback {
			if !seen[f] {
				seen[f] = true
				feedback = append(feedback, f)
			}
		}
	}
	best.Feedback = feedback
	return best.Clamped()
}
