package checkers

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

// Formatting penalties.
const (
	tablePenalty        = 5
	imagePenalty        = 5
	tooManyFontsPenalty = 3
	nonStandardPenalty  = 2
	bodySizePenalty     = 2

	maxFonts        = 3
	bodySizeLow     = 10.0
	bodySizeHigh    = 12.0
	bodySizeScanMin = 9.0
	bodySizeScanMax = 13.0
)

var standardFonts = []string{"Arial", "Calibri", "Times New Roman", "Helvetica", "Georgia"}

// CheckFileLayout penalizes tables and images, which ATS parsers handle poorly.
func CheckFileLayout(_ context.Context, in *Input) types.CheckResult {
	score := types.FileLayout.MaxPoints()
	feedback := []string{}
	if in.Layout == nil {
		return types.NewCheckResult(types.FileLayout, score, feedback...)
	}
	if in.Layout.HasTables {
		score -= tablePenalty
		feedback = append(feedback, "Tables detected - may break ATS parsers")
	}
	if in.Layout.HasImages {
		score -= imagePenalty
		feedback = append(feedback, "Images/graphics detected - avoid visual elements")
	}
	return types.NewCheckResult(types.FileLayout, score, feedback...)
}

// CheckFontConsistency penalizes too many fonts, non-standard families and
// body text outside 10-12pt.
func CheckFontConsistency(_ context.Context, in *Input) types.CheckResult {
	score := types.FontConsistency.MaxPoints()
	feedback := []string{}
	if in.Layout == nil {
		return types.NewCheckResult(types.FontConsistency, score, feedback...)
	}

	fonts := distinctFonts(in.Layout.FontNames)
	if len(fonts) > maxFonts {
		score -= tooManyFontsPenalty
		feedback = append(feedback, fmt.Sprintf("Too many fonts (%d) - use 1-2 standard fonts", len(fonts)))
	}
	for _, f := range fonts {
		if !isStandardFont(f) {
			score -= nonStandardPenalty
			feedback = append(feedback, "Use standard fonts (Arial, Calibri, Times New Roman)")
			break
		}
	}

	for _, size := range in.Layout.FontSizes {
		if size < bodySizeScanMin || size > bodySizeScanMax {
			continue
		}
		if size < bodySizeLow || size > bodySizeHigh {
			score -= bodySizePenalty
			feedback = append(feedback, "Use 10-12pt font for body text")
			break
		}
	}
	return types.NewCheckResult(types.FontConsistency, score, feedback...)
}

func distinctFonts(names []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[strings.ToLower(n)] {
			continue
		}
		seen[strings.ToLower(n)] = true
		out = append(out, n)
	}
	return out
}

// isStandardFont accepts family names with style suffixes such as "Arial-Bold".
func isStandardFont(name string) bool {
	lower := strings.ToLower(name)
	for _, f := range standardFonts {
		if strings.Contains(lower, strings.ToLower(f)) {
			return true
		}
	}
	return false
}
