package checkers

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/resume-scorer/internal/textutil"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Flesch bands.
const (
	fleschIdealLow  = 60.0
	fleschIdealHigh = 80.0
)

var actionVerbs = map[string]bool{
	"led": true, "managed": true, "developed": true, "created": true,
	"implemented": true, "designed": true, "built": true, "launched": true,
	"increased": true, "improved": true, "reduced": true, "achieved": true,
	"delivered": true, "executed": true, "established": true, "optimized": true,
	"streamlined": true, "coordinated": true, "directed": true,
	"spearheaded": true, "initiated": true, "drove": true,
}

var buzzwords = []string{
	"team player", "hardworking", "go-getter", "synergy", "leverage",
	"think outside the box", "results-driven", "detail-oriented",
	"self-starter", "motivated", "passionate", "dynamic",
}

// CheckReadability maps the Flesch Reading Ease of the résumé onto three bands.
func CheckReadability(_ context.Context, in *Input) types.CheckResult {
	ease, err := textutil.FleschReadingEase(in.ResumeText)
	if err != nil || math.IsNaN(ease) {
		return types.NeutralResult(types.Readability)
	}
	switch {
	case ease >= fleschIdealLow && ease <= fleschIdealHigh:
		return types.NewCheckResult(types.Readability, 10)
	case ease < fleschIdealLow:
		return types.NewCheckResult(types.Readability, 6, "Consider simplifying complex sentences")
	default:
		return types.NewCheckResult(types.Readability, 8)
	}
}

// CheckProfessionalLanguage rewards bullets that open with an action verb and
// deducts one point when the text leans on more than three buzzwords.
func CheckProfessionalLanguage(_ context.Context, in *Input) types.CheckResult {
	score := 7.0
	feedback := []string{}

	if len(in.Bullets) > 0 {
		hits := 0
		for _, b := range in.Bullets {
			fields := strings.Fields(strings.TrimLeft(strings.TrimSpace(b), "•-*· "))
			if len(fields) == 0 {
				continue
			}
			first := strings.ToLower(strings.Trim(fields[0], ".,:;"))
			if actionVerbs[first] {
				hits++
			}
		}
		pct := float64(hits) / float64(len(in.Bullets))
		switch {
		case pct >= 0.8:
			score = 10
		case pct >= 0.5:
			score = 8
		case pct >= 0.3:
			score = 7
		default:
			score = 6
			feedback = append(feedback, fmt.Sprintf("Use more action verbs (currently %.0f%%)", pct*100))
		}
	}

	lower := strings.ToLower(in.ResumeText)
	var found []string
	for _, bw := range buzzwords {
		if strings.Contains(lower, bw) {
			found = append(found, bw)
		}
	}
	if len(found) > 3 {
		score--
		feedback = append(feedback, "Reduce buzzwords: "+strings.Join(found[:2], ", "))
	}
	return types.NewCheckResult(types.ProfessionalLanguage, score, feedback...)
}
