package checkers

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/resume-scorer/internal/types"
)

// Seniority levels used by the progression pattern.
const (
	levelJunior = 1
	levelMid    = 2
	levelSenior = 3
)

var (
	juniorTitleKeywords = []string{"junior", "associate", "intern", "trainee", "entry"}
	midTitleKeywords    = []string{"developer", "engineer", "analyst", "consultant"}
	seniorTitleKeywords = []string{"senior", "lead", "principal", "architect", "manager", "director", "head"}
)

var impactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d+%`),
	regexp.MustCompile(`(?i)\$\d+[KMB]?`),
	regexp.MustCompile(`(?i)\b\d+\s*(increase|reduction|growth|improvement|saved|generated)`),
	regexp.MustCompile(`(?i)\b\d+\s*(users|customers|clients|projects)`),
	regexp.MustCompile(`(?i)\b\d+x\b`),
}

// TitleLevel classifies a job title as junior, mid or senior.
// Titles without a recognizable keyword default to mid.
func TitleLevel(title string) int {
	t := strings.ToLower(title)
	switch {
	case containsAny(t, seniorTitleKeywords):
		return levelSenior
	case containsAny(t, midTitleKeywords):
		return levelMid
	case containsAny(t, juniorTitleKeywords):
		return levelJunior
	default:
		return levelMid
	}
}

// ProgressionPercent scores the seniority trajectory of a chronologically
// ordered history on a 0-100 scale.
func ProgressionPercent(levels []int) float64 {
	if len(levels) < 2 {
		return 0
	}
	first, last := levels[0], levels[len(levels)-1]
	peak, flat := first, true
	for _, l := range levels {
		peak = max(peak, l)
		if l != first {
			flat = false
		}
	}
	switch {
	case last > first:
		return 80
	case last == first && peak > first:
		return 60
	case flat:
		return 40
	default:
		return 20
	}
}

// CheckProgressionPattern is the keyword-trajectory variant of career progression.
func CheckProgressionPattern(_ context.Context, in *Input) types.CheckResult {
	work := chronological(in.work(), in.now())
	levels := make([]int, len(work))
	for i, w := range work {
		levels[i] = TitleLevel(w.Title)
	}
	pct := ProgressionPercent(levels)
	return types.NewCheckResult(types.CareerProgression, fromPercent(types.CareerProgression, pct))
}

// CountImpactSignals counts matches across the five quantification families.
func CountImpactSignals(text string) int {
	n := 0
	for _, p := range impactPatterns {
		n += len(p.FindAllStringIndex(text, -1))
	}
	return n
}

// ImpactPercent maps a quantification count onto a 0-100 scale.
func ImpactPercent(matches int) float64 {
	switch {
	case matches >= 5:
		return 100
	case matches >= 3:
		return 75
	case matches >= 1:
		return 50
	default:
		return 0
	}
}

// CheckImpactPattern is the pattern-family variant of quantified impact.
func CheckImpactPattern(_ context.Context, in *Input) types.CheckResult {
	pct := ImpactPercent(CountImpactSignals(in.ExperienceText))
	return types.NewCheckResult(types.QuantifiedImpact, fromPercent(types.QuantifiedImpact, pct))
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// chronological orders jobs by start date when every start date parses;
// otherwise the listed order is kept.
func chronological(work []types.WorkExperience, now time.Time) []types.WorkExperience {
	starts := make([]time.Time, len(work))
	for i, w := range work {
		t, ok := ParseDate(w.StartDate, now)
		if !ok || strings.TrimSpace(w.StartDate) == "" {
			return work
		}
		starts[i] = t
	}
	idx := make([]int, len(work))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return starts[idx[a]].Before(starts[idx[b]]) })
	out := make([]types.WorkExperience, len(work))
	for i, j := range idx {
		out[i] = work[j]
	}
	return out
}
