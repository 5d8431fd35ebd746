package checkers

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/resume-scorer/internal/types"
)

// Chronology constants.
const (
	dateMismatchPenalty = 3
	gapThresholdMonths  = 6
	gapPenalty          = 3
	limitedYears        = 2.0
	limitedPenalty      = 2
	promotionBonus      = 2
	noSeniorityPenalty  = 1
	progressionCeiling  = 10
)

// datePatterns are tried in order to identify the format of the first date.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{2}/\d{4}$`), // 01/2020
	regexp.MustCompile(`^\w{3} \d{4}$`), // Jan 2020
	regexp.MustCompile(`^\w+ \d{4}$`),   // January 2020
	regexp.MustCompile(`^\d{4}$`),       // 2020
}

var dateLayouts = []string{"01/2006", "1/2006", "Jan 2006", "January 2006", "2006-01", "2006-01-02", "2006"}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

var seniorityKeywords = []string{"junior", "senior", "lead", "principal", "manager", "director"}

// ParseDate parses a work-history date. Empty and "present" resolve to now.
// The second return is false when the string cannot be understood.
func ParseDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, types.PresentSentinel) || strings.EqualFold(s, "current") {
		return now, true
	}
	s = strings.ReplaceAll(s, ".", "")
	if len(s) > 4 && strings.HasPrefix(strings.ToLower(s), "sept") {
		s = "Sep" + s[4:]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if y := yearPattern.FindString(s); y != "" {
		if t, err := time.Parse("2006", y); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// TotalYears sums the months spanned by every job with parseable dates.
func TotalYears(work []types.WorkExperience, now time.Time) float64 {
	months := 0
	for _, w := range work {
		start, ok1 := ParseDate(w.StartDate, now)
		end, ok2 := ParseDate(w.EndDate, now)
		if !ok1 || !ok2 || strings.TrimSpace(w.StartDate) == "" {
			continue
		}
		months += max(0, monthsBetween(start, end))
	}
	return float64(months) / 12
}

// CheckDateConsistency verifies every date uses the format of the first one.
func CheckDateConsistency(_ context.Context, in *Input) types.CheckResult {
	var dates []string
	for _, w := range in.work() {
		if d := strings.TrimSpace(w.StartDate); d != "" {
			dates = append(dates, d)
		}
		if d := strings.TrimSpace(w.EndDate); d != "" {
			dates = append(dates, d)
		}
	}
	score := types.DateConsistency.MaxPoints()
	if len(dates) == 0 {
		return types.NewCheckResult(types.DateConsistency, score)
	}

	var first *regexp.Regexp
	for _, p := range datePatterns {
		if p.MatchString(dates[0]) {
			first = p
			break
		}
	}
	if first == nil {
		return types.NewCheckResult(types.DateConsistency, score)
	}
	for _, d := range dates[1:] {
		if !first.MatchString(d) {
			return types.NewCheckResult(types.DateConsistency, score-dateMismatchPenalty,
				"Inconsistent date formatting - use same format throughout")
		}
	}
	return types.NewCheckResult(types.DateConsistency, score)
}

type datedJob struct {
	start, end     time.Time
	startOK, endOK bool
}

// CheckEmploymentGaps counts gaps longer than six months between consecutive jobs.
func CheckEmploymentGaps(_ context.Context, in *Input) types.CheckResult {
	work := in.work()
	score := types.EmploymentGaps.MaxPoints()
	if len(work) < 2 {
		return types.NewCheckResult(types.EmploymentGaps, score)
	}

	now := in.now()
	jobs := make([]datedJob, len(work))
	for i, w := range work {
		var j datedJob
		if strings.TrimSpace(w.StartDate) != "" {
			j.start, j.startOK = ParseDate(w.StartDate, now)
		}
		j.end, j.endOK = ParseDate(w.EndDate, now)
		jobs[i] = j
	}
	sort.SliceStable(jobs, func(a, b int) bool {
		if jobs[a].startOK != jobs[b].startOK {
			return jobs[a].startOK
		}
		return jobs[a].start.Before(jobs[b].start)
	})

	gaps := 0
	for i := 0; i+1 < len(jobs); i++ {
		cur, next := jobs[i], jobs[i+1]
		if !cur.endOK || !next.startOK {
			continue
		}
		if monthsBetween(cur.end, next.start) > gapThresholdMonths {
			gaps++
		}
	}
	if gaps == 0 {
		return types.NewCheckResult(types.EmploymentGaps, score)
	}
	return types.NewCheckResult(types.EmploymentGaps, score-min(score, float64(gaps*gapPenalty)),
		fmt.Sprintf("%d employment gap(s) > 6 months detected", gaps))
}

// CheckCareerProgression scores tenure, promotions within a company and
// seniority keywords in titles. The intermediate score may reach 10 before
// the result is clamped to the category ceiling.
func CheckCareerProgression(_ context.Context, in *Input) types.CheckResult {
	work := in.work()
	if len(work) == 0 {
		return types.NewCheckResult(types.CareerProgression, 0, "No work experience listed")
	}

	score := types.CareerProgression.MaxPoints()
	feedback := []string{}

	if years := TotalYears(work, in.now()); years < limitedYears {
		score -= limitedPenalty
		feedback = append(feedback, fmt.Sprintf("Limited experience (%.1f years)", years))
	}

	titlesByCompany := map[string]map[string]bool{}
	var companies []string
	for _, w := range work {
		company := strings.ToLower(strings.TrimSpace(w.Company))
		if company == "" {
			continue
		}
		if titlesByCompany[company] == nil {
			titlesByCompany[company] = map[string]bool{}
			companies = append(companies, company)
		}
		titlesByCompany[company][strings.ToLower(strings.TrimSpace(w.Title))] = true
	}
	promotions := 0
	for _, c := range companies {
		if len(titlesByCompany[c]) > 1 {
			promotions++
		}
	}
	if promotions > 0 {
		score += promotionBonus
		feedback = append(feedback, fmt.Sprintf("Career progression: %d promotion(s) detected", promotions))
	}

	if !hasSeniorityKeyword(work) && len(work) > 2 {
		score -= noSeniorityPenalty
		feedback = append(feedback, "No clear seniority progression in titles")
	}

	score = max(0, min(progressionCeiling, score))
	return types.NewCheckResult(types.CareerProgression, score, feedback...)
}

func hasSeniorityKeyword(work []types.WorkExperience) bool {
	for _, w := range work {
		title := strings.ToLower(w.Title)
		for _, kw := range seniorityKeywords {
			if strings.Contains(title, kw) {
				return true
			}
		}
	}
	return false
}
