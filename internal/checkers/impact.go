package checkers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

var (
	percentPattern = regexp.MustCompile(`\d+%`)
	moneyPattern   = regexp.MustCompile(`(?i)\$\d+[KMB]?`)
	scalePattern   = regexp.MustCompile(`(?i)\d+\+?\s+(users|customers|clients|employees|projects)`)

	linkedInPattern  = regexp.MustCompile(`linkedin\.com`)
	githubPattern    = regexp.MustCompile(`github\.com`)
	portfolioPattern = regexp.MustCompile(`(portfolio|website|blog)`)
)

var experienceVerbs = []string{
	"developed", "created", "implemented", "managed", "led",
	"designed", "built", "worked", "responsible",
}

// minExperienceChars is the length above which unquantified text still
// counts as real experience.
const minExperienceChars = 100

// CountMetrics counts percentages, dollar amounts and scale nouns in text.
func CountMetrics(text string) int {
	return len(percentPattern.FindAllStringIndex(text, -1)) +
		len(moneyPattern.FindAllStringIndex(text, -1)) +
		len(scalePattern.FindAllStringIndex(text, -1))
}

// CheckQuantifiedImpact scores how many quantified achievements the
// experience text contains.
func CheckQuantifiedImpact(_ context.Context, in *Input) types.CheckResult {
	text := in.ExperienceText
	if strings.TrimSpace(text) == "" {
		return types.NewCheckResult(types.QuantifiedImpact, 0, "No experience section to analyze")
	}

	metrics := CountMetrics(text)
	hasExperience := len(text) > minExperienceChars && containsAny(strings.ToLower(text), experienceVerbs)

	var score float64
	switch {
	case metrics >= 5:
		score = 10
	case metrics >= 3:
		score = 8
	case metrics >= 1:
		score = 6
	case hasExperience:
		score = 5
	}

	var msg string
	switch {
	case metrics == 0:
		msg = "Add quantified achievements (%, $, numbers)"
	case metrics < 3:
		msg = fmt.Sprintf("%d metric(s) found - add more for stronger impact", metrics)
	default:
		msg = fmt.Sprintf("Strong quantification: %d metrics found", metrics)
	}
	return types.NewCheckResult(types.QuantifiedImpact, score, msg)
}

// CheckOnlinePresence awards points for a professional-network profile and
// for a code-hosting profile or portfolio in the contact block.
func CheckOnlinePresence(_ context.Context, in *Input) types.CheckResult {
	contact := strings.ToLower(in.ContactText)
	if strings.TrimSpace(contact) == "" {
		return types.NewCheckResult(types.OnlinePresence, 0)
	}

	score := 0.0
	feedback := []string{}
	if linkedInPattern.MatchString(contact) {
		score += 2
		feedback = append(feedback, "LinkedIn profile included")
	} else {
		feedback = append(feedback, "Add LinkedIn profile URL")
	}

	switch {
	case githubPattern.MatchString(contact):
		score += 3
		feedback = append(feedback, "GitHub profile included")
	case portfolioPattern.MatchString(contact):
		score += 2
		feedback = append(feedback, "Portfolio/website included")
	default:
		feedback = append(feedback, "Consider adding GitHub or portfolio link")
	}
	return types.NewCheckResult(types.OnlinePresence, score, feedback...)
}
