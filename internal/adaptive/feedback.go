package adaptive

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

const maxSuggestions = 5

// Display-score thresholds for suggestions.
const (
	criticalBelow    = 50.0
	importantBelow   = 70.0
	enhancementBelow = 85.0
)

var commonTech = []string{"api", "aws", "docker", "java", "kubernetes", "python", "react", "sql"}

// Suggestions returns up to five prioritized, template-based suggestions
// from display scores. Critical gaps come first, then important ones, then
// polish.
func Suggestions(display map[types.Category]float64, missing, skills []string, jdText string) []string {
	score := func(c types.Category) float64 {
		if v, ok := display[c]; ok {
			return v
		}
		return 100
	}

	out := []string{}
	if score(types.KeywordAlignment) < criticalBelow {
		out = append(out, keywordSuggestion(missing, skills, jdText))
	}
	if score(types.SemanticFit) < criticalBelow {
		out = append(out, "Expand on relevant experience in target role")
	}
	if score(types.QuantifiedImpact) < importantBelow {
		out = append(out, "Quantify achievements with metrics (e.g., 'Increased sales by 25%')")
	}
	if score(types.ProfessionalLanguage) < importantBelow {
		out = append(out, "Replace weak verbs with strong action words: Led, Achieved, Implemented, Optimized")
	}
	if score(types.FileLayout) < enhancementBelow {
		out = append(out, "Use consistent formatting throughout (fonts, spacing, bullets)")
	}
	if score(types.Readability) < enhancementBelow {
		out = append(out, "Simplify complex sentences for better clarity")
	}
	return out[:min(len(out), maxSuggestions)]
}

// keywordSuggestion names missing JD terms: the analysis's missing keywords
// when known, otherwise common technologies the JD mentions that the
// candidate does not list.
func keywordSuggestion(missing, skills []string, jdText string) string {
	if len(missing) > 0 {
		return fmt.Sprintf("Add %d key terms from the job description: %s", len(missing), strings.Join(missing[:min(len(missing), 5)], ", "))
	}
	if strings.TrimSpace(jdText) == "" {
		return "Add 3 key terms from the job description: relevant technical terms"
	}

	have := map[string]bool{}
	for _, s := range skills {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}
	words := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(jdText)) {
		words[strings.Trim(w, ".,;:()[]\"'")] = true
	}
	var absent []string
	for _, t := range commonTech {
		if words[t] && !have[t] {
			absent = append(absent, t)
		}
	}
	if len(absent) == 0 {
		return "Include industry-specific keywords: job-specific terms"
	}
	sort.Strings(absent)
	return fmt.Sprintf("Add %d key terms from the job description: %s", len(absent), strings.Join(absent[:min(len(absent), 5)], ", "))
}

// Summary is a one-line verdict by score band.
func Summary(score float64, grade types.Grade) string {
	switch {
	case score >= 85:
		return fmt.Sprintf("Excellent resume (Grade %s). Strong ATS compatibility with minor refinements possible.", grade)
	case score >= 70:
		return fmt.Sprintf("Good resume (Grade %s). Solid foundation with room for targeted improvements.", grade)
	case score >= 55:
		return fmt.Sprintf("Fair resume (Grade %s). Needs significant enhancements for better ATS performance.", grade)
	default:
		return fmt.Sprintf("Needs improvement (Grade %s). Major revisions required for ATS optimization.", grade)
	}
}
