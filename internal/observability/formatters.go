// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-scorer/internal/kb"
	"github.com/jonathan/resume-scorer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the width of a score bar
	barWidth = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis outputs the score, per-category breakdown and feedback.
func (p *Printer) PrintAnalysis(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Final score: %.1f  Grade: %s\n\n", result.FinalScore, result.Grade))
	writeBreakdown(&sb, result.Breakdown)

	if len(result.SkillMatchDetails.Matched)+len(result.SkillMatchDetails.Missing) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Matched keywords", result.SkillMatchDetails.Matched)
		writeList(&sb, "Missing keywords", result.SkillMatchDetails.Missing)
	}
	if len(result.Feedback) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Feedback", result.Feedback)
	}

	p.printBox("RESUME ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEnhanced outputs the fused score, ML contribution and improvements.
func (p *Printer) PrintEnhanced(result *types.EnhancedAnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Final score: %.1f  Grade: %s\n", result.FinalScore, result.Grade))
	sb.WriteString(fmt.Sprintf("Rule score:  %.1f\n", result.RuleScore))
	if result.MLScore != nil {
		sb.WriteString(fmt.Sprintf("ML score:    %.1f\n", *result.MLScore))
	}
	if result.FormattingPenalty > 0 {
		sb.WriteString(fmt.Sprintf("Penalty:     -%.2f\n", result.FormattingPenalty))
	}
	if result.Summary != "" {
		sb.WriteString("\n" + result.Summary + "\n")
	}

	if len(result.Improvements) > 0 {
		sb.WriteString("\nImprovements:\n")
		for _, imp := range result.Improvements {
			sb.WriteString(fmt.Sprintf("  • %s (%.0f): %s\n", imp.Category, imp.Score, imp.Tip))
		}
	}
	if len(result.Suggestions) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Suggestions", result.Suggestions)
	}

	p.printBox("ENHANCED ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkillMatch outputs matched and missing skills with the method used.
func (p *Printer) PrintSkillMatch(result *types.SkillMatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match: %.1f%% (%d of %d JD skills)\n",
		result.MatchPercentage, len(result.Matched), result.TotalJDSkills))
	if result.WeightedCoverage != nil {
		sb.WriteString(fmt.Sprintf("Weighted coverage: %.1f%%\n", *result.WeightedCoverage))
	}
	sb.WriteString("\n")

	if len(result.Matched) > 0 {
		sb.WriteString("Matched:\n")
		count := min(len(result.Matched), maxItemsToShow)
		for _, skill := range result.Matched[:count] {
			line := fmt.Sprintf("  ✓ %s", skill)
			if via := result.MatchMap[skill]; via != "" && !strings.EqualFold(via, skill) {
				line += " ← " + via
			}
			if m := result.Methods[skill]; m != "" {
				line += " [" + m + "]"
			}
			sb.WriteString(line + "\n")
		}
		if len(result.Matched) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Matched)-maxItemsToShow))
		}
	}
	writeList(&sb, "Missing", result.Missing)

	p.printBox("SKILL MATCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMLScore outputs the ML score and the method that produced it.
func (p *Printer) PrintMLScore(score *types.MLScore) {
	if score == nil {
		return
	}
	content := fmt.Sprintf("Score:      %.2f\nSimilarity: %.4f\nMethod:     %s\n\n%s",
		score.Score, score.Similarity, score.Method, score.Explanation)
	p.printBox("ML SCORE", content)
}

// PrintKBResults outputs knowledge-base search hits.
func (p *Printer) PrintKBResults(query string, results []kb.Result) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Query: %s\n\n", query))
	if len(results) == 0 {
		sb.WriteString("No results")
	}
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("#%d  %.3f  %s (%s)\n", i+1, r.Score, r.Label, r.Type))
	}
	p.printBox("KNOWLEDGE BASE", strings.TrimSuffix(sb.String(), "\n"))
}

func writeBreakdown(sb *strings.Builder, breakdown map[types.Category]float64) {
	for _, c := range types.AllCategories {
		score, ok := breakdown[c]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-22s %s %5.1f/%-4.0f\n", c, bar(score, c.MaxPoints()), score, c.MaxPoints()))
	}
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	count := min(len(items), maxItemsToShow)
	for _, item := range items[:count] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

func bar(score, maxPoints float64) string {
	filled := 0
	if maxPoints > 0 {
		filled = int(score / maxPoints * barWidth)
	}
	filled = max(0, min(filled, barWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
