package analysis

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-scorer/internal/checkers"
	"github.com/jonathan/resume-scorer/internal/textutil"
	"github.com/jonathan/resume-scorer/internal/types"
)

const (
	minSectionLength = 50
	contactPrefixLen = 300
)

var (
	experienceHeading = regexp.MustCompile(`(?i)^\s*(?:work\s+|professional\s+)?experience\b[\s:]*`)
	knownHeading      = regexp.MustCompile(`(?i)^\s*(education|skills|technical skills|projects|certifications|summary|profile|awards|publications|languages|interests|references)\s*:?\s*$`)
	bulletPrefixes    = []string{"•", "-", "*"}
)

// Request is the input to one analysis.
type Request struct {
	Profile    *types.CandidateProfile `json:"profile" validate:"required"`
	Job        *types.JobRequirement   `json:"job,omitempty"`
	Layout     *types.LayoutMetadata   `json:"layout,omitempty"`
	ResumeText string                  `json:"resume_text,omitempty"`
}

// PrepareInput derives the checker input from a request: the experience
// section, its bullet lines and the contact block.
func PrepareInput(req Request) *checkers.Input {
	profile := req.Profile
	if profile == nil {
		profile = &types.CandidateProfile{}
	}
	text := req.ResumeText
	if text == "" {
		text = profile.Text
	}
	exp := ExperienceSection(text)
	return &checkers.Input{
		Profile:        profile,
		Job:            req.Job,
		Layout:         req.Layout,
		ResumeText:     text,
		ExperienceText: exp,
		Bullets:        Bullets(exp),
		ContactText:    ContactText(text, profile),
	}
}

// ExperienceSection returns the body of the experience section. When no
// section with enough content is found the whole text is returned.
func ExperienceSection(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		loc := experienceHeading.FindStringIndex(line)
		if loc == nil {
			continue
		}
		var body []string
		if rest := strings.TrimSpace(line[loc[1]:]); rest != "" {
			body = append(body, rest)
		}
		for _, next := range lines[i+1:] {
			if isHeading(next) {
				break
			}
			body = append(body, next)
		}
		section := strings.TrimSpace(strings.Join(body, "\n"))
		if len(section) > minSectionLength {
			return section
		}
	}
	return text
}

// isHeading reports whether a line starts a new résumé section: a known
// section title, or a line whose letters are all upper case.
func isHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if knownHeading.MatchString(trimmed) {
		return true
	}
	letters := 0
	for _, r := range trimmed {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= 'A' && r <= 'Z':
			letters++
		}
	}
	return letters >= 3 && !hasBulletPrefix(trimmed)
}

// Bullets returns the trimmed lines that start with a bullet glyph.
func Bullets(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && hasBulletPrefix(line) {
			out = append(out, line)
		}
	}
	return out
}

func hasBulletPrefix(line string) bool {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// ContactText returns the résumé header plus any profile contact fields.
func ContactText(text string, profile *types.CandidateProfile) string {
	parts := []string{textutil.Truncate(text, contactPrefixLen)}
	if profile != nil {
		parts = append(parts, profile.Email, profile.Phone)
		parts = append(parts, profile.Links...)
	}
	var nonEmpty []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}
