package kb

import (
	"context"
	"sort"
	"strings"
)

// Text matching parameters.
const (
	matchTopK        = 50
	matchThreshold   = 0.4
	matchListCap     = 15
	suggestedOccTopK = 5
	suggestedOccCap  = 3
)

var genericLabels = map[string]bool{
	"technical": true, "using": true, "experience": true, "skills": true,
	"knowledge": true, "ability": true, "working": true, "understanding": true,
	"strong": true, "good": true, "excellent": true, "proficient": true,
	"familiar": true, "expertise": true, "background": true, "years": true,
	"work": true, "team": true, "teams": true, "business": true,
	"performance": true, "management": true, "development": true,
	"support": true, "analysis": true, "design": true,
	"implementation": true, "testing": true, "documentation": true,
}

var shortSkillLabels = map[string]bool{
	"sql": true, "aws": true, "gcp": true, "c++": true, "c#": true, "r": true, "go": true,
}

// TextMatch compares the skills the KB finds in a résumé against those it
// finds in a JD.
type TextMatch struct {
	ResumeSkills         []string `json:"resume_skills"`
	JDSkills             []string `json:"jd_skills"`
	Matched              []string `json:"matched_skills"`
	Missing              []string `json:"missing_skills"`
	MatchScore           float64  `json:"match_score"`
	SuggestedOccupations []Result `json:"suggested_occupations"`
}

// MatchTexts extracts KB skills from both texts and reports their overlap.
func (ix *Index) MatchTexts(ctx context.Context, resume, jd string) (*TextMatch, error) {
	resumeSkills, err := ix.ExtractSkills(ctx, resume, matchTopK, matchThreshold)
	if err != nil {
		return nil, err
	}
	jdSkills, err := ix.ExtractSkills(ctx, jd, matchTopK, matchThreshold)
	if err != nil {
		return nil, err
	}
	occupations, err := ix.Search(ctx, jd, TypeOccupation, suggestedOccTopK)
	if err != nil {
		return nil, err
	}

	resumeLabels := filterLabels(resumeSkills)
	jdLabels := filterLabels(jdSkills)
	have := map[string]bool{}
	for _, l := range resumeLabels {
		have[strings.ToLower(l)] = true
	}

	m := &TextMatch{
		ResumeSkills:         capLabels(resumeLabels),
		JDSkills:             capLabels(jdLabels),
		Matched:              []string{},
		Missing:              []string{},
		SuggestedOccupations: occupations[:min(len(occupations), suggestedOccCap)],
	}
	for _, l := range jdLabels {
		if have[strings.ToLower(l)] {
			m.Matched = append(m.Matched, l)
		} else {
			m.Missing = append(m.Missing, l)
		}
	}
	sort.Strings(m.Matched)
	sort.Strings(m.Missing)
	if len(jdLabels) > 0 {
		m.MatchScore = float64(len(m.Matched)) / float64(len(jdLabels))
	}
	return m, nil
}

func filterLabels(results []Result) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range results {
		lower := strings.ToLower(r.Label)
		if genericLabels[lower] || seen[lower] {
			continue
		}
		if len(lower) < 3 && !shortSkillLabels[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, r.Label)
	}
	return out
}

func capLabels(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels[:min(len(labels), matchListCap)]
}
