package parsing

import (
	"strings"

	"github.com/jonathan/resume-scorer/internal/skills"
	"github.com/jonathan/resume-scorer/internal/types"
)

// maxSkillWords rejects sentence-like "skills" the model sometimes returns.
const maxSkillWords = 5

// NormalizeSkills canonicalizes skill names and deduplicates them, keeping
// the first spelling. Keys already in exclude are dropped.
func NormalizeSkills(names []string, exclude map[string]bool) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		name := skills.Canonical(strings.Trim(n, " .;,"))
		if name == "" || len(strings.Fields(name)) > maxSkillWords {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] || exclude[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

// Merge fills the empty fields of job from parsed. Skill lists are only
// taken when job has none of its own.
func Merge(job, parsed *types.JobRequirement) {
	if job.Title == "" {
		job.Title = parsed.Title
	}
	if len(job.RequiredSkills) == 0 && len(job.PreferredSkills) == 0 {
		job.RequiredSkills = parsed.RequiredSkills
		job.PreferredSkills = parsed.PreferredSkills
	}
	if job.MinYears == 0 {
		job.MinYears = parsed.MinYears
	}
}
