package skills

import (
	"context"
	"sort"
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

// Target weights by requirement level.
const (
	weightRequired  = 1.0
	weightPreferred = 0.5
)

// BuildTargets builds a weighted target list from a job requirement.
// Duplicates keep the highest weight; on ties the required source wins.
// Targets are sorted by weight descending, then by name.
func BuildTargets(job *types.JobRequirement) []types.SkillTarget {
	if job == nil {
		return nil
	}
	byKey := map[string]*types.SkillTarget{}
	var order []string
	add := func(name string, weight float64, source string) {
		name = Canonical(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		existing, ok := byKey[key]
		if !ok {
			byKey[key] = &types.SkillTarget{Name: name, Weight: weight, Source: source}
			order = append(order, key)
			return
		}
		if weight > existing.Weight || (weight == existing.Weight && sourcePriority(source) > sourcePriority(existing.Source)) {
			existing.Weight = weight
			existing.Source = source
		}
	}
	for _, s := range job.RequiredSkills {
		add(s, weightRequired, types.SourceRequired)
	}
	for _, s := range job.PreferredSkills {
		add(s, weightPreferred, types.SourcePreferred)
	}

	targets := make([]types.SkillTarget, 0, len(order))
	for _, k := range order {
		targets = append(targets, *byKey[k])
	}
	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].Weight != targets[j].Weight {
			return targets[i].Weight > targets[j].Weight
		}
		return targets[i].Name < targets[j].Name
	})
	return targets
}

func sourcePriority(source string) int {
	switch source {
	case types.SourceRequired:
		return 2
	case types.SourcePreferred:
		return 1
	default:
		return 0
	}
}

// MatchJob matches candidate skills against a job's required skills and
// reports weighted coverage across required and preferred targets.
func (m *Matcher) MatchJob(ctx context.Context, candidateSkills []string, job *types.JobRequirement) *types.SkillMatchResult {
	var required []string
	if job != nil {
		required = job.RequiredSkills
	}
	res := m.Match(ctx, candidateSkills, required)

	targets := BuildTargets(job)
	if len(targets) == 0 {
		return res
	}
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name
	}
	all := m.Match(ctx, candidateSkills, names)
	hit := map[string]bool{}
	for _, s := range all.Matched {
		hit[strings.ToLower(s)] = true
	}
	var total, covered float64
	for _, t := range targets {
		total += t.Weight
		if hit[strings.ToLower(t.Name)] {
			covered += t.Weight
		}
	}
	coverage := covered / total * 100
	res.WeightedCoverage = &coverage
	return res
}
