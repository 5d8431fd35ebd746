// Package skills matches a candidate's skills against job requirements and
// builds weighted skill targets.
package skills

import (
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

// canonicalNames maps common variants to one canonical spelling.
var canonicalNames = map[string]string{
	"golang":      "Go",
	"go lang":     "Go",
	"javascript":  "JavaScript",
	"typescript":  "TypeScript",
	"k8s":         "Kubernetes",
	"kubernetes":  "Kubernetes",
	"react.js":    "React",
	"reactjs":     "React",
	"vue.js":      "Vue",
	"vuejs":       "Vue",
	"node.js":     "Node.js",
	"nodejs":      "Node.js",
	"postgres":    "PostgreSQL",
	"postgresql":  "PostgreSQL",
	"python3":     "Python",
	"python 3":    "Python",
	"powerbi":     "Power BI",
	"power-bi":    "Power BI",
	"scikitlearn": "scikit-learn",
}

// Canonical returns the canonical display name of a skill. Names without
// a known variant are returned trimmed with internal whitespace collapsed.
func Canonical(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	if c, ok := canonicalNames[strings.ToLower(name)]; ok {
		return c
	}
	return name
}

// Key returns the case- and whitespace-insensitive comparison key of a skill.
func Key(name string) string {
	return strings.ToLower(Canonical(name))
}

// NormalizeSkillInputs flattens heterogeneous skill inputs into display
// names. Items may be strings, types.Skill values, or decoded JSON objects
// carrying a name, label or skill field. Blank and duplicate entries are
// dropped; the first spelling wins.
func NormalizeSkillInputs(items []any) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		name := Canonical(skillName(item))
		if name == "" {
			continue
		}
		k := strings.ToLower(name)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, name)
	}
	return out
}

// Names normalizes a list of plain skill names.
func Names(names []string) []string {
	items := make([]any, len(names))
	for i, n := range names {
		items[i] = n
	}
	return NormalizeSkillInputs(items)
}

func skillName(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case types.Skill:
		return v.Name
	case *types.Skill:
		if v != nil {
			return v.Name
		}
	case map[string]any:
		for _, key := range []string{"name", "label", "skill"} {
			if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	case map[string]string:
		for _, key := range []string{"name", "label", "skill"} {
			if s := v[key]; strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

// containsTerm reports whether term occurs in s. Terms of three characters
// or fewer must be bounded by non-alphanumeric characters.
func containsTerm(s, term string) bool {
	if term == "" {
		return false
	}
	if len(term) > 3 {
		return strings.Contains(s, term)
	}
	for start := 0; ; {
		i := strings.Index(s[start:], term)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(term)
		if (i == 0 || !isAlnum(s[i-1])) && (end == len(s) || !isAlnum(s[end])) {
			return true
		}
		start = i + 1
	}
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
