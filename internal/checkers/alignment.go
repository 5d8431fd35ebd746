package checkers

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/resume-scorer/internal/textutil"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Keyword alignment tuning.
const (
	keywordMaxTerms     = 100
	minTechTerms        = 3
	criticalTechRate    = 0.4
	majorGapTechRate    = 0.6
	minorGapTechRate    = 0.8
	criticalMultiplier  = 0.2
	majorGapMultiplier  = 0.4
	minorGapMultiplier  = 0.7
	excellentMatchRate  = 0.8
	matchedListCap      = 15
	missingListCap      = 10
	matchedSoftCap      = 10
	missingSoftCap      = 5
	shortTechPatternLen = 3
)

var genericTerms = toSet(
	"using", "experience", "knowledge", "ability", "working", "understanding",
	"strong", "good", "excellent", "proficient", "familiar", "expertise",
	"background", "years", "work", "team", "teams", "business", "performance",
	"support", "applications", "services", "quality", "technical", "skills",
	"required", "preferred", "must", "should", "will", "can", "able",
	"including", "related", "relevant", "various", "multiple", "several",
	"different", "new", "current", "existing", "future", "based", "driven",
	"focused", "oriented", "data", "tools", "technologies", "systems",
	"solutions", "processes", "projects", "development", "design",
	"implementation", "integration", "testing", "deployment", "maintenance",
	"documentation", "requirements", "analysis", "reporting", "monitoring",
)

var softSkills = []string{
	"leadership", "communication", "teamwork", "collaboration", "mentoring",
	"management", "planning", "organization", "problem solving",
	"critical thinking", "adaptability", "creativity", "presentation",
	"negotiation", "decision making", "strategic thinking",
	"analytical thinking", "interpersonal", "emotional intelligence",
}

var techVocabulary = []string{
	"sql", "python", "java", "javascript", "react", "angular", "node", "aws",
	"azure", "docker", "kubernetes", "api", "server", "cloud", ".net", "c#",
	"typescript", "html", "css", "rest", "graphql", "mongodb", "postgresql",
	"redis", "kafka", "spark", "hadoop", "tableau", "power bi", "powerbi",
	"excel", "git", "jenkins", "terraform", "ansible", "framework", "library",
	"devops", "ml", "ai", "etl", "warehouse", "pipeline", "mvc", "orm", "wcf",
	"nunit", "entity", "linq", "razor", "blazor", "xamarin", "ssas", "ssis",
	"ssrs", "olap", "oltp", "dax", "mdx", "cube", "qlikview", "looker",
	"microstrategy", "cognos", "sap", "oracle", "mysql", "nosql", "snowflake",
	"redshift", "bigquery", "databricks", "airflow", "talend", "informatica",
	"pentaho", "alteryx", "knime", "rapidminer", "spss", "sas", "stata",
	"matlab", "scala", "golang", "ruby", "php", "swift", "kotlin", "rust",
	"vue", "svelte", "django", "flask", "spring", "express", "fastapi", "grpc",
	"rabbitmq", "elasticsearch", "solr", "neo4j", "cassandra", "dynamodb",
	"firebase", "supabase", "vercel", "netlify", "heroku", "digitalocean",
	"gcp", "ibm", "salesforce", "servicenow", "jira", "confluence", "slack",
	"zoom", "webex", "miro", "figma", "sketch", "adobe", "photoshop",
	"illustrator", "xd", "invision", "zeplin", "balsamiq", "axure", "uxpin",
}

var capitalizedStopTerms = toSet(
	"the", "and", "for", "with", "from", "this", "that", "have", "has", "had",
	"will", "would", "could", "should",
)

var termSplit = regexp.MustCompile(`[\s/]+`)

// IsSoftSkill reports whether a term mentions a soft skill.
func IsSoftSkill(term string) bool {
	lower := strings.ToLower(term)
	for _, s := range softSkills {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// IsTechnicalTerm reports whether a JD term names a technology or tool.
// A term qualifies when it contains a known technology name, or when it
// appears capitalized mid-sentence in the JD text.
func IsTechnicalTerm(term, jdText string) bool {
	lower := strings.ToLower(term)
	if len(lower) < 2 || genericTerms[lower] || IsSoftSkill(lower) {
		return false
	}
	words := termSplit.Split(lower, -1)
	for _, tech := range techVocabulary {
		if len(tech) <= shortTechPatternLen {
			for _, w := range words {
				if strings.Trim(w, ".,") == tech {
					return true
				}
			}
			continue
		}
		if strings.Contains(lower, tech) {
			return true
		}
	}
	return len(lower) > 2 && !capitalizedStopTerms[lower] && !strings.Contains(lower, " ") &&
		capitalizedMidSentence(jdText, lower)
}

// capitalizedMidSentence looks for an occurrence of word in text that starts
// with an upper-case letter and does not begin a sentence.
func capitalizedMidSentence(text, word string) bool {
	lowerText := strings.ToLower(text)
	if len(lowerText) != len(text) {
		return false
	}
	for offset := 0; ; {
		i := strings.Index(lowerText[offset:], word)
		if i < 0 {
			return false
		}
		pos := offset + i
		offset = pos + len(word)
		if pos == 0 || !unicode.IsUpper(rune(text[pos])) {
			continue
		}
		prev := strings.TrimRight(text[:pos], " \t")
		if prev == "" {
			continue
		}
		last := prev[len(prev)-1]
		if isWordByte(text[pos-1]) || strings.ContainsRune(".!?:\n•-*", rune(last)) {
			continue
		}
		if offset < len(text) && isWordByte(text[offset]) {
			continue
		}
		return true
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// CheckKeywordAlignment compares the JD's distinctive TF-IDF terms with the
// résumé and applies the technical-mismatch severity ladder.
func CheckKeywordAlignment(_ context.Context, in *Input) types.CheckResult {
	jd := in.JDText()
	if strings.TrimSpace(jd) == "" || strings.TrimSpace(in.ResumeText) == "" {
		return types.NewCheckResult(types.KeywordAlignment, types.KeywordAlignment.MaxPoints())
	}

	v := &textutil.Vectorizer{MinN: 1, MaxN: 3, MaxFeatures: keywordMaxTerms, TokenPattern: textutil.TechTokenPattern}
	m, err := v.FitTransform([]string{jd, in.ResumeText})
	if err != nil {
		return types.NeutralResult(types.KeywordAlignment)
	}
	jdTerms := m.TopTerms(0, keywordMaxTerms)
	if len(jdTerms) == 0 {
		return types.NeutralResult(types.KeywordAlignment)
	}

	resumeLower := strings.ToLower(in.ResumeText)
	var matched, missing []string
	for _, t := range jdTerms {
		if strings.Contains(resumeLower, t) {
			matched = append(matched, t)
		} else {
			missing = append(missing, t)
		}
	}

	details := &types.SkillMatchDetails{
		Matched:          capList(matched, matchedListCap),
		Missing:          capList(missing, missingListCap),
		MatchedTechnical: capList(filterTerms(matched, func(t string) bool { return IsTechnicalTerm(t, jd) }), matchedListCap),
		MissingTechnical: capList(filterTerms(missing, func(t string) bool { return IsTechnicalTerm(t, jd) }), missingListCap),
		MatchedSoft:      capList(filterTerms(matched, IsSoftSkill), matchedSoftCap),
		MissingSoft:      capList(filterTerms(missing, IsSoftSkill), missingSoftCap),
	}
	details.MatchedCount = len(details.Matched)
	details.MissingCount = len(details.Missing)

	matchRate := float64(len(matched)) / float64(len(jdTerms))
	matchedTech, missingTech := len(details.MatchedTechnical), len(details.MissingTechnical)
	totalTech := matchedTech + missingTech
	techRate := 1.0
	if totalTech > 0 {
		techRate = float64(matchedTech) / float64(totalTech)
	}

	ceiling := types.KeywordAlignment.MaxPoints()
	var score float64
	feedback := []string{}
	switch {
	case totalTech >= minTechTerms && techRate < criticalTechRate:
		score = matchRate * ceiling * criticalMultiplier
		feedback = append(feedback, fmt.Sprintf("CRITICAL MISMATCH: Only %d/%d technical skills matched", matchedTech, totalTech))
	case totalTech >= minTechTerms && techRate < majorGapTechRate:
		score = matchRate * ceiling * majorGapMultiplier
		feedback = append(feedback, fmt.Sprintf("Major gap: Missing %d key technical skills", missingTech))
	case techRate < minorGapTechRate:
		score = matchRate * ceiling * minorGapMultiplier
		feedback = append(feedback, fmt.Sprintf("Missing %d technical skills", missingTech))
	default:
		score = matchRate * ceiling
		if matchRate >= excellentMatchRate {
			feedback = append(feedback, fmt.Sprintf("Excellent match: %d technical skills", matchedTech))
		}
	}

	r := types.NewCheckResult(types.KeywordAlignment, score, feedback...)
	r.Details = details
	return r
}

// Skill context bands.
const (
	contextStrongRate = 0.7
	contextGoodRate   = 0.5
	contextFairRate   = 0.3
	contextShownRate  = 0.6
)

// CheckSkillContext measures how many listed skills are demonstrated in the
// experience narrative.
func CheckSkillContext(_ context.Context, in *Input) types.CheckResult {
	skills := in.skills()
	if len(skills) == 0 {
		return types.NewCheckResult(types.SkillContext, 0, "No skills listed")
	}

	expLower := strings.ToLower(in.ExperienceText)
	demonstrated := 0
	for _, s := range skills {
		if SkillDemonstrated(s, expLower) {
			demonstrated++
		}
	}
	rate := float64(demonstrated) / float64(len(skills))

	var score float64
	switch {
	case rate >= contextStrongRate:
		score = 5
	case rate >= contextGoodRate:
		score = 4
	case rate >= contextFairRate:
		score = 3.5
	default:
		score = 2.5
	}

	var msg string
	switch {
	case rate < contextFairRate:
		msg = fmt.Sprintf("Only %d/%d skills demonstrated in experience", demonstrated, len(skills))
	case rate < contextShownRate:
		msg = fmt.Sprintf("Fair skill context: %d/%d skills shown", demonstrated, len(skills))
	default:
		msg = fmt.Sprintf("Strong skill context: %d/%d skills demonstrated", demonstrated, len(skills))
	}
	return types.NewCheckResult(types.SkillContext, score, msg)
}

// SkillDemonstrated reports whether a skill, or any word of it, appears in
// the lowercase experience text.
func SkillDemonstrated(skill, experienceLower string) bool {
	s := strings.ToLower(strings.TrimSpace(skill))
	if s == "" || experienceLower == "" {
		return false
	}
	if strings.Contains(experienceLower, s) {
		return true
	}
	for _, w := range strings.Fields(s) {
		if strings.Contains(experienceLower, w) {
			return true
		}
	}
	return false
}

func filterTerms(terms []string, keep func(string) bool) []string {
	var out []string
	for _, t := range terms {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func capList(items []string, n int) []string {
	if items == nil {
		return []string{}
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}

func toSet(items ...string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
