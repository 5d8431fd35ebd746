package skills

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/kb"
	"github.com/jonathan/resume-scorer/internal/types"
)

type fakeSearcher struct {
	results map[string][]kb.Result
	err     error
	calls   int
}

func (f *fakeSearcher) Search(_ context.Context, query, _ string, _ int) ([]kb.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func TestMatch_CaseAndWhitespaceInsensitive(t *testing.T) {
	m := NewMatcher(nil)
	res := m.Match(context.Background(), []string{"Python "}, []string{"python"})

	assert.Equal(t, []string{"python"}, res.Matched)
	assert.Empty(t, res.Missing)
	assert.Equal(t, 100.0, res.MatchPercentage)
	assert.Equal(t, MethodExact, res.Methods["python"])
	assert.Equal(t, "Python", res.MatchMap["python"])
}

func TestMatch_EmptyRequirementsIsFullMatch(t *testing.T) {
	res := NewMatcher(nil).Match(context.Background(), []string{"Go"}, nil)
	assert.Equal(t, 100.0, res.MatchPercentage)
	assert.Empty(t, res.Matched)
	assert.Empty(t, res.Missing)
	assert.Equal(t, 0, res.TotalJDSkills)
	assert.Equal(t, 1, res.TotalResumeSkills)
}

func TestMatch_RuleChain(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		required  string
		method    string
	}{
		{"substring", "Power BI Desktop", "Power BI", MethodSubstring},
		{"synonym", "csharp", "C#", MethodSynonym},
		{"equivalent", "Spreadsheets", "Excel", MethodEquivalent},
		{"fuzzy", "Kubernetis", "Kubernetes", MethodFuzzy},
		{"canonical alias", "k8s", "Kubernetes", MethodExact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewMatcher(nil).Match(context.Background(), []string{tt.candidate}, []string{tt.required})
			require.Equal(t, []string{tt.required}, res.Matched)
			assert.Equal(t, tt.method, res.Methods[tt.required])
			assert.Equal(t, tt.candidate, res.MatchMap[tt.required])
		})
	}
}

func TestMatch_ShortSkillsNeedWholeWords(t *testing.T) {
	tests := []struct {
		candidate string
		required  string
	}{
		{"Go", "Django"},
		{"R", "Docker"},
		{"Django", "Go"},
		{"C", "Scala"},
	}
	for _, tt := range tests {
		t.Run(tt.candidate+" vs "+tt.required, func(t *testing.T) {
			res := NewMatcher(nil).Match(context.Background(), []string{tt.candidate}, []string{tt.required})
			assert.Empty(t, res.Matched)
			assert.Equal(t, []string{tt.required}, res.Missing)
			assert.Equal(t, 0.0, res.MatchPercentage)
		})
	}

	res := NewMatcher(nil).Match(context.Background(), []string{"R programming"}, []string{"R"})
	require.Equal(t, []string{"R"}, res.Matched)
	assert.Equal(t, MethodSubstring, res.Methods["R"])
}

func TestMatch_MissingAndTechnicalSplit(t *testing.T) {
	res := NewMatcher(nil).Match(context.Background(),
		[]string{"Java", "Communication"},
		[]string{"Rust", "Java", "Negotiation", "rust"})

	assert.Equal(t, []string{"Java"}, res.Matched)
	assert.Equal(t, []string{"Rust", "Negotiation"}, res.Missing)
	assert.Equal(t, 3, res.TotalJDSkills)
	assert.InDelta(t, 100.0/3.0, res.MatchPercentage, 1e-9)
	assert.Equal(t, []string{"Java"}, res.MatchedTechnical)
	assert.Equal(t, []string{"Rust"}, res.MissingTechnical)
}

func TestMatch_KBSemantic(t *testing.T) {
	fs := &fakeSearcher{results: map[string][]kb.Result{
		"data visualization": {{Label: "Data Visualisation", Score: 0.9}},
		"dashboards":         {{Label: "Data Visualisation", Score: 0.7}},
	}}
	res := NewMatcher(fs).Match(context.Background(), []string{"Dashboards"}, []string{"Data Visualization"})
	require.Equal(t, []string{"Data Visualization"}, res.Matched)
	assert.Equal(t, MethodKB, res.Methods["Data Visualization"])
}

func TestMatch_KBBelowThreshold(t *testing.T) {
	fs := &fakeSearcher{results: map[string][]kb.Result{
		"data visualization": {{Label: "Data Visualisation", Score: 0.9}},
		"dashboards":         {{Label: "Data Visualisation", Score: 0.3}},
	}}
	res := NewMatcher(fs).Match(context.Background(), []string{"Dashboards"}, []string{"Data Visualization"})
	assert.Empty(t, res.Matched)
	assert.Equal(t, []string{"Data Visualization"}, res.Missing)
}

func TestMatch_KBErrorFallsThrough(t *testing.T) {
	fs := &fakeSearcher{err: errors.New("index offline")}
	res := NewMatcher(fs).Match(context.Background(),
		[]string{"Spreadsheets", "Golang"},
		[]string{"Excel", "Scala", "Haskell"})

	assert.Equal(t, []string{"Excel"}, res.Matched)
	assert.Equal(t, MethodEquivalent, res.Methods["Excel"])
	assert.Equal(t, 1, fs.calls)
}

func TestMatch_FuzzyThresholdOption(t *testing.T) {
	res := NewMatcher(nil, WithFuzzyThreshold(0.95)).
		Match(context.Background(), []string{"Kubernetis"}, []string{"Kubernetes"})
	assert.Empty(t, res.Matched)
}

func TestNormalizeSkillInputs_RoundTrip(t *testing.T) {
	var objects []any
	require.NoError(t, json.Unmarshal([]byte(`[{"label":"Python"},{"name":"SQL"},{"skill":"Docker"},{"label":"python"}]`), &objects))
	strs := []any{"Python", "SQL", "Docker"}

	fromObjects := NormalizeSkillInputs(objects)
	fromStrings := NormalizeSkillInputs(strs)
	assert.ElementsMatch(t, fromStrings, fromObjects)
	assert.Equal(t, []string{"Python", "SQL", "Docker"}, fromObjects)

	typed := NormalizeSkillInputs([]any{types.Skill{Name: " Docker "}, "", nil, 42})
	assert.Equal(t, []string{"Docker"}, typed)
}

func TestCanonicalAndKey(t *testing.T) {
	assert.Equal(t, "Go", Canonical("golang"))
	assert.Equal(t, "Node.js", Canonical(" nodejs "))
	assert.Equal(t, "Machine Learning", Canonical("Machine   Learning"))
	assert.Equal(t, "kubernetes", Key("K8s"))
	assert.Equal(t, "", Key("   "))
}

func TestExpandSynonyms(t *testing.T) {
	got := ExpandSynonyms("C#")
	assert.Contains(t, got, "c#")
	assert.Contains(t, got, "csharp")

	got = ExpandSynonyms("ASP.NET Core developer")
	assert.Contains(t, got, "asp.net")
	assert.Contains(t, got, "aspnet")

	assert.Equal(t, []string{"mysql"}, ExpandSynonyms("MySQL"))
	assert.Empty(t, ExpandSynonyms(""))
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, CategoryTechnical, Categorize("Python"))
	assert.Equal(t, CategoryTechnical, Categorize("CI/CD pipelines"))
	assert.Equal(t, CategoryTechnical, Categorize("Go"))
	assert.Equal(t, CategoryOperational, Categorize("Troubleshooting"))
	assert.Equal(t, CategoryOperational, Categorize("Maintain servers"))
	assert.Equal(t, CategoryDomain, Categorize("Accounting"))
}

func TestBuildTargets(t *testing.T) {
	job := &types.JobRequirement{
		RequiredSkills:  []string{"Go", "golang", "Rust"},
		PreferredSkills: []string{"Docker", "go"},
	}
	targets := BuildTargets(job)
	require.Len(t, targets, 3)
	assert.Equal(t, types.SkillTarget{Name: "Go", Weight: 1.0, Source: types.SourceRequired}, targets[0])
	assert.Equal(t, "Rust", targets[1].Name)
	assert.Equal(t, types.SkillTarget{Name: "Docker", Weight: 0.5, Source: types.SourcePreferred}, targets[2])

	assert.Nil(t, BuildTargets(nil))
}

func TestMatchJob_WeightedCoverage(t *testing.T) {
	job := &types.JobRequirement{
		RequiredSkills:  []string{"Go", "Rust"},
		PreferredSkills: []string{"Docker"},
	}
	res := NewMatcher(nil).MatchJob(context.Background(), []string{"Go"}, job)
	assert.Equal(t, 50.0, res.MatchPercentage)
	require.NotNil(t, res.WeightedCoverage)
	assert.InDelta(t, 40.0, *res.WeightedCoverage, 1e-9)

	res = NewMatcher(nil).MatchJob(context.Background(), []string{"Go"}, &types.JobRequirement{})
	assert.Equal(t, 100.0, res.MatchPercentage)
	assert.Nil(t, res.WeightedCoverage)
}
