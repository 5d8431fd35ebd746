//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateProfile_SkillsAcceptStringsAndObjects(t *testing.T) {
	input := `{
		"name": "Jane Doe",
		"skills": ["Python ", {"name": "Django"}, {"label": "SQL"}, {"other": "x"}],
		"experience": [{"company": "Acme", "title": "Engineer", "start_date": "01/2020"}],
		"text": "resume"
	}`

	var p CandidateProfile
	require.NoError(t, json.Unmarshal([]byte(input), &p))
	assert.Equal(t, []string{"Python", "Django", "SQL"}, p.SkillNames())
	assert.True(t, p.Experience[0].IsCurrent())
	require.NoError(t, p.Validate())
}

func TestCandidateProfile_ValidateRejectsBadConfidence(t *testing.T) {
	p := CandidateProfile{Confidence: map[string]float64{"email": 1.5}}
	assert.Error(t, p.Validate())
}

func TestWorkExperience_IsCurrent(t *testing.T) {
	assert.True(t, WorkExperience{EndDate: "Present"}.IsCurrent())
	assert.True(t, WorkExperience{EndDate: " "}.IsCurrent())
	assert.False(t, WorkExperience{EndDate: "2021"}.IsCurrent())
}

func TestJobRequirement_Validate(t *testing.T) {
	assert.NoError(t, (&JobRequirement{Text: "x"}).Validate())
	assert.Error(t, (&JobRequirement{MinYears: -1}).Validate())
	assert.False(t, (*JobRequirement)(nil).HasText())
}

func TestJobRequirement_EffectiveText(t *testing.T) {
	assert.Equal(t, "", (*JobRequirement)(nil).EffectiveText())
	assert.Equal(t, "", (&JobRequirement{}).EffectiveText())
	assert.False(t, (&JobRequirement{Text: "  "}).HasText())

	withText := &JobRequirement{Text: "Go developer", RequiredSkills: []string{"Go"}}
	assert.Equal(t, "Go developer", withText.EffectiveText())

	structured := &JobRequirement{
		Title:           "Backend Engineer",
		RequiredSkills:  []string{"Python", "Django"},
		PreferredSkills: []string{"AWS"},
	}
	assert.Equal(t, "Backend Engineer. Required skills: Python, Django. Preferred skills: AWS.", structured.EffectiveText())
	assert.True(t, structured.HasText())
	assert.True(t, (&JobRequirement{RequiredSkills: []string{"SQL"}}).HasText())
}

func TestAnalysisResult_Validate(t *testing.T) {
	a := AnalysisResult{FinalScore: 55, Grade: GradeF, Breakdown: map[Category]float64{Readability: 7}}
	require.NoError(t, a.Validate())

	a.FinalScore = 120
	assert.Error(t, a.Validate())
}
