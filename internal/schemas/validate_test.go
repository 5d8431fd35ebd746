package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemasCompile(t *testing.T) {
	for _, name := range Names() {
		_, err := load(name)
		assert.NoError(t, err, name)
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope", []byte(`{}`))
	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "nope", loadErr.Name)
}

func TestValidate_AnalysisRequest(t *testing.T) {
	valid := `{
		"profile": {
			"skills": ["Python", {"label": "SQL"}],
			"experience": [{"company": "Acme", "title": "Engineer", "start_date": "2020", "end_date": "present"}]
		},
		"job": {"text": "Python engineer", "required_skills": ["Python"]},
		"resume_text": "..."
	}`
	assert.NoError(t, Validate(AnalysisRequest, []byte(valid)))

	err := Validate(AnalysisRequest, []byte(`{"job": {"text": "x"}}`))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, AnalysisRequest, ve.Schema)
	assert.NotEmpty(t, ve.Errors)

	err = Validate(AnalysisRequest, []byte(`{"profile": {"experience": [{"company": "Acme"}]}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")

	err = Validate(AnalysisRequest, []byte(`{"profile": {"skills": [{"level": "expert"}]}}`))
	assert.Error(t, err)
}

func TestValidate_AnalysisResult(t *testing.T) {
	assert.NoError(t, Validate(AnalysisResult, []byte(`{"final_score": 72.5, "grade": "C", "breakdown": {"file_layout": 20}}`)))

	for name, doc := range map[string]string{
		"missing breakdown": `{"final_score": 72.5, "grade": "C"}`,
		"bad grade":         `{"final_score": 72.5, "grade": "E", "breakdown": {"file_layout": 20}}`,
		"score too high":    `{"final_score": 172.5, "grade": "A", "breakdown": {"file_layout": 20}}`,
		"not an object":     `[1, 2, 3]`,
		"empty breakdown":   `{"final_score": 10, "grade": "F", "breakdown": {}}`,
	} {
		assert.Error(t, Validate(AnalysisResult, []byte(doc)), name)
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	err := Validate(MLScoreRequest, []byte(`{"resume_text": `))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "(root)", ve.Errors[0].Field)
}

func TestValidate_MLScoreRequest(t *testing.T) {
	assert.NoError(t, Validate(MLScoreRequest, []byte(`{"resume_text": "a", "jd_text": "b"}`)))
	assert.Error(t, Validate(MLScoreRequest, []byte(`{"resume_text": "", "jd_text": "b"}`)))
}

func TestValidate_SkillMatchRequest(t *testing.T) {
	assert.NoError(t, Validate(SkillMatchRequest, []byte(`{"candidate_skills": ["Go", {"name": "SQL"}], "required_skills": []}`)))
	assert.Error(t, Validate(SkillMatchRequest, []byte(`{"candidate_skills": ["Go"]}`)))
}

func TestValidate_RankerModel(t *testing.T) {
	valid := `{"objective": "regression", "base_score": 0.5, "num_features": 2,
		"trees": [{"nodes": [{"feature": 0, "threshold": 0.5, "left": 1, "right": 2}, {"leaf": -0.1}, {"leaf": 0.2}]}]}`
	assert.NoError(t, Validate(RankerModel, []byte(valid)))

	assert.Error(t, Validate(RankerModel, []byte(`{"num_features": 2, "trees": []}`)))
	assert.Error(t, Validate(RankerModel, []byte(`{"num_features": 2, "trees": [{"nodes": [{"feature": 0}]}]}`)))
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["a"]}`
	assert.NoError(t, ValidateJSONString(schema, `{"a": 1}`))

	err := ValidateJSONString(schema, `{}`)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "(root)", ve.Errors[0].Field)
}
