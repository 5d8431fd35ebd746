package parsing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/types"
)

type fakeClient struct {
	response string
	err      error
	prompt   string
	tier     llm.ModelTier
}

func (c *fakeClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	c.prompt = prompt
	c.tier = tier
	return c.response, c.err
}

func (c *fakeClient) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("not supported")
}

func (c *fakeClient) EmbeddingModel() string { return "" }

func (c *fakeClient) Close() error { return nil }

const jobText = "Senior Backend Engineer. 5+ years with Go and Postgres required. Kubernetes is a plus."

func TestParseJob(t *testing.T) {
	client := &fakeClient{response: "```json\n" + `{
		"title": " Senior Backend Engineer ",
		"required_skills": ["golang", "postgres", "Go", "  "],
		"preferred_skills": ["k8s", "PostgreSQL", "experience designing large distributed systems at scale"],
		"min_years": 5
	}` + "\n```"}
	p := NewParser(client, nil)

	job, err := p.ParseJob(context.Background(), jobText)
	require.NoError(t, err)

	assert.Equal(t, "Senior Backend Engineer", job.Title)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, job.RequiredSkills)
	assert.Equal(t, []string{"Kubernetes"}, job.PreferredSkills)
	assert.Equal(t, 5, job.MinYears)
	assert.Equal(t, jobText, job.Text)

	assert.Equal(t, llm.TierStandard, client.tier)
	assert.Contains(t, client.prompt, "Kubernetes is a plus")
	assert.NotContains(t, client.prompt, "{{.JobText}}")
}

func TestParseJob_Errors(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		_, err := NewParser(&fakeClient{}, nil).ParseJob(context.Background(), "  ")
		assert.ErrorIs(t, err, ErrEmptyJob)
	})

	t.Run("api failure", func(t *testing.T) {
		cause := errors.New("quota exceeded")
		_, err := NewParser(&fakeClient{err: cause}, nil).ParseJob(context.Background(), jobText)
		var apiErr *APICallError
		require.ErrorAs(t, err, &apiErr)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("malformed response", func(t *testing.T) {
		_, err := NewParser(&fakeClient{response: "not json"}, nil).ParseJob(context.Background(), jobText)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	})
}

func TestParseJob_NegativeYears(t *testing.T) {
	p := NewParser(&fakeClient{response: `{"required_skills": ["Go"], "min_years": -3}`}, nil)
	job, err := p.ParseJob(context.Background(), jobText)
	require.NoError(t, err)
	assert.Zero(t, job.MinYears)
}

func TestBuildExtractionPrompt_Truncates(t *testing.T) {
	long := make([]byte, MaxJobChars+500)
	for i := range long {
		long[i] = 'a'
	}
	prompt, err := buildExtractionPrompt(string(long))
	require.NoError(t, err)
	assert.Less(t, len(prompt), MaxJobChars+2000)
}

func TestNormalizeSkills(t *testing.T) {
	got := NormalizeSkills([]string{"golang", "Go.", "python3", "", "Rust"}, map[string]bool{"rust": true})
	assert.Equal(t, []string{"Go", "Python"}, got)
}

func TestMerge(t *testing.T) {
	parsed := &types.JobRequirement{
		Title:           "Data Engineer",
		RequiredSkills:  []string{"Python"},
		PreferredSkills: []string{"Airflow"},
		MinYears:        3,
	}

	job := &types.JobRequirement{Text: "x"}
	Merge(job, parsed)
	assert.Equal(t, "Data Engineer", job.Title)
	assert.Equal(t, []string{"Python"}, job.RequiredSkills)
	assert.Equal(t, 3, job.MinYears)

	own := &types.JobRequirement{Title: "Analyst", PreferredSkills: []string{"SQL"}, MinYears: 1}
	Merge(own, parsed)
	assert.Equal(t, "Analyst", own.Title)
	assert.Empty(t, own.RequiredSkills)
	assert.Equal(t, []string{"SQL"}, own.PreferredSkills)
	assert.Equal(t, 1, own.MinYears)
}
