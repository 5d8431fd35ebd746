// Package parsing extracts structured hiring requirements from free-text
// job descriptions using LLM extraction.
package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/logging"
	"github.com/jonathan/resume-scorer/internal/prompts"
	"github.com/jonathan/resume-scorer/internal/types"
)

// MaxJobChars bounds the job text sent to the model.
const MaxJobChars = 12000

// ErrEmptyJob is returned for blank job text.
var ErrEmptyJob = errors.New("job description text is empty")

// extraction is the JSON shape the model returns.
type extraction struct {
	Title           string   `json:"title"`
	RequiredSkills  []string `json:"required_skills"`
	PreferredSkills []string `json:"preferred_skills"`
	MinYears        float64  `json:"min_years"`
}

// Parser turns job description text into a JobRequirement.
type Parser struct {
	client llm.Client
	logger *zap.Logger
}

// NewParser creates a parser backed by client.
func NewParser(client llm.Client, logger *zap.Logger) *Parser {
	return &Parser{client: client, logger: logging.OrNop(logger)}
}

// ParseJob extracts title, required and preferred skills and minimum years
// from text. The returned requirement carries text unchanged.
func (p *Parser) ParseJob(ctx context.Context, text string) (*types.JobRequirement, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyJob
	}
	prompt, err := buildExtractionPrompt(text)
	if err != nil {
		return nil, err
	}

	responseText, err := p.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Message: "failed to extract job requirements", Cause: err}
	}

	var ex extraction
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(responseText)), &ex); err != nil {
		return nil, &ParseError{Message: "failed to parse JSON response", Cause: err}
	}

	job := postProcess(ex)
	job.Text = text
	p.logger.Debug("parsed job requirements",
		zap.String("title", job.Title),
		zap.Strings("required", job.RequiredSkills),
		zap.Strings("preferred", job.PreferredSkills),
		zap.Int("min_years", job.MinYears))
	return job, nil
}

// buildExtractionPrompt constructs the prompt for structured extraction
func buildExtractionPrompt(jobText string) (string, error) {
	template, err := prompts.Get(prompts.Parsing, "extract-job-requirements")
	if err != nil {
		return "", err
	}
	if len(jobText) > MaxJobChars {
		jobText = jobText[:MaxJobChars]
	}
	return prompts.Render(template, map[string]string{"JobText": jobText})
}

// postProcess normalizes skill names and drops preferred skills already required.
func postProcess(ex extraction) *types.JobRequirement {
	required := NormalizeSkills(ex.RequiredSkills, nil)
	seen := make(map[string]bool, len(required))
	for _, s := range required {
		seen[strings.ToLower(s)] = true
	}
	years := int(ex.MinYears)
	if years < 0 {
		years = 0
	}
	return &types.JobRequirement{
		Title:           strings.TrimSpace(ex.Title),
		RequiredSkills:  required,
		PreferredSkills: NormalizeSkills(ex.PreferredSkills, seen),
		MinYears:        years,
	}
}
