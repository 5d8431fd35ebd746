package mlscore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/prompts"
	"github.com/jonathan/resume-scorer/internal/textutil"
)

// Cross-encoder calibration: sigmoid outputs in [0.4, 0.9] span the full
// [0, 1] relevance range.
const (
	crossEncoderLow  = 0.4
	crossEncoderHigh = 0.9
	crossEncoderRune = 512
	probabilityEps   = 1e-6
)

// CrossEncoder scores a (query, document) pair jointly. Predict returns a
// logit; callers apply the sigmoid.
type CrossEncoder interface {
	Predict(ctx context.Context, query, document string) (float64, error)
}

// CalibrateCrossEncoder maps a cross-encoder logit onto [0, 1].
func CalibrateCrossEncoder(logit float64) float64 {
	p := textutil.Sigmoid(logit)
	return textutil.Clamp((p-crossEncoderLow)/(crossEncoderHigh-crossEncoderLow), 0, 1)
}

// LLMJudge is a CrossEncoder backed by a generative model that reads the
// job description and résumé together and estimates a match probability.
type LLMJudge struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMJudge builds a judge on the lite model tier.
func NewLLMJudge(client llm.Client) *LLMJudge {
	return &LLMJudge{client: client, tier: llm.TierLite}
}

type judgeResponse struct {
	RelevanceProbability *float64 `json:"relevance_probability"`
	Reasoning            string   `json:"reasoning"`
}

// Predict asks the model for a relevance probability and converts it to a
// logit. Both texts are truncated to 512 runes.
func (j *LLMJudge) Predict(ctx context.Context, query, document string) (float64, error) {
	if j == nil || j.client == nil {
		return 0, fmt.Errorf("relevance judge: no client configured")
	}
	prompt, err := judgePrompt(textutil.Truncate(query, crossEncoderRune), textutil.Truncate(document, crossEncoderRune))
	if err != nil {
		return 0, err
	}

	raw, err := j.client.GenerateJSON(ctx, prompt, j.tier)
	if err != nil {
		return 0, fmt.Errorf("relevance judge: LLM generation failed: %w", err)
	}
	raw = llm.CleanJSONBlock(raw)

	var resp judgeResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return 0, fmt.Errorf("relevance judge: failed to parse response: %w (content: %s)", err, raw)
	}
	if resp.RelevanceProbability == nil {
		return 0, fmt.Errorf("relevance judge: response has no relevance_probability")
	}
	p := textutil.Clamp(*resp.RelevanceProbability, probabilityEps, 1-probabilityEps)
	return math.Log(p / (1 - p)), nil
}

func judgePrompt(query, document string) (string, error) {
	system, err := prompts.Get(prompts.Scoring, "relevance-judge-system")
	if err != nil {
		return "", err
	}
	user, err := prompts.Get(prompts.Scoring, "relevance-judge")
	if err != nil {
		return "", err
	}
	user, err = prompts.Render(user, map[string]string{"Query": query, "Document": document})
	if err != nil {
		return "", err
	}
	return system + "\n\n" + user, nil
}
