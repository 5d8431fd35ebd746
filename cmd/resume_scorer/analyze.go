package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/observability"
	"github.com/jonathan/resume-scorer/internal/pipeline"
	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a candidate against a job description",
	Long: `Run the full scoring pipeline: rule-based checkers, optional ML scoring and
the fusion layer. The request comes from --in (an analysis request JSON, "-"
for stdin) and/or plain-text files given with --resume and --job.`,
	RunE: runAnalyze,
}

var (
	analyzeInput   string
	analyzeResume  string
	analyzeJob     string
	analyzeJobURL  string
	analyzeWithML  bool
	analyzeBrowser bool
	analyzeSave    bool
	analyzeFormat  string
	analyzeOut     string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput, "in", "i", "", "Path to an analysis request JSON file (\"-\" for stdin)")
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to the résumé plain text")
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to the job description plain text (mutually exclusive with --job-url)")
	analyzeCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL to fetch the job description from")
	analyzeCmd.Flags().BoolVar(&analyzeWithML, "with-ml", false, "Blend in the ML relevance score")
	analyzeCmd.Flags().BoolVar(&analyzeBrowser, "use-browser", false, "Use headless Chrome for JS-rendered job pages")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Persist the result (requires DATABASE_URL)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", formatText, "Output format: text or json")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write JSON output to this file instead of stdout")

	analyzeCmd.MarkFlagsMutuallyExclusive("job", "job-url")
	rootCmd.AddCommand(analyzeCmd)
}

// analyzeInputs names the sources of one analysis request.
type analyzeInputs struct {
	requestJSON []byte
	resumeText  string
	jobText     string
	jobURL      string
	withML      bool
}

// buildAnalysisRequest merges a JSON request with plain-text overrides.
func buildAnalysisRequest(in analyzeInputs) (pipeline.Request, error) {
	var req pipeline.Request
	if len(in.requestJSON) > 0 {
		if err := schemas.Validate(schemas.AnalysisRequest, in.requestJSON); err != nil {
			return req, err
		}
		if err := json.Unmarshal(in.requestJSON, &req); err != nil {
			return req, fmt.Errorf("failed to parse request: %w", err)
		}
	}
	if req.Profile == nil {
		req.Profile = &types.CandidateProfile{}
	}
	if in.resumeText != "" {
		req.ResumeText = in.resumeText
		if req.Profile.Text == "" {
			req.Profile.Text = in.resumeText
		}
	}
	if in.jobText != "" {
		if req.Job == nil {
			req.Job = &types.JobRequirement{}
		}
		req.Job.Text = in.jobText
	}
	if in.jobURL != "" {
		req.JobURL = in.jobURL
	}
	req.WithML = req.WithML || in.withML

	if strings.TrimSpace(req.ResumeText) == "" && strings.TrimSpace(req.Profile.Text) == "" {
		return req, errors.New("résumé text is required (use --resume or set profile.text)")
	}
	if err := req.Profile.Validate(); err != nil {
		return req, fmt.Errorf("invalid profile: %w", err)
	}
	if req.Job != nil {
		if err := req.Job.Validate(); err != nil {
			return req, fmt.Errorf("invalid job: %w", err)
		}
	}
	return req, nil
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(analyzeFormat); err != nil {
		return err
	}
	in := analyzeInputs{jobURL: analyzeJobURL, withML: analyzeWithML}
	var err error
	if analyzeInput != "" {
		if in.requestJSON, err = readInput(cmd.InOrStdin(), analyzeInput); err != nil {
			return err
		}
	}
	if analyzeResume != "" {
		if in.resumeText, err = readText(cmd.InOrStdin(), analyzeResume); err != nil {
			return err
		}
	}
	if analyzeJob != "" {
		if in.jobText, err = readText(cmd.InOrStdin(), analyzeJob); err != nil {
			return err
		}
	}
	req, err := buildAnalysisRequest(in)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	c, err := buildComponents(ctx, cfg, logger, buildOptions{
		browser:      analyzeBrowser,
		requireStore: analyzeSave,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	out := cmd.OutOrStdout()
	var progress pipeline.ProgressCallback
	if analyzeFormat == formatText {
		progress = func(e pipeline.ProgressEvent) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", e.Step, e.Message)
		}
	}
	result, err := c.pipeline.Run(ctx, req, progress)
	if err != nil {
		return err
	}

	if analyzeFormat == formatJSON || analyzeOut != "" {
		return writeJSON(out, analyzeOut, result)
	}
	printPipelineResult(out, result)
	return nil
}

func printPipelineResult(w io.Writer, result *pipeline.Result) {
	p := observability.NewPrinter(w)
	p.PrintAnalysis(result.Analysis)
	if result.Analysis.SkillMatch != nil {
		p.PrintSkillMatch(result.Analysis.SkillMatch)
	}
	if result.ML != nil {
		p.PrintMLScore(result.ML)
	}
	p.PrintEnhanced(result.Enhanced)
	if result.Stored {
		fmt.Fprintf(w, "Saved analysis %s\n", result.Analysis.ID)
	}
}

func readText(stdin io.Reader, path string) (string, error) {
	data, err := readInput(stdin, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
