package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/observability"
)

var mlScoreCmd = &cobra.Command{
	Use:   "ml-score",
	Short: "Compute the ML relevance score for a résumé and job description",
	Long: `Score a résumé against a job description with sentence embeddings, falling
back to the cross-encoder judge and then TF-IDF similarity when embeddings are
unavailable. A trained ranker (ml.ranker_path) refines the score when set.`,
	RunE: runMLScore,
}

var (
	mlResume string
	mlJD     string
	mlFormat string
)

func init() {
	mlScoreCmd.Flags().StringVarP(&mlResume, "resume", "r", "", "Path to the résumé plain text (required)")
	mlScoreCmd.Flags().StringVarP(&mlJD, "jd", "j", "", "Path to the job description plain text (required)")
	mlScoreCmd.Flags().StringVar(&mlFormat, "format", formatText, "Output format: text or json")

	_ = mlScoreCmd.MarkFlagRequired("resume")
	_ = mlScoreCmd.MarkFlagRequired("jd")
	rootCmd.AddCommand(mlScoreCmd)
}

func runMLScore(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(mlFormat); err != nil {
		return err
	}
	resume, err := readText(cmd.InOrStdin(), mlResume)
	if err != nil {
		return err
	}
	jd, err := readText(cmd.InOrStdin(), mlJD)
	if err != nil {
		return err
	}
	if strings.TrimSpace(resume) == "" || strings.TrimSpace(jd) == "" {
		return errors.New("résumé and job description must not be empty")
	}

	ctx := cmd.Context()
	c, err := buildComponents(ctx, cfg, logger, buildOptions{})
	if err != nil {
		return err
	}
	defer c.Close()

	score := c.ml.Score(ctx, resume, jd)
	if mlFormat == formatJSON {
		return writeJSON(cmd.OutOrStdout(), "", score)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintMLScore(&score)
	return nil
}
