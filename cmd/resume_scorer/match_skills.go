package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/observability"
	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/skills"
	"github.com/jonathan/resume-scorer/internal/types"
)

var matchSkillsCmd = &cobra.Command{
	Use:   "match-skills",
	Short: "Match candidate skills against required skills",
	Long: `Match candidate skills against a job's required (and optionally preferred)
skills using exact, synonym, equivalents, fuzzy and knowledge-base matching.
Input is a skill match request JSON (--in) or comma-separated lists.`,
	RunE: runMatchSkills,
}

var (
	matchInput     string
	matchSkills    string
	matchRequired  string
	matchPreferred string
	matchFormat    string
)

func init() {
	matchSkillsCmd.Flags().StringVarP(&matchInput, "in", "i", "", "Path to a skill match request JSON file (\"-\" for stdin)")
	matchSkillsCmd.Flags().StringVar(&matchSkills, "skills", "", "Comma-separated candidate skills")
	matchSkillsCmd.Flags().StringVar(&matchRequired, "required", "", "Comma-separated required skills")
	matchSkillsCmd.Flags().StringVar(&matchPreferred, "preferred", "", "Comma-separated preferred skills")
	matchSkillsCmd.Flags().StringVar(&matchFormat, "format", formatText, "Output format: text or json")

	matchSkillsCmd.MarkFlagsMutuallyExclusive("in", "skills")
	rootCmd.AddCommand(matchSkillsCmd)
}

// skillMatchInput is the normalized form of either input mode.
type skillMatchInput struct {
	Candidates []string
	Required   []string
	Preferred  []string
}

func parseSkillMatchRequest(data []byte) (skillMatchInput, error) {
	if err := schemas.Validate(schemas.SkillMatchRequest, data); err != nil {
		return skillMatchInput{}, err
	}
	var raw struct {
		CandidateSkills []any    `json:"candidate_skills"`
		RequiredSkills  []string `json:"required_skills"`
		PreferredSkills []string `json:"preferred_skills"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return skillMatchInput{}, fmt.Errorf("failed to parse request: %w", err)
	}
	return skillMatchInput{
		Candidates: skills.NormalizeSkillInputs(raw.CandidateSkills),
		Required:   raw.RequiredSkills,
		Preferred:  raw.PreferredSkills,
	}, nil
}

func runMatchSkills(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(matchFormat); err != nil {
		return err
	}
	var in skillMatchInput
	if matchInput != "" {
		data, err := readInput(cmd.InOrStdin(), matchInput)
		if err != nil {
			return err
		}
		if in, err = parseSkillMatchRequest(data); err != nil {
			return err
		}
	} else {
		in = skillMatchInput{
			Candidates: skills.Names(splitList(matchSkills)),
			Required:   splitList(matchRequired),
			Preferred:  splitList(matchPreferred),
		}
	}
	if len(in.Required) == 0 && len(in.Preferred) == 0 {
		return errors.New("at least one required or preferred skill is needed")
	}

	ctx := cmd.Context()
	c, err := buildComponents(ctx, cfg, logger, buildOptions{})
	if err != nil {
		return err
	}
	defer c.Close()

	var result *types.SkillMatchResult
	if len(in.Preferred) > 0 {
		result = c.matcher.MatchJob(ctx, in.Candidates, &types.JobRequirement{
			RequiredSkills:  in.Required,
			PreferredSkills: in.Preferred,
		})
	} else {
		result = c.matcher.Match(ctx, in.Candidates, in.Required)
	}

	if matchFormat == formatJSON {
		return writeJSON(cmd.OutOrStdout(), "", result)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSkillMatch(result)
	return nil
}
