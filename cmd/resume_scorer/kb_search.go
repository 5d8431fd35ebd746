package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/observability"
)

var kbSearchCmd = &cobra.Command{
	Use:   "kb-search <query>",
	Short: "Semantic search over the skills knowledge base",
	Long:  `Search the knowledge base configured at kb.path for the entries closest to the query.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKBSearch,
}

var (
	kbType   string
	kbTopK   int
	kbFormat string
)

func init() {
	kbSearchCmd.Flags().StringVarP(&kbType, "type", "t", "", "Restrict results to one entry type (e.g. skill, occupation)")
	kbSearchCmd.Flags().IntVarP(&kbTopK, "top-k", "k", 10, "Maximum number of results")
	kbSearchCmd.Flags().StringVar(&kbFormat, "format", formatText, "Output format: text or json")

	rootCmd.AddCommand(kbSearchCmd)
}

func runKBSearch(cmd *cobra.Command, args []string) error {
	if err := checkFormat(kbFormat); err != nil {
		return err
	}
	if kbTopK < 1 {
		return fmt.Errorf("--top-k must be positive, got %d", kbTopK)
	}
	if cfg.KB.Path == "" {
		return errors.New("no knowledge base configured (set kb.path or RESUME_SCORER_KB_PATH)")
	}
	query := strings.Join(args, " ")

	ctx := cmd.Context()
	c, err := buildComponents(ctx, cfg, logger, buildOptions{})
	if err != nil {
		return err
	}
	defer c.Close()

	results, err := c.kb.Search(ctx, query, kbType, kbTopK)
	if err != nil {
		return fmt.Errorf("knowledge base search failed: %w", err)
	}
	if kbFormat == formatJSON {
		return writeJSON(cmd.OutOrStdout(), "", results)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintKBResults(query, results)
	return nil
}
