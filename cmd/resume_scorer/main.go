// Package main provides the resume_scorer command-line interface.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/config"
	"github.com/jonathan/resume-scorer/internal/logging"
)

var (
	configPath string
	debugLogs  bool
	jsonLogs   bool

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "resume_scorer",
	Short: "Score résumés against job descriptions",
	Long: `resume_scorer grades a candidate profile against a job description with
rule-based checkers, an embedding-based ML scorer and a fusion layer, and
exposes the same pipeline over HTTP.

Configuration is read from --config (YAML or JSON), RESUME_SCORER_* environment
variables and a .env file in the working directory.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")
}

// loadRuntime resolves configuration and builds the logger before any command runs.
func loadRuntime(cmd *cobra.Command, _ []string) error {
	v := config.New()
	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("log.debug", flags.Lookup("debug")); err != nil {
		return err
	}
	if err := v.BindPFlag("log.json", flags.Lookup("json-logs")); err != nil {
		return err
	}

	c, err := config.Load(v, configPath)
	if err != nil {
		return err
	}
	l, err := logging.New(c.Log.JSON, c.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	cfg, logger = c, l
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
