package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/server"
	"github.com/jonathan/resume-scorer/internal/server/ratelimit"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing /analyze, /analyze/stream, /skills/match,
/ml-score, /kb/search, /analyses/{id} and /health. Results are persisted when
DATABASE_URL is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	c, err := buildComponents(ctx, cfg, logger, buildOptions{connectStore: true})
	if err != nil {
		return err
	}
	defer c.Close()

	port := cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}
	rl := cfg.Server.RateLimit
	deps := server.Deps{
		Pipeline: c.pipeline,
		Matcher:  c.matcher,
		ML:       c.ml,
		KB:       c.searcher(),
	}
	if c.store != nil {
		deps.Store = c.store
	}

	srv, err := server.New(server.Config{
		Port:      port,
		RateLimit: ratelimit.NewConfig(rl.Enabled, rl.Limit, rl.Window, rl.Whitelist, rl.Blacklist),
		Logger:    logger,
	}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
