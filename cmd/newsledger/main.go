package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"NewsLedger/internal/app"
	"NewsLedger/internal/config"
	"NewsLedger/internal/logging"
)

func main() {
	root := &cobra.Command{
		Use:           "newsledger",
		Short:         "newsledger — NFL news feed ingestion and audit trail",
		Long:          "Polls configured news feeds, normalizes entries into canonical UTC records, drops duplicates and appends the survivors to a date-partitioned JSONL audit trail.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		pullCmd(),
		tweetsCmd(),
		daemonCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads and validates configuration and builds the application.
func setup(opts app.Options) (*app.Application, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger := logging.New(cfg.Logging.Level)
	return app.New(cfg, logger, opts), nil
}

func pullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Run one feed ingest batch and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := setup(app.Options{})
			if err != nil {
				return err
			}
			return application.RunPull(cmd.Context())
		},
	}
}

func tweetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tweets",
		Short: "Run one X side-channel pull and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := setup(app.Options{})
			if err != nil {
				return err
			}
			return application.RunTweets(cmd.Context())
		},
	}
}

func daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Ingest on the configured cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := setup(app.Options{Metrics: true})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return application.RunDaemon(ctx)
		},
	}
}
