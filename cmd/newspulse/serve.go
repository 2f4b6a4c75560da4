package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/NewsPulse/internal/api"
	"github.com/IshaanNene/NewsPulse/internal/engine"
	"github.com/IshaanNene/NewsPulse/internal/observability"
)

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  "Serve GET /get_news?company=<name> with the comparative report as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, logCloser, err := loadConfig()
			if err != nil {
				return err
			}
			defer logCloser.Close()

			if port > 0 {
				cfg.Server.Port = port
			}

			if slices.Contains(cfg.Storage.Types, "json") {
				logger.Warn("json storage keeps every report in memory until shutdown, use jsonl for a long-running server")
			}

			metrics := observability.NewMetrics(logger)
			eng, err := engine.NewFromConfig(cfg, logger, metrics)
			if err != nil {
				return fmt.Errorf("create engine: %w", err)
			}
			defer func() {
				if err := eng.Close(); err != nil {
					logger.Error("engine close failed", "error", err)
				}
			}()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := api.NewServer(cfg, eng, metrics, logger)
			if err := srv.Start(ctx); err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			logger.Info("server stopped", "stats", metrics.Snapshot())
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config and PORT)")
	return cmd
}
