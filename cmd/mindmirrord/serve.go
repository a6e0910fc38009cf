package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mindmirror-ai/mindmirror/internal/config"
	"github.com/mindmirror-ai/mindmirror/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MindMirror HTTP server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := newLogger(cfg)
	log.Info().Str("version", version).Msg("starting mindmirrord")

	if cfg.HuggingFaceKey() == "" {
		log.Warn().Str("env", cfg.Providers.HuggingFaceKeyEnv).Msg("no HuggingFace API key, inference chains will degrade to local tiers")
	}
	if cfg.OpenRouterKey() == "" {
		log.Warn().Str("env", cfg.Providers.OpenRouterKeyEnv).Msg("no OpenRouter API key, reflection chain will skip OpenRouter providers")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := server.BuildEngine(cfg, log)
	srv := server.New(cfg, engine, log)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
