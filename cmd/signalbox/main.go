package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/neox5/signalbox/internal/app"
	"github.com/neox5/signalbox/internal/config"
	"github.com/neox5/signalbox/internal/version"
)

func main() {
	cmd := &cli.Command{
		Name:    "signalbox",
		Usage:   "Golden-signal metric registry with Prometheus and OTLP exposition",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to configuration file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: serve,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	debug := cmd.Bool("debug")

	// Configure logging level
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting signalbox", "version", version.String(), "config", configPath)

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize application
	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	// Setup graceful shutdown
	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start resource monitor
	if application.Monitor != nil {
		application.Monitor.Run(shutdownCtx)
		defer application.Monitor.Wait()
	}

	// Start servers
	var wg sync.WaitGroup
	errChan := make(chan error, 3)

	if application.AppServer != nil {
		wg.Go(func() {
			if err := application.AppServer.Start(shutdownCtx); err != nil {
				errChan <- fmt.Errorf("app server: %w", err)
			}
		})
	}

	if application.PrometheusExporter != nil {
		wg.Go(func() {
			if err := application.PrometheusExporter.Start(shutdownCtx); err != nil {
				errChan <- fmt.Errorf("prometheus exporter: %w", err)
			}
		})
	}

	if application.OTELExporter != nil {
		wg.Go(func() {
			if err := application.OTELExporter.Start(shutdownCtx); err != nil {
				errChan <- fmt.Errorf("otel exporter: %w", err)
			}
		})
	}

	// Wait for shutdown or error
	select {
	case err := <-errChan:
		slog.Error("server error", "error", err)
		stop() // Cancel context to trigger shutdown
	case <-shutdownCtx.Done():
		// Graceful shutdown triggered
	}

	// The servers' Start methods return when shutdownCtx is cancelled
	wg.Wait()

	slog.Info("shutdown complete")
	return nil
}
