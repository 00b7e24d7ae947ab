package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-gravity/internal/client"
	"github.com/MKhiriev/go-gravity/internal/config"
	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/MKhiriev/go-gravity/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.GetClientConfig()
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}
	if len(cfg.Args) > 0 && cfg.Args[0] == "version" {
		models.NewAppBuildInfo(buildVersion, buildDate, buildCommit).Print(os.Stdout)
		return nil
	}

	log := logger.NewClientLogger("gravity-client", cfg.Log.File, logger.FileOptions{
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	app, err := client.NewApp(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init client app: %w", err)
	}

	runErr := app.Run(ctx)

	// the context may already be cancelled; the final checkpoint still runs
	closeErr := app.Close(context.WithoutCancel(ctx))
	if closeErr != nil {
		log.Error().Err(closeErr).Msg("error closing client app")
	}

	return errors.Join(runErr, closeErr)
}
