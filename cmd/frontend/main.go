// Package main is the entry point for the inference frontend host.
//
// The host owns one in-process engine, binds the configured frontend to it
// through the frontend adapter, and tears both down on SIGINT or SIGTERM:
// the frontend first, the engine last.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/inference-frontend/internal/adapters/engine"
	httpfrontend "github.com/jsamuelsen/inference-frontend/internal/adapters/http"
	"github.com/jsamuelsen/inference-frontend/internal/adapters/http/handlers"
	"github.com/jsamuelsen/inference-frontend/internal/app"
	"github.com/jsamuelsen/inference-frontend/internal/platform/config"
	"github.com/jsamuelsen/inference-frontend/internal/platform/logging"
	"github.com/jsamuelsen/inference-frontend/internal/platform/telemetry"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the binary.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	features, err := cfg.RestrictedFeatures()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging. Restricted header values never reach the logs.
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
		Redact: features.Keys(),
	})
	logging.SetDefault(logger)

	logger.Info("starting inference frontend",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("frontend", cfg.Frontend.Kind),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		Insecure:     cfg.Telemetry.Insecure,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create the engine this process owns
	engines := engine.NewTable()
	handle := engines.Register(engine.NewStandalone(cfg.Engine.Ready), func() {
		logger.Info("engine destroyed")
	})

	defer func() {
		if err := engines.Delete(handle); err != nil {
			logger.Error("engine teardown error", slog.Any("error", err))
		}
	}()

	// 6. Frontend options
	frontendCfg, err := cfg.FrontendMap()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 7. Bind the frontend to the engine
	if cfg.App.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	buildInfo := handlers.NewBuildInfo(cfg.App.Name, Version, Commit, BuildTime)

	frontend, err := app.NewFrontend(handle, frontendCfg, httpfrontend.Factory(logger, buildInfo), &app.FrontendOptions{
		RestrictedFeatures: features,
		Resolver:           engines,
		Logger:             logger,
	})
	if err != nil {
		return fmt.Errorf("creating frontend: %w", err)
	}

	// 8. Start serving
	if err := frontend.StartService(); err != nil {
		frontend.Close()
		return fmt.Errorf("starting frontend: %w", err)
	}

	logger.Info("frontend listening", slog.String("addr", frontend.Service().Addr()))

	// 9. Wait for shutdown signal
	return waitForShutdown(ctx, logger, frontend, cfg.Frontend.StopTimeout)
}

// stopper is the part of the frontend adapter used during shutdown.
type stopper interface {
	StopService() error
	Close()
}

// waitForShutdown blocks until a shutdown signal is received, then stops
// and closes the frontend. Close never runs while StopService is in flight:
// after a timeout it is left to the goroutine still stopping the service.
func waitForShutdown(ctx context.Context, logger *slog.Logger, frontend stopper, timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("received shutdown signal, stopping frontend", slog.Duration("timeout", timeout))

	errCh := make(chan error, 1)
	go func() { errCh <- frontend.StopService() }()

	select {
	case err := <-errCh:
		frontend.Close()

		if err != nil {
			return fmt.Errorf("stopping frontend: %w", err)
		}
	case <-time.After(timeout):
		go func() {
			<-errCh
			frontend.Close()
		}()

		return errors.New("stopping frontend: timed out")
	}

	logger.Info("shutdown complete")

	return nil
}
