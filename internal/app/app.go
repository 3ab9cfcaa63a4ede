// Package app wires configuration, logging, telemetry and the HTTP router
// into a runnable service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"ghgcli/internal/config"
	"ghgcli/internal/inference"
	"ghgcli/internal/infrastructure"
	"ghgcli/internal/lineage"
	handlers "ghgcli/internal/transport/http"
)

// Application is the dependency container for the web service.
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Analyzer      *inference.Analyzer
	Lineage       *lineage.Store
	Router        chi.Router
	Server        *http.Server
}

// NewApplication loads configuration and assembles every collaborator.
func NewApplication(configFile string) (*Application, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("service", infrastructure.ServiceName),
		slog.Int("port", cfg.Server.Port))

	if err := cfg.Paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	store, err := lineage.Open(cfg.Paths.LineageFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open lineage store: %w", err)
	}

	analyzer := inference.NewAnalyzer(cfg.Inference, logger)

	router, err := handlers.NewRouter(handlers.RouterDeps{
		Config:    cfg,
		Logger:    logger,
		Providers: providers,
		Analyzer:  analyzer,
		Lineage:   store,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build router: %w", err)
	}

	return &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Analyzer:      analyzer,
		Lineage:       store,
		Router:        router,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}, nil
}

// Run starts the HTTP server and blocks until an interrupt arrives, then
// shuts down gracefully within the configured timeout.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-sigCh:
		a.Logger.InfoContext(ctx, "received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}

	return a.Shutdown(ctx)
}

// Shutdown stops the server and flushes telemetry.
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "server shutdown failed", slog.String("error", err.Error()))
		return err
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.WarnContext(ctx, "telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}

	infrastructure.CloseLogFile()
	a.Logger.Info("application stopped")
	return nil
}
