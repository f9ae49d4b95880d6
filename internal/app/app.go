// Package app implements the lifecycle of the predictor service: it runs
// the web server and the task scheduler together and shuts both down when
// the context is cancelled.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/studentpredictor/internal/config"
	"github.com/edgard/studentpredictor/internal/logger"
)

// Server is the long-running HTTP component.
type Server interface {
	Run(ctx context.Context) error
}

// App owns the components of a running service.
type App struct {
	logger    *slog.Logger
	server    Server
	scheduler *Scheduler
}

// New creates an App from its components.
func New(log *slog.Logger, server Server, scheduler *Scheduler) *App {
	if log == nil {
		log = logger.Discard()
	}
	return &App{
		logger:    log.With("component", "app"),
		server:    server,
		scheduler: scheduler,
	}
}

// Run starts all components and blocks until ctx is cancelled or one of
// them fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting predictor service...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Run(gCtx); err != nil {
			a.logger.Error("HTTP server failed", "error", err)
			return err
		}
		if ctx.Err() == nil && gCtx.Err() == nil {
			return fmt.Errorf("http server stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		if err := a.scheduler.Start(gCtx); err != nil {
			a.logger.Error("Failed to start scheduler", "error", err)
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		// The form banner should reflect the API state from the first page view.
		if err := a.scheduler.RunNow(config.TaskAPIHealthProbe); err != nil {
			a.logger.Debug("Initial health probe not run", "error", err)
		}

		<-gCtx.Done()
		a.logger.Info("Shutdown signal received, stopping scheduler...")
		if err := a.scheduler.Stop(); err != nil {
			a.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	a.logger.Info("Predictor service running. Waiting for shutdown signal or error...")
	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("Predictor service stopped due to error", "error", err)
		return err
	}

	a.logger.Info("Predictor service stopped gracefully.")
	return nil
}
