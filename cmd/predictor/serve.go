package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgard/studentpredictor/internal/app"
	"github.com/edgard/studentpredictor/internal/app/tasks"
	"github.com/edgard/studentpredictor/internal/logger"
	"github.com/edgard/studentpredictor/internal/predictor"
	"github.com/edgard/studentpredictor/internal/service"
	"github.com/edgard/studentpredictor/internal/web"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the survey form and the JSON prediction endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd.Context())
		},
	}
}

// serve wires every component of the service and runs until ctx is cancelled.
func (c *cli) serve(ctx context.Context) error {
	cfg := c.cfg
	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	store, closeStore, err := c.openStore(log)
	if err != nil {
		return err
	}
	defer closeStore()

	client := predictor.NewClient(cfg.API, log)
	status := predictor.NewStatusTracker()

	svc := service.NewPredictionService(service.Deps{
		Logger:   log,
		Client:   client,
		Store:    store,
		Messages: cfg.Messages,
		BaseURL:  cfg.API.BaseURL,
	})

	handler, err := web.NewHandler(web.Deps{
		Logger:   log,
		Service:  svc,
		Client:   client,
		Store:    store,
		Status:   status,
		PageSize: cfg.History.PageSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create web handler: %w", err)
	}
	server := web.NewServer(cfg.Server, web.NewRouter(handler, log), log)

	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Client: client,
		Status: status,
		Config: cfg,
	})
	sched, err := app.NewScheduler(log, &cfg.Scheduler, taskMap)
	if err != nil {
		return err
	}

	log.Info("Starting predictor...", "addr", cfg.Server.Addr, "api", cfg.API.BaseURL, "history", cfg.History.Enabled)
	return app.New(log, server, sched).Run(ctx)
}
