package tasks

import (
	"context"

	"github.com/edgard/studentpredictor/internal/config"
	"github.com/edgard/studentpredictor/internal/logger"
)

// ScheduledTaskFunc defines the standard signature for all scheduled tasks.
// The context provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the tasks that can run with deps, keyed by the
// names used in the scheduler configuration. History tasks are only
// registered when a store is available.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	if deps.Logger == nil {
		deps.Logger = logger.Discard()
	}

	tasks := make(map[string]ScheduledTaskFunc)
	tasks[config.TaskAPIHealthProbe] = newHealthProbeTask(deps)

	if deps.Store != nil {
		tasks[config.TaskHistoryRetention] = newHistoryRetentionTask(deps)
		tasks[config.TaskSQLMaintenance] = newSQLMaintenanceTask(deps)
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
