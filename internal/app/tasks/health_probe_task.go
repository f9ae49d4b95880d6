package tasks

import (
	"context"
	"fmt"
	"time"
)

const healthProbeTimeout = 10 * time.Second

// newHealthProbeTask creates the task that asks the prediction API whether
// its model is loaded and records the answer in the status tracker.
func newHealthProbeTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "api_health_probe")

	return func(ctx context.Context) error {
		probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
		defer cancel()

		wasDown := deps.Status.Down()
		health, err := deps.Client.Health(probeCtx)
		status := deps.Status.Record(health, err, deps.now())

		if err != nil {
			log.WarnContext(ctx, "Prediction API health check failed", "error", err)
			return fmt.Errorf("health probe failed: %w", err)
		}

		switch {
		case health == nil:
			log.WarnContext(ctx, "Prediction API returned no health status")
		case !status.Healthy:
			log.WarnContext(ctx, "Prediction API is unhealthy", "status", health.Status, "model_loaded", health.ModelLoaded, "message", health.Message)
		case wasDown:
			log.InfoContext(ctx, "Prediction API recovered")
		default:
			log.DebugContext(ctx, "Prediction API is healthy")
		}
		return nil
	}
}
