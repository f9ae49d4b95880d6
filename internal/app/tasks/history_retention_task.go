package tasks

import (
	"context"
	"fmt"
	"time"
)

// newHistoryRetentionTask creates the task that deletes exchanges older
// than the configured retention. A zero retention keeps everything.
func newHistoryRetentionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "history_retention")

	return func(ctx context.Context) error {
		retention := deps.Config.History.Retention
		if retention <= 0 {
			log.DebugContext(ctx, "History retention disabled, nothing to prune")
			return nil
		}

		startTime := time.Now()
		cutoff := deps.now().Add(-retention)
		deleted, err := deps.Store.PruneBefore(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "History retention task failed", "error", err)
			return fmt.Errorf("history retention failed: %w", err)
		}

		log.InfoContext(ctx, "History retention task completed", "deleted", deleted, "cutoff", cutoff, "duration", time.Since(startTime))
		return nil
	}
}
