// Package tasks implements the scheduled tasks of the predictor service:
// probing the prediction API, pruning old history and database upkeep.
package tasks

import (
	"log/slog"
	"time"

	"github.com/edgard/studentpredictor/internal/config"
	"github.com/edgard/studentpredictor/internal/database"
	"github.com/edgard/studentpredictor/internal/predictor"
)

// TaskDeps contains all dependencies required by scheduled tasks.
// Store is nil when history is disabled.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Client predictor.Client
	Status *predictor.StatusTracker
	Config *config.Config
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d TaskDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
