package predictor

import (
	"sync"
	"time"
)

// Status is the outcome of the last health probe.
type Status struct {
	CheckedAt time.Time
	Healthy   bool
	Message   string
}

// StatusTracker keeps the most recent Status. It is safe for concurrent use.
type StatusTracker struct {
	mu     sync.RWMutex
	status Status
	known  bool
}

// NewStatusTracker returns a tracker with no recorded probe.
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{}
}

// Record stores the result of a health call made at time at.
func (t *StatusTracker) Record(health *HealthStatus, err error, at time.Time) Status {
	s := Status{CheckedAt: at}
	switch {
	case err != nil:
		s.Message = err.Error()
	case health != nil:
		s.Healthy = health.Healthy()
		s.Message = health.Message
	}

	t.mu.Lock()
	t.status = s
	t.known = true
	t.mu.Unlock()
	return s
}

// Current returns the last recorded status and whether any probe has run.
func (t *StatusTracker) Current() (Status, bool) {
	if t == nil {
		return Status{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status, t.known
}

// Down reports whether the last probe found the API unhealthy.
func (t *StatusTracker) Down() bool {
	s, known := t.Current()
	return known && !s.Healthy
}
