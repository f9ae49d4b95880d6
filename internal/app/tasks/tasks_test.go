package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/studentpredictor/internal/config"
	"github.com/edgard/studentpredictor/internal/database"
	"github.com/edgard/studentpredictor/internal/predictor"
	"github.com/edgard/studentpredictor/internal/survey"
)

type healthClient struct {
	health *predictor.HealthStatus
	err    error
}

func (c *healthClient) Predict(context.Context, *survey.Submission) (*predictor.Prediction, error) {
	return nil, errors.New("not used")
}

func (c *healthClient) Health(context.Context) (*predictor.HealthStatus, error) {
	return c.health, c.err
}

func (c *healthClient) ModelInfo(context.Context) (*predictor.ModelInfo, error) {
	return nil, errors.New("not used")
}

type recordingStore struct {
	cutoff         time.Time
	pruneErr       error
	maintenance    int
	maintenanceErr error
}

func (s *recordingStore) Ping(context.Context) error { return nil }

func (s *recordingStore) SaveExchange(context.Context, *database.Exchange) error { return nil }

func (s *recordingStore) RecentExchanges(context.Context, int) ([]database.Exchange, error) {
	return nil, nil
}

func (s *recordingStore) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return 3, s.pruneErr
}

func (s *recordingStore) RunSQLMaintenance(context.Context) error {
	s.maintenance++
	return s.maintenanceErr
}

var fixedNow = time.Date(2026, 10, 18, 3, 15, 0, 0, time.UTC)

func newDeps(client predictor.Client, store database.Store) TaskDeps {
	return TaskDeps{
		Store:  store,
		Client: client,
		Status: predictor.NewStatusTracker(),
		Config: config.Default(),
		Now:    func() time.Time { return fixedNow },
	}
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	withoutStore := RegisterAllTasks(newDeps(&healthClient{}, nil))
	assert.Len(t, withoutStore, 1)
	assert.Contains(t, withoutStore, config.TaskAPIHealthProbe)

	withStore := RegisterAllTasks(newDeps(&healthClient{}, &recordingStore{}))
	assert.Len(t, withStore, 3)
	assert.Contains(t, withStore, config.TaskHistoryRetention)
	assert.Contains(t, withStore, config.TaskSQLMaintenance)
}

func TestHealthProbeTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		client      *healthClient
		wantErr     bool
		wantHealthy bool
	}{
		{
			name:        "healthy",
			client:      &healthClient{health: &predictor.HealthStatus{Status: "healthy", ModelLoaded: true}},
			wantHealthy: true,
		},
		{
			name:   "model not loaded",
			client: &healthClient{health: &predictor.HealthStatus{Status: "unhealthy", Message: "Modelo no cargado"}},
		},
		{
			name:    "unreachable",
			client:  &healthClient{err: predictor.ErrUnavailable},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			deps := newDeps(tt.client, nil)
			deps.Logger = nil
			task := RegisterAllTasks(deps)[config.TaskAPIHealthProbe]

			err := task(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, predictor.ErrUnavailable)
			} else {
				assert.NoError(t, err)
			}

			status, known := deps.Status.Current()
			require.True(t, known)
			assert.Equal(t, tt.wantHealthy, status.Healthy)
			assert.Equal(t, fixedNow, status.CheckedAt)
			assert.Equal(t, !tt.wantHealthy, deps.Status.Down())
		})
	}
}

func TestHistoryRetentionTask(t *testing.T) {
	t.Parallel()

	t.Run("prunes before cutoff", func(t *testing.T) {
		t.Parallel()

		store := &recordingStore{}
		deps := newDeps(&healthClient{}, store)
		deps.Config.History.Retention = 48 * time.Hour

		require.NoError(t, RegisterAllTasks(deps)[config.TaskHistoryRetention](context.Background()))
		assert.Equal(t, fixedNow.Add(-48*time.Hour), store.cutoff)
	})

	t.Run("zero retention keeps everything", func(t *testing.T) {
		t.Parallel()

		store := &recordingStore{}
		deps := newDeps(&healthClient{}, store)
		deps.Config.History.Retention = 0

		require.NoError(t, RegisterAllTasks(deps)[config.TaskHistoryRetention](context.Background()))
		assert.True(t, store.cutoff.IsZero())
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		store := &recordingStore{pruneErr: errors.New("locked")}
		err := RegisterAllTasks(newDeps(&healthClient{}, store))[config.TaskHistoryRetention](context.Background())
		assert.ErrorContains(t, err, "history retention failed")
	})
}

func TestSQLMaintenanceTask(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	task := RegisterAllTasks(newDeps(&healthClient{}, store))[config.TaskSQLMaintenance]
	require.NoError(t, task(context.Background()))
	assert.Equal(t, 1, store.maintenance)

	store.maintenanceErr = errors.New("disk I/O error")
	assert.ErrorContains(t, task(context.Background()), "sql maintenance failed")
}
