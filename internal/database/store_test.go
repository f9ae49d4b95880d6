package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { CloseDB(db) })
	return NewStore(db, nil)
}

func TestSaveAndListExchanges(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	older := &Exchange{
		CreatedAt:  base,
		Submission: `{"genero":"F"}`,
		Outcome:    OutcomeValidationError,
		Message:    "Por favor complete todos los campos del formulario",
	}
	newer := &Exchange{
		CreatedAt:  base.Add(time.Minute),
		Submission: `{"genero":"M"}`,
		Outcome:    OutcomeSuccess,
		Class:      "Medio",
		Confidence: sql.NullFloat64{Float64: 0.52, Valid: true},
		DurationMS: 120,
	}
	require.NoError(t, store.SaveExchange(ctx, older))
	require.NoError(t, store.SaveExchange(ctx, newer))
	assert.NotEmpty(t, older.ID)
	assert.NotEqual(t, older.ID, newer.ID)

	got, err := store.RecentExchanges(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, OutcomeSuccess, got[0].Outcome)
	assert.Equal(t, "Medio", got[0].Class)
	assert.True(t, got[0].Confidence.Valid)
	assert.InDelta(t, 0.52, got[0].Confidence.Float64, 1e-9)
	assert.True(t, got[0].CreatedAt.Equal(newer.CreatedAt))

	assert.Equal(t, older.ID, got[1].ID)
	assert.False(t, got[1].Confidence.Valid)

	limited, err := store.RecentExchanges(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSaveExchangeRejectsInvalid(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.SaveExchange(ctx, nil))
	assert.Error(t, store.SaveExchange(ctx, &Exchange{Submission: "{}", Outcome: "exploded"}))
	assert.Error(t, store.SaveExchange(ctx, &Exchange{Outcome: OutcomeSuccess}))

	_, err := store.RecentExchanges(ctx, 0)
	assert.Error(t, err)
}

func TestPruneBefore(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, age := range []time.Duration{48 * time.Hour, 36 * time.Hour, time.Hour} {
		require.NoError(t, store.SaveExchange(ctx, &Exchange{
			CreatedAt:  now.Add(-age),
			Submission: "{}",
			Outcome:    OutcomeAPIError,
			Message:    "Modelo no disponible",
		}))
	}

	deleted, err := store.PruneBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := store.RecentExchanges(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestMaintenanceAndPing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.RunSQLMaintenance(ctx))
}

func TestMigrationsAreIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "again.db")
	db, err := NewDB(path)
	require.NoError(t, err)
	CloseDB(db)

	db, err = NewDB(path)
	require.NoError(t, err)
	CloseDB(db)
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/data/history.db", ExtractDBNameFromPath("file:/data/history.db?_pragma=busy_timeout(5000)"))
	assert.Equal(t, "my db.sqlite", ExtractDBNameFromPath("my%20db.sqlite"))
	assert.Equal(t, "plain.db", ExtractDBNameFromPath("plain.db"))
}
