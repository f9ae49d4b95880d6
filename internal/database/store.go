package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edgard/studentpredictor/internal/logger"
)

// Store defines the interface for history operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveExchange inserts a new exchange record. ID and CreatedAt are
	// assigned when empty.
	SaveExchange(ctx context.Context, ex *Exchange) error

	// RecentExchanges returns up to limit exchanges, newest first.
	RecentExchanges(ctx context.Context, limit int) ([]Exchange, error)

	// PruneBefore deletes exchanges created before cutoff and returns how
	// many were removed.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, log *slog.Logger) Store {
	if log == nil {
		log = logger.Discard()
	}
	return &sqlxStore{
		db:     db,
		logger: log.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveExchange(ctx context.Context, ex *Exchange) error {
	if ex == nil {
		return fmt.Errorf("cannot save nil exchange")
	}
	switch ex.Outcome {
	case OutcomeSuccess, OutcomeValidationError, OutcomeAPIError:
	default:
		return fmt.Errorf("exchange has unknown outcome %q", ex.Outcome)
	}
	if ex.Submission == "" {
		return fmt.Errorf("exchange must have a submission")
	}

	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now()
	}
	ex.CreatedAt = ex.CreatedAt.UTC()

	query := `
        INSERT INTO exchanges (id, created_at, submission, outcome, class, confidence, message, duration_ms)
        VALUES (:id, :created_at, :submission, :outcome, :class, :confidence, :message, :duration_ms);
    `
	if _, err := s.db.NamedExecContext(ctx, query, ex); err != nil {
		s.logger.ErrorContext(ctx, "Error saving exchange", "id", ex.ID, "outcome", ex.Outcome, "error", err)
		return fmt.Errorf("failed to save exchange %s: %w", ex.ID, err)
	}

	s.logger.DebugContext(ctx, "Exchange saved", "id", ex.ID, "outcome", ex.Outcome)
	return nil
}

func (s *sqlxStore) RecentExchanges(ctx context.Context, limit int) ([]Exchange, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	exchanges := []Exchange{}
	query := `
        SELECT id, created_at, submission, outcome, class, confidence, message, duration_ms
        FROM exchanges
        ORDER BY created_at DESC, id DESC
        LIMIT ?;
    `
	if err := s.db.SelectContext(ctx, &exchanges, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error fetching recent exchanges", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to fetch recent exchanges: %w", err)
	}
	return exchanges, nil
}

func (s *sqlxStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM exchanges WHERE created_at < ?;`, cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error pruning exchanges", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to prune exchanges: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read pruned row count: %w", err)
	}
	s.logger.InfoContext(ctx, "Pruned old exchanges", "deleted", deleted, "cutoff", cutoff)
	return deleted, nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Running SQL maintenance")
	startTime := time.Now()

	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		return fmt.Errorf("vacuum failed: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "ANALYZE;"); err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	s.logger.InfoContext(ctx, "SQL maintenance finished", "duration", time.Since(startTime))
	return nil
}
