package database

import (
	"database/sql"
	"time"
)

// Outcome classifies how a prediction exchange ended.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeValidationError Outcome = "validation_error"
	OutcomeAPIError        Outcome = "api_error"
)

// Exchange records one survey submission and what came back.
// Submission holds the raw form as JSON so that rejected input is kept too.
type Exchange struct {
	ID         string          `db:"id"`
	CreatedAt  time.Time       `db:"created_at"`
	Submission string          `db:"submission"`
	Outcome    Outcome         `db:"outcome"`
	Class      string          `db:"class"`
	Confidence sql.NullFloat64 `db:"confidence"`
	Message    string          `db:"message"`
	DurationMS int64           `db:"duration_ms"`
}
