// Package history records feed generation runs in SQLite or Postgres.
package history

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Run is one feed generation attempt.
type Run struct {
	ID         uuid.UUID `json:"id"`
	FeedID     uuid.UUID `json:"feed_id"` // uuid.Nil when the run failed
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	URLCount   int       `json:"url_count"`
	Parts      int       `json:"parts"`
	Skipped    int       `json:"skipped"`
	Disallowed int       `json:"disallowed"`
	Kinds      []string  `json:"kinds"`
	Error      string    `json:"error,omitempty"`
}

// Store persists runs. Implementations are safe for concurrent use.
type Store interface {
	Initialize(ctx context.Context) error
	Record(ctx context.Context, run Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// Open picks the backend from dsn: postgres:// and postgresql:// URLs use
// Postgres, anything else is a SQLite path. An empty dsn disables history
// and returns a nil Store.
func Open(ctx context.Context, dsn string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch {
	case dsn == "":
		return nil, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		s, err = NewPostgresStore(dsn)
	default:
		s, err = NewSQLiteStore(strings.TrimPrefix(dsn, "sqlite://"))
	}
	if err != nil {
		return nil, err
	}
	if err := s.Initialize(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
