package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS feed_runs (
            id UUID PRIMARY KEY,
            feed_id UUID,
            started_at TIMESTAMPTZ NOT NULL,
            finished_at TIMESTAMPTZ NOT NULL,
            url_count INTEGER NOT NULL DEFAULT 0,
            parts INTEGER NOT NULL DEFAULT 0,
            skipped INTEGER NOT NULL DEFAULT 0,
            disallowed INTEGER NOT NULL DEFAULT 0,
            kinds TEXT[],
            error TEXT
        )`,
		`CREATE INDEX IF NOT EXISTS idx_feed_runs_started_at ON feed_runs(started_at DESC)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *PostgresStore) Record(ctx context.Context, run Run) error {
	query := `
        INSERT INTO feed_runs (id, feed_id, started_at, finished_at, url_count, parts, skipped, disallowed, kinds, error)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.FeedID,
		run.StartedAt,
		run.FinishedAt,
		run.URLCount,
		run.Parts,
		run.Skipped,
		run.Disallowed,
		pq.Array(run.Kinds),
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	query := `
        SELECT id, feed_id, started_at, finished_at, url_count, parts, skipped, disallowed, kinds, COALESCE(error, '')
        FROM feed_runs
        ORDER BY started_at DESC
        LIMIT $1
    `

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID,
			&run.FeedID,
			&run.StartedAt,
			&run.FinishedAt,
			&run.URLCount,
			&run.Parts,
			&run.Skipped,
			&run.Disallowed,
			pq.Array(&run.Kinds),
			&run.Error,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
