package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS feed_runs (
            id TEXT PRIMARY KEY,
            feed_id TEXT,
            started_at DATETIME NOT NULL,
            finished_at DATETIME NOT NULL,
            url_count INTEGER NOT NULL DEFAULT 0,
            parts INTEGER NOT NULL DEFAULT 0,
            skipped INTEGER NOT NULL DEFAULT 0,
            disallowed INTEGER NOT NULL DEFAULT 0,
            kinds TEXT,
            error TEXT
        )`,
		`CREATE INDEX IF NOT EXISTS idx_feed_runs_started_at ON feed_runs(started_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *SQLiteStore) Record(ctx context.Context, run Run) error {
	query := `
        INSERT INTO feed_runs (id, feed_id, started_at, finished_at, url_count, parts, skipped, disallowed, kinds, error)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	kindsJSON, err := json.Marshal(run.Kinds)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query,
		run.ID.String(),
		run.FeedID.String(),
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		run.URLCount,
		run.Parts,
		run.Skipped,
		run.Disallowed,
		string(kindsJSON),
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	query := `
        SELECT id, feed_id, started_at, finished_at, url_count, parts, skipped, disallowed, kinds, error
        FROM feed_runs
        ORDER BY rowid DESC
        LIMIT ?
    `

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run              Run
			idStr, feedIDStr string
			kindsJSON        sql.NullString
			errText          sql.NullString
		)
		if err := rows.Scan(
			&idStr,
			&feedIDStr,
			&run.StartedAt,
			&run.FinishedAt,
			&run.URLCount,
			&run.Parts,
			&run.Skipped,
			&run.Disallowed,
			&kindsJSON,
			&errText,
		); err != nil {
			return nil, err
		}

		if run.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("run id %q: %w", idStr, err)
		}
		if run.FeedID, err = uuid.Parse(feedIDStr); err != nil {
			return nil, fmt.Errorf("feed id %q: %w", feedIDStr, err)
		}
		if kindsJSON.Valid && kindsJSON.String != "" {
			if err := json.Unmarshal([]byte(kindsJSON.String), &run.Kinds); err != nil {
				return nil, fmt.Errorf("run kinds: %w", err)
			}
		}
		run.Error = errText.String
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
