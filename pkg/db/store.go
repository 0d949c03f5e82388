package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store is a SQLite-backed fetch cache keyed by URL. It satisfies fetch.Cache.
type Store struct {
	conn *sql.DB
}

// NewStore wraps an initialized connection.
func NewStore(conn *sql.DB) *Store {
	return &Store{conn: conn}
}

// Get returns the cached body for url.
func (s *Store) Get(ctx context.Context, url string) ([]byte, bool, error) {
	var body []byte
	err := s.conn.QueryRowContext(ctx, `SELECT body FROM fetches WHERE url = ?`, url).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// Put stores or replaces the body for url.
func (s *Store) Put(ctx context.Context, url string, body []byte) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("url must be non-empty")
	}
	_, err := s.conn.ExecContext(ctx, `INSERT INTO fetches (url, body, size, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
		  body = excluded.body,
		  size = excluded.size,
		  fetched_at = excluded.fetched_at`,
		url, body, len(body), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert fetch: %w", err)
	}
	return nil
}

// Flush removes every cached body. Build-run history is kept.
func (s *Store) Flush(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM fetches`)
	return err
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// ListFetches returns cached URLs ordered by fetch time.
func ListFetches(ctx context.Context, db DBExecutor) ([]Fetch, error) {
	rows, err := db.QueryContext(ctx, `SELECT url, size, fetched_at FROM fetches ORDER BY fetched_at, url`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Fetch
	for rows.Next() {
		var f Fetch
		if err := rows.Scan(&f.URL, &f.Size, &f.FetchedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordBuildRun inserts or updates the provenance row of a build.
func RecordBuildRun(ctx context.Context, db DBExecutor, run BuildRun) error {
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("build run id must be non-empty")
	}
	var finished interface{}
	if !run.FinishedAt.IsZero() {
		finished = run.FinishedAt.UTC()
	}
	_, err := db.ExecContext(ctx, `INSERT INTO build_runs
		(id, started_at, finished_at, verbs, missing_translations, missing_conjugations, mismatches)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  finished_at = excluded.finished_at,
		  verbs = excluded.verbs,
		  missing_translations = excluded.missing_translations,
		  missing_conjugations = excluded.missing_conjugations,
		  mismatches = excluded.mismatches`,
		run.ID, run.StartedAt.UTC(), finished, run.Verbs,
		run.MissingTranslations, run.MissingConjugations, run.Mismatches)
	if err != nil {
		return fmt.Errorf("upsert build run: %w", err)
	}
	return nil
}

// LastBuildRun returns the most recently started build, or sql.ErrNoRows.
func LastBuildRun(ctx context.Context, db DBExecutor) (BuildRun, error) {
	var run BuildRun
	var finished sql.NullTime
	err := db.QueryRowContext(ctx, `SELECT id, started_at, finished_at, verbs,
		missing_translations, missing_conjugations, mismatches
		FROM build_runs ORDER BY started_at DESC LIMIT 1`).Scan(
		&run.ID, &run.StartedAt, &finished, &run.Verbs,
		&run.MissingTranslations, &run.MissingConjugations, &run.Mismatches)
	if err != nil {
		return BuildRun{}, err
	}
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	return run, nil
}
