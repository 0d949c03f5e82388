package db

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS fetches (
	url        TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	size       INTEGER NOT NULL,
	fetched_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS build_runs (
	id                   TEXT PRIMARY KEY,
	started_at           DATETIME NOT NULL,
	finished_at          DATETIME,
	verbs                INTEGER NOT NULL DEFAULT 0,
	missing_translations INTEGER NOT NULL DEFAULT 0,
	missing_conjugations INTEGER NOT NULL DEFAULT 0,
	mismatches           INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS build_diagnostics (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES build_runs(id),
	kind   TEXT NOT NULL,
	lemma  TEXT NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_build_diagnostics_run ON build_diagnostics(run_id);
`

// Open opens (or creates) the SQLite database at path and runs migrations.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// The build is a single exclusive process; one connection also keeps
	// :memory: databases from splitting per connection.
	conn.SetMaxOpenConns(1)
	if err := InitDB(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// InitDB runs migrations on the given DB connection.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
