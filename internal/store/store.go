// Package store is the SQLite layer recording debugging-run history. Each
// test run persists its score and classified step log, so debugging
// quality can be compared across builds, flags and debuggers after the
// fact.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for the run-history tables.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS runs (
  id              INTEGER PRIMARY KEY,
  started_at      TIMESTAMP NOT NULL,
  executable      TEXT NOT NULL,
  debugger        TEXT NOT NULL,
  dexter_version  TEXT,
  score           REAL NOT NULL,
  penalty_points  INTEGER NOT NULL,
  max_points      INTEGER NOT NULL,
  num_steps       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_steps (
  id              INTEGER PRIMARY KEY,
  run_id          INTEGER NOT NULL REFERENCES runs(id),
  seq             INTEGER NOT NULL,
  function        TEXT,
  path            TEXT,
  line            INTEGER,
  col             INTEGER,
  step_kind       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_steps_run ON run_steps(run_id, seq);
CREATE INDEX IF NOT EXISTS idx_runs_executable ON runs(executable);
`
