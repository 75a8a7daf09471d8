// Package storage persists projects and time entries in a SQLite file.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when the referenced project or entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is returned when a project name is already taken.
	ErrDuplicateName = errors.New("project name already exists")
	// ErrNoChanges is returned by UpdateTimeEntry for an empty patch.
	ErrNoChanges = errors.New("no fields to update")
)

// time_entries.project_id is declared as a foreign key but foreign_keys is
// never switched on: deleting a project leaves its entries orphaned.
var schema = []string{`
CREATE TABLE IF NOT EXISTS projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT UNIQUE NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`, `
CREATE TABLE IF NOT EXISTS time_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id INTEGER NOT NULL,
	duration_minutes INTEGER NOT NULL,
	description TEXT NOT NULL,
	entry_date DATE DEFAULT CURRENT_DATE,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (project_id) REFERENCES projects (id)
)`}

// Store is the SQLite-backed repository for projects and time entries.
type Store struct {
	db  *sql.DB
	now func() time.Time
	log *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for the default entry date.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := &Store{now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One long-lived connection; every operation below is a single statement.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		s.closeAfterFailure(db)
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		s.closeAfterFailure(db)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			s.closeAfterFailure(db)
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	s.db = db
	s.log.Debug("database opened", "path", path)
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) closeAfterFailure(db *sql.DB) {
	if err := db.Close(); err != nil {
		s.log.Error("error closing db", "error", err)
	}
}

// exec runs a single statement and returns the number of affected rows.
func (s *Store) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
