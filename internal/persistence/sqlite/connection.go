// Package sqlite implements the persistence repositories on a SQLite
// database using the pure-Go modernc.org driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/k-j-hyun/shdocs/internal/persistence"
	_ "modernc.org/sqlite"
)

// Storage owns the database handle and implements every repository
// interface declared in the persistence package.
type Storage struct {
	db *sql.DB
}

var (
	_ persistence.SheetRepository = (*Storage)(nil)
	_ persistence.EventRepository = (*Storage)(nil)
	_ persistence.TokenRepository = (*Storage)(nil)
)

// Open connects to the SQLite database named by dsn.
func Open(dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", dsn, err)
	}
	// The driver serializes writes; a single connection avoids spurious
	// SQLITE_BUSY under concurrent refresh and request traffic.
	db.SetMaxOpenConns(1)
	return &Storage{db: db}, nil
}

// Close releases the database handle.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate creates the schema when it does not exist yet.
func (s *Storage) Migrate(ctx context.Context) error {
	statements := []string{
		`PRAGMA foreign_keys = ON`,
		`CREATE TABLE IF NOT EXISTS sheets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			url TEXT NOT NULL,
			color TEXT NOT NULL,
			spreadsheet_id TEXT NOT NULL,
			gid TEXT NOT NULL,
			row_count INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			sheet_id TEXT NOT NULL REFERENCES sheets(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			name TEXT NOT NULL,
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			sheet_name TEXT NOT NULL,
			color TEXT NOT NULL,
			hospital TEXT,
			phone TEXT,
			details TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_date ON events(date)`,
		`CREATE INDEX IF NOT EXISTS idx_events_sheet_id ON events(sheet_id)`,
		`CREATE TABLE IF NOT EXISTS tokens (
			account TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}
	return nil
}

// withTransaction runs fn inside a transaction, rolling back on error.
func (s *Storage) withTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("sqlite: transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit transaction: %w", err)
	}
	return nil
}

// mapError translates driver errors into persistence sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return persistence.ErrNotFound
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return persistence.ErrDuplicate
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return persistence.ErrForeignKeyViolation
	case strings.Contains(msg, "CHECK constraint failed"):
		return persistence.ErrConstraintViolation
	}
	return err
}
