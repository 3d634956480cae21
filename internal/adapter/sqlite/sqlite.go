// Package sqlite implements the domain ports on an embedded SQLite
// database.
//
// One *sql.DB backs every repository. SQLite serializes writers itself,
// so callers get a single-writer discipline at the storage layer without
// holding any in-process lock across the I/O boundary.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB wraps the shared database handle the repositories are built on.
type DB struct {
	sql *sql.DB
}

// Open opens (or creates) the database at path, applies pragmas and runs
// all pending migrations. Migrations are ordered, reversible and each one
// applies atomically.
func Open(ctx context.Context, path string) (*DB, error) {
	s, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	// journal_mode is refused by some targets (e.g. in-memory); ignore.
	_, _ = s.ExecContext(ctx, "PRAGMA journal_mode=WAL;")
	for _, pragma := range []string{"PRAGMA busy_timeout=5000;", "PRAGMA foreign_keys=ON;"} {
		if _, err := s.ExecContext(ctx, pragma); err != nil {
			_ = s.Close()
			return nil, err
		}
	}

	if err := migrate(ctx, s); err != nil {
		_ = s.Close()
		return nil, err
	}
	return &DB{sql: s}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}
