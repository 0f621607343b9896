// Package repository implements persistence on database/sql. The default
// backend is an embedded SQLite file; setting DATABASE_URL to a postgres://
// URL switches the same schema to PostgreSQL via the pgx stdlib driver.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL backend in use.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Store wraps the database handle together with its dialect so repositories
// can share one set of queries.
type Store struct {
	DB      *sql.DB
	dialect Dialect
}

// Open connects to the configured database. An empty databaseURL selects the
// embedded SQLite store at sqlitePath, creating parent directories as needed.
func Open(databaseURL, sqlitePath string) (*Store, error) {
	if databaseURL != "" {
		if !strings.HasPrefix(databaseURL, "postgres://") && !strings.HasPrefix(databaseURL, "postgresql://") {
			return nil, fmt.Errorf("unsupported DATABASE_URL scheme: %s", databaseURL)
		}
		db, err := sql.Open("pgx", databaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return &Store{DB: db, dialect: DialectPostgres}, nil
	}

	if dir := filepath.Dir(sqlitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", sqlitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The sqlite file is accessed from HTTP handlers and the worker pool.
	db.SetMaxOpenConns(1)
	return &Store{DB: db, dialect: DialectSQLite}, nil
}

// OpenMemory opens a throwaway in-memory SQLite store. Used by tests and the
// migrate dry-run.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &Store{DB: db, dialect: DialectSQLite}, nil
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Ping verifies the database connection. The readiness endpoint uses it.
func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Dialect returns the active SQL dialect.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// rebind rewrites `?` placeholders to `$n` for postgres. Queries in this
// package are written with `?` and literal question marks never appear in
// them.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return s.DB.ExecContext(ctx, s.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return s.DB.QueryRowContext(ctx, s.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return s.DB.QueryContext(ctx, s.rebind(query), args...)
}
