package repository

import (
	"context"
	"fmt"
)

// migrations are applied in order and tracked in schema_migrations. The DDL
// below is restricted to the subset both SQLite and PostgreSQL accept.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL,
		is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
		api_key_hash TEXT NOT NULL,
		balance_cents BIGINT NOT NULL DEFAULT 0,
		free_conversions INTEGER NOT NULL DEFAULT 3,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		original_name TEXT NOT NULL,
		original_path TEXT NOT NULL,
		converted_path TEXT NOT NULL DEFAULT '',
		document_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		file_size BIGINT NOT NULL DEFAULT 0,
		page_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_user_created ON documents (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS conversion_pricing (
		operation_type TEXT PRIMARY KEY,
		pricing_type TEXT NOT NULL DEFAULT 'fixed',
		base_price_cents BIGINT NOT NULL DEFAULT 10,
		price_per_page_cents BIGINT NOT NULL DEFAULT 0,
		free_pages INTEGER NOT NULL DEFAULT 0,
		max_price_per_file_cents BIGINT NOT NULL DEFAULT 0,
		minimum_charge_cents BIGINT NOT NULL DEFAULT 10,
		is_free_operation BOOLEAN NOT NULL DEFAULT FALSE,
		free_limit INTEGER NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		document_id TEXT,
		transaction_type TEXT NOT NULL,
		operation_type TEXT,
		amount_cents BIGINT NOT NULL DEFAULT 0,
		payment_method TEXT NOT NULL,
		balance_before_cents BIGINT NOT NULL DEFAULT 0,
		balance_after_cents BIGINT NOT NULL DEFAULT 0,
		free_conversions_before INTEGER NOT NULL DEFAULT 0,
		free_conversions_after INTEGER NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT '',
		ip_address TEXT NOT NULL DEFAULT '',
		is_successful BOOLEAN NOT NULL DEFAULT TRUE,
		error_message TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_user_created ON transactions (user_id, created_at)`,
}

// Migrate applies all pending migrations. It is idempotent and safe to run on
// every container start.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	row := s.queryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		if _, err := s.exec(ctx, migrations[i]); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := s.exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (?, CURRENT_TIMESTAMP)`, i+1); err != nil {
			return fmt.Errorf("record migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Version returns the highest applied migration version.
func (s *Store) Version(ctx context.Context) (int, error) {
	var v int
	row := s.queryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}
