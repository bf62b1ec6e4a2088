// Package sqlite is the local relational store behind the tracker: schema,
// migrations, and repositories for transactions, accounts, budgets, and the
// category table the parser's catalog is loaded from.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the sqlite handle and exposes the repositories.
type Store struct {
	db *sql.DB
}

// Migrations returns the schema statements. Each string is a single SQL
// statement; all are idempotent.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL UNIQUE,
			type      TEXT NOT NULL,
			grp       TEXT NOT NULL DEFAULT '',
			keywords  TEXT NOT NULL DEFAULT '[]',
			position  INTEGER NOT NULL
		)`,

		// Amounts are stored as exact decimal strings, signed: negative for
		// expenses, positive for income. The parser boundary stays unsigned.
		`CREATE TABLE IF NOT EXISTS transactions (
			id          TEXT PRIMARY KEY,
			type        TEXT NOT NULL,
			category    TEXT NOT NULL,
			category_id TEXT NOT NULL DEFAULT '',
			merchant    TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			amount      TEXT NOT NULL,
			tx_date     TEXT NOT NULL,
			created_at  TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(tx_date)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_type_date ON transactions(type, tx_date)`,

		`CREATE TABLE IF NOT EXISTS accounts (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL UNIQUE,
			type     TEXT NOT NULL DEFAULT 'CURRENT',
			currency TEXT NOT NULL DEFAULT 'EUR',
			balance  TEXT NOT NULL DEFAULT '0'
		)`,

		`CREATE TABLE IF NOT EXISTS budgets (
			id       TEXT PRIMARY KEY,
			category TEXT NOT NULL UNIQUE,
			amount   TEXT NOT NULL
		)`,
	}
}

// Open opens (or creates) the database at path and applies migrations.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// Single writer; sqlite serializes anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	for _, stmt := range Migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: migration failed: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the underlying handle.
func (s *Store) Close() error {
	return s.db.Close()
}
