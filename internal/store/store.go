// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists companies, documents, resource estimates and
// source-health records in SQLite. The write side is deliberately
// narrow — key lookups, single-row upserts and insert-if-absent — so
// that re-running the pipeline over the same window produces no
// additional side effects. No multi-statement transaction spans more
// than one entity.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/investore/disclosure-engine/pkg/types"
)

const defaultDBPath = "data/disclosures.db"

// Store manages the disclosure SQLite database.
type Store struct {
	db *sql.DB
}

// New opens or creates the database at cfg.Path and creates the schema
// if it does not exist.
func New(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultDBPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS companies (
			symbol TEXT NOT NULL,
			exchange TEXT NOT NULL,
			name TEXT NOT NULL,
			website TEXT,
			sector TEXT,
			mining_score INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 1,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (symbol, exchange)
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			document_id TEXT PRIMARY KEY,
			symbol TEXT NOT NULL,
			title TEXT NOT NULL,
			published_at TEXT,
			source_url TEXT,
			document_type TEXT NOT NULL,
			priority INTEGER NOT NULL,
			is_valuable INTEGER NOT NULL,
			price_sensitive INTEGER NOT NULL DEFAULT 0,
			file_size INTEGER,
			origin TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_symbol ON documents(symbol)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_type ON documents(document_type)`,
		`CREATE TABLE IF NOT EXISTS resource_estimates (
			document_id TEXT NOT NULL REFERENCES documents(document_id),
			seq INTEGER NOT NULL,
			symbol TEXT NOT NULL,
			commodity TEXT NOT NULL,
			category TEXT NOT NULL,
			tonnage_mt REAL NOT NULL,
			grade REAL NOT NULL,
			grade_unit TEXT NOT NULL,
			contained_metal REAL NOT NULL,
			contained_unit TEXT,
			effective_date TEXT,
			announcement_title TEXT,
			PRIMARY KEY (document_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_estimates_symbol ON resource_estimates(symbol)`,
		`CREATE INDEX IF NOT EXISTS idx_estimates_commodity ON resource_estimates(commodity)`,
		`CREATE TABLE IF NOT EXISTS sources (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			type TEXT NOT NULL,
			url TEXT,
			status TEXT NOT NULL,
			last_success TEXT,
			last_error TEXT,
			error_count INTEGER NOT NULL DEFAULT 0
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}
