// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/investore/disclosure-engine/pkg/types"
)

// UpsertCompany inserts a company or refreshes its mutable fields.
// Name, website, sector and score legitimately change over time, so
// this is insert-or-update rather than insert-if-absent; the upsert
// always reactivates the row.
func (s *Store) UpsertCompany(ctx context.Context, c types.Company) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO companies (symbol, exchange, name, website, sector, mining_score, is_active, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, 1, ?)
		 ON CONFLICT(symbol, exchange) DO UPDATE SET
			name=excluded.name, website=excluded.website, sector=excluded.sector,
			mining_score=excluded.mining_score, is_active=1, updated_at=excluded.updated_at`,
		c.Symbol, c.Exchange, c.Name, c.Website, c.Sector, c.MiningScore,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting company %s: %w", c.Symbol, err)
	}
	return nil
}

// ListActiveSymbols returns the symbols currently marked active on an
// exchange.
func (s *Store) ListActiveSymbols(ctx context.Context, exchange string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol FROM companies WHERE exchange = ? AND is_active = 1`, exchange)
	if err != nil {
		return nil, fmt.Errorf("listing active symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scanning symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// ListTargets returns active (symbol, name) pairs on an exchange with
// at least the given mining score, for the universe provider.
func (s *Store) ListTargets(ctx context.Context, exchange string, minScore int) ([]types.Target, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol, name FROM companies
		 WHERE exchange = ? AND is_active = 1 AND mining_score >= ?
		 ORDER BY symbol`, exchange, minScore)
	if err != nil {
		return nil, fmt.Errorf("listing targets: %w", err)
	}
	defer rows.Close()

	var targets []types.Target
	for rows.Next() {
		var t types.Target
		if err := rows.Scan(&t.Symbol, &t.Name); err != nil {
			return nil, fmt.Errorf("scanning target: %w", err)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// Deactivate flips the given symbols to inactive. Companies are never
// hard-deleted. Returns how many rows changed.
func (s *Store) Deactivate(ctx context.Context, exchange string, symbols []string) (int64, error) {
	if len(symbols) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(symbols)), ",")
	args := make([]any, 0, len(symbols)+2)
	args = append(args, time.Now().UTC().Format(time.RFC3339), exchange)
	for _, sym := range symbols {
		args = append(args, sym)
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE companies SET is_active = 0, updated_at = ?
			 WHERE exchange = ? AND symbol IN (%s)`, placeholders),
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("deactivating companies: %w", err)
	}
	return res.RowsAffected()
}

// GetOrCreateSource resolves a source registry entry by name, creating
// it in active state on first sight, and returns its id.
func (s *Store) GetOrCreateSource(ctx context.Context, name, sourceType, url string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM sources WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("looking up source %s: %w", name, err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sources (name, type, url, status) VALUES (?, ?, ?, ?)`,
		name, sourceType, url, string(types.SourceActive))
	if err != nil {
		return 0, fmt.Errorf("creating source %s: %w", name, err)
	}
	return res.LastInsertId()
}

// UpdateSourceStatus records the outcome of a run against a source:
// success resets the error counter, failure increments it and keeps
// the last error message for the next run to observe.
func (s *Store) UpdateSourceStatus(ctx context.Context, id int64, success bool, errMsg string) error {
	var err error
	if success {
		_, err = s.db.ExecContext(ctx,
			`UPDATE sources SET status = ?, last_success = ?, error_count = 0, last_error = NULL
			 WHERE id = ?`,
			string(types.SourceActive), time.Now().UTC().Format(time.RFC3339), id)
	} else {
		_, err = s.db.ExecContext(ctx,
			`UPDATE sources SET status = ?, last_error = ?, error_count = error_count + 1
			 WHERE id = ?`,
			string(types.SourceError), errMsg, id)
	}
	if err != nil {
		return fmt.Errorf("updating source status: %w", err)
	}
	return nil
}

// GetSource reads one source registry entry by id.
func (s *Store) GetSource(ctx context.Context, id int64) (types.Source, error) {
	var (
		src         types.Source
		lastSuccess sql.NullString
		lastError   sql.NullString
		url         sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, type, url, status, last_success, last_error, error_count
		 FROM sources WHERE id = ?`, id).
		Scan(&src.ID, &src.Name, &src.Type, &url, &src.Status, &lastSuccess, &lastError, &src.ErrorCount)
	if err != nil {
		return types.Source{}, fmt.Errorf("reading source %d: %w", id, err)
	}
	src.URL = url.String
	src.LastError = lastError.String
	if lastSuccess.Valid {
		if t, perr := time.Parse(time.RFC3339, lastSuccess.String); perr == nil {
			src.LastSuccess = t
		}
	}
	return src, nil
}
