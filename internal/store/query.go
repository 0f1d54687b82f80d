// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/investore/disclosure-engine/pkg/types"
)

// DocumentFilter narrows a document query. Zero values mean "any".
type DocumentFilter struct {
	Symbol       string
	Type         types.DocumentType
	ValuableOnly bool
	Limit        uint64
}

// EstimateFilter narrows a resource estimate query. Zero values mean "any".
type EstimateFilter struct {
	Symbol    string
	Commodity string
	Category  types.ResourceCategory
	Limit     uint64
}

// Documents returns stored documents matching the filter, highest
// priority first.
func (s *Store) Documents(ctx context.Context, filter DocumentFilter) ([]types.Document, error) {
	q := sq.Select("document_id", "symbol", "title", "published_at", "source_url",
		"document_type", "priority", "is_valuable", "price_sensitive", "file_size", "origin").
		From("documents").
		OrderBy("priority DESC", "published_at DESC")

	if filter.Symbol != "" {
		q = q.Where(sq.Eq{"symbol": filter.Symbol})
	}
	if filter.Type != "" {
		q = q.Where(sq.Eq{"document_type": string(filter.Type)})
	}
	if filter.ValuableOnly {
		q = q.Where(sq.Eq{"is_valuable": 1})
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building document query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		var (
			doc            types.Document
			published      sql.NullString
			sourceURL      sql.NullString
			valuable       int
			priceSensitive int
			fileSize       sql.NullInt64
			origin         sql.NullString
		)
		if err := rows.Scan(&doc.DocumentID, &doc.Symbol, &doc.Title, &published,
			&sourceURL, &doc.Type, &doc.Priority, &valuable, &priceSensitive,
			&fileSize, &origin); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc.SourceURL = sourceURL.String
		doc.Valuable = valuable != 0
		doc.PriceSensitive = priceSensitive != 0
		doc.FileSize = fileSize.Int64
		doc.Origin = types.DocumentOrigin(origin.String)
		if published.Valid {
			if t, perr := time.Parse(time.RFC3339, published.String); perr == nil {
				doc.PublishedAt = t
			}
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Estimates returns stored resource estimates matching the filter,
// largest tonnage first.
func (s *Store) Estimates(ctx context.Context, filter EstimateFilter) ([]types.ResourceEstimate, error) {
	q := sq.Select("document_id", "seq", "symbol", "commodity", "category",
		"tonnage_mt", "grade", "grade_unit", "contained_metal", "contained_unit",
		"effective_date", "announcement_title").
		From("resource_estimates").
		OrderBy("tonnage_mt DESC")

	if filter.Symbol != "" {
		q = q.Where(sq.Eq{"symbol": filter.Symbol})
	}
	if filter.Commodity != "" {
		q = q.Where(sq.Eq{"commodity": filter.Commodity})
	}
	if filter.Category != "" {
		q = q.Where(sq.Eq{"category": string(filter.Category)})
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building estimate query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying estimates: %w", err)
	}
	defer rows.Close()

	var estimates []types.ResourceEstimate
	for rows.Next() {
		var (
			est           types.ResourceEstimate
			effectiveDate sql.NullString
			containedUnit sql.NullString
			title         sql.NullString
		)
		if err := rows.Scan(&est.DocumentID, &est.Seq, &est.Symbol, &est.Commodity,
			&est.Category, &est.TonnageMt, &est.Grade, &est.GradeUnit,
			&est.ContainedMetal, &containedUnit, &effectiveDate, &title); err != nil {
			return nil, fmt.Errorf("scanning estimate: %w", err)
		}
		est.ContainedUnit = containedUnit.String
		est.AnnouncementTitle = title.String
		if effectiveDate.Valid {
			if t, perr := time.Parse(time.RFC3339, effectiveDate.String); perr == nil {
				est.EffectiveDate = t
			}
		}
		estimates = append(estimates, est)
	}
	return estimates, rows.Err()
}
