// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/investore/disclosure-engine/pkg/types"
)

// HasDocument reports whether a document id is already stored.
func (s *Store) HasDocument(ctx context.Context, documentID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM documents WHERE document_id = ?`, documentID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking document %s: %w", documentID, err)
	}
	return n > 0, nil
}

// InsertDocument stores a document if its id is absent and reports
// whether a row was inserted. A document already present is never
// re-inserted or re-classified: if the upstream later republishes the
// same id with a different title, the first-seen row is kept and the
// new sighting counts as a duplicate.
func (s *Store) InsertDocument(ctx context.Context, doc types.Document) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO documents
			(document_id, symbol, title, published_at, source_url, document_type,
			 priority, is_valuable, price_sensitive, file_size, origin, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.DocumentID, doc.Symbol, doc.Title,
		doc.PublishedAt.UTC().Format(time.RFC3339), doc.SourceURL,
		string(doc.Type), doc.Priority, boolToInt(doc.Valuable),
		boolToInt(doc.PriceSensitive), doc.FileSize, string(doc.Origin),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("inserting document %s: %w", doc.DocumentID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting document %s: %w", doc.DocumentID, err)
	}
	return n > 0, nil
}

// InsertEstimate stores a resource estimate if its (document, seq) key
// is absent and reports whether a row was inserted. Estimates are
// immutable; re-extraction of a stored document is a no-op.
func (s *Store) InsertEstimate(ctx context.Context, est types.ResourceEstimate) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO resource_estimates
			(document_id, seq, symbol, commodity, category, tonnage_mt, grade,
			 grade_unit, contained_metal, contained_unit, effective_date, announcement_title)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		est.DocumentID, est.Seq, est.Symbol, est.Commodity, string(est.Category),
		est.TonnageMt, est.Grade, est.GradeUnit, est.ContainedMetal,
		est.ContainedUnit, est.EffectiveDate.UTC().Format(time.RFC3339),
		est.AnnouncementTitle,
	)
	if err != nil {
		return false, fmt.Errorf("inserting estimate %s/%d: %w", est.DocumentID, est.Seq, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting estimate %s/%d: %w", est.DocumentID, est.Seq, err)
	}
	return n > 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
