// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed retrieves disclosure metadata for a symbol from the
// upstream API. Two endpoint shapes — the general announcements feed
// and the dedicated reports feed — are merged into one deduplicated
// document set, classified, and ordered by priority descending so that
// downstream storage processes the highest-value documents first even
// if a run is interrupted.
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/investore/disclosure-engine/internal/classify"
	"github.com/investore/disclosure-engine/internal/httputil"
	"github.com/investore/disclosure-engine/pkg/types"
)

const defaultPageLimit = 100

// feedDateFormats are the publish-timestamp layouts the upstream is
// known to emit.
var feedDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02",
}

// Fetcher retrieves and normalizes disclosure documents for a symbol.
type Fetcher struct {
	client     *http.Client
	cfg        types.FeedConfig
	policy     httputil.RetryPolicy
	classifier *classify.Classifier
	log        *zap.Logger

	// now is injectable for lookback-window tests.
	now func() time.Time
}

// New builds a fetcher. A nil logger disables logging.
func New(cfg types.FeedConfig, classifier *classify.Classifier, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		client:     &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		policy:     httputil.NewRetryPolicy(cfg.Retry),
		classifier: classifier,
		log:        log,
		now:        time.Now,
	}
}

// Fetch returns the deduplicated, classified document set for a
// symbol, ordered by priority descending with ties kept in feed order.
// Failure of one endpoint does not abort the other; only when both
// endpoints fail does Fetch return an error.
func (f *Fetcher) Fetch(ctx context.Context, symbol string) ([]types.Document, error) {
	announcements, annErr := f.fetchAnnouncements(ctx, symbol)
	if annErr != nil {
		f.log.Debug("announcements feed failed", zap.String("symbol", symbol), zap.Error(annErr))
	}

	reports, repErr := f.fetchReports(ctx, symbol)
	if repErr != nil {
		f.log.Debug("reports feed failed", zap.String("symbol", symbol), zap.Error(repErr))
	}

	if annErr != nil && repErr != nil {
		return nil, fmt.Errorf("all feeds failed for %s: %w", symbol, errors.Join(annErr, repErr))
	}

	docs := merge(announcements, reports)
	docs = f.withinLookback(docs)

	for i := range docs {
		f.classifier.Annotate(&docs[i])
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Priority > docs[j].Priority
	})
	return docs, nil
}

// merge deduplicates documents by DocumentID across the two feeds. The
// announcements-feed record wins; a reports-feed duplicate only fills
// fields the announcement left empty.
func merge(announcements, reports []types.Document) []types.Document {
	seen := make(map[string]int, len(announcements))
	merged := make([]types.Document, 0, len(announcements)+len(reports))

	for _, doc := range announcements {
		seen[doc.DocumentID] = len(merged)
		merged = append(merged, doc)
	}
	for _, doc := range reports {
		if idx, ok := seen[doc.DocumentID]; ok {
			fillMissing(&merged[idx], doc)
			continue
		}
		seen[doc.DocumentID] = len(merged)
		merged = append(merged, doc)
	}
	return merged
}

// fillMissing copies fields from src that dst lacks.
func fillMissing(dst *types.Document, src types.Document) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.SourceURL == "" {
		dst.SourceURL = src.SourceURL
	}
	if dst.PublishedAt.IsZero() {
		dst.PublishedAt = src.PublishedAt
	}
	if dst.FileSize == 0 {
		dst.FileSize = src.FileSize
	}
}

// withinLookback drops documents published outside the configured
// window. A zero lookback keeps everything.
func (f *Fetcher) withinLookback(docs []types.Document) []types.Document {
	if f.cfg.Lookback <= 0 {
		return docs
	}
	cutoff := f.now().Add(-f.cfg.Lookback)

	kept := docs[:0]
	for _, doc := range docs {
		if doc.PublishedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, doc)
	}
	return kept
}

// parseFeedDate tries the known upstream layouts. Malformed timestamps
// are expected noise, so the failure is a drop signal, not an error.
func parseFeedDate(s string) (time.Time, bool) {
	for _, layout := range feedDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (f *Fetcher) pageLimit() int {
	if f.cfg.PageLimit > 0 {
		return f.cfg.PageLimit
	}
	return defaultPageLimit
}

// fileURL resolves the disclosure file location: the feed's own URL
// when present, otherwise the CDN path derived from the document key.
func (f *Fetcher) fileURL(feedURL, documentKey string) string {
	if feedURL != "" {
		return feedURL
	}
	return fmt.Sprintf("%s/file/%s", f.cfg.BaseURL, documentKey)
}
