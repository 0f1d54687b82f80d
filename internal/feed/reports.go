// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"context"
	"fmt"

	"github.com/investore/disclosure-engine/internal/httputil"
	"github.com/investore/disclosure-engine/pkg/types"
)

// Reports feed JSON structures. The dedicated reports endpoint uses a
// different record shape from the announcements feed; both are
// normalized into the canonical Document here at the fetcher boundary,
// never downstream.
type reportsResponse struct {
	Data reportsData `json:"data"`
}

type reportsData struct {
	Count int          `json:"count"`
	Items []reportItem `json:"items"`
}

type reportItem struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	ReleaseDate    string `json:"releaseDate"`
	DocumentURL    string `json:"documentUrl"`
	PriceSensitive bool   `json:"priceSensitive"`
	SizeBytes      int64  `json:"sizeBytes"`
}

// fetchReports retrieves the dedicated reports feed for a symbol.
// Normalization mirrors fetchAnnouncements: missing identifiers and
// unparseable dates drop the item silently.
func (f *Fetcher) fetchReports(ctx context.Context, symbol string) ([]types.Document, error) {
	url := fmt.Sprintf("%s/companies/%s/reports?count=%d", f.cfg.BaseURL, symbol, f.pageLimit())

	var resp reportsResponse
	if err := httputil.GetJSON(ctx, f.client, url, f.cfg.UserAgent, f.policy, &resp); err != nil {
		return nil, fmt.Errorf("reports feed for %s: %w", symbol, err)
	}

	var docs []types.Document
	for _, item := range resp.Data.Items {
		if item.ID == "" {
			continue
		}
		published, ok := parseFeedDate(item.ReleaseDate)
		if !ok {
			continue
		}
		docs = append(docs, types.Document{
			DocumentID:     item.ID,
			Symbol:         symbol,
			Title:          item.Title,
			PublishedAt:    published,
			SourceURL:      f.fileURL(item.DocumentURL, item.ID),
			PriceSensitive: item.PriceSensitive,
			FileSize:       item.SizeBytes,
			Origin:         types.OriginReports,
		})
	}
	return docs, nil
}
