// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"context"
	"fmt"

	"github.com/investore/disclosure-engine/internal/httputil"
	"github.com/investore/disclosure-engine/pkg/types"
)

// Announcements feed JSON structures.
type announcementsResponse struct {
	Data announcementsData `json:"data"`
}

type announcementsData struct {
	Count int                `json:"count"`
	Items []announcementItem `json:"items"`
}

type announcementItem struct {
	DocumentKey      string `json:"documentKey"`
	Headline         string `json:"headline"`
	Date             string `json:"date"`
	URL              string `json:"url"`
	IsPriceSensitive bool   `json:"isPriceSensitive"`
	FileSizeBytes    int64  `json:"fileSizeBytes"`
}

// fetchAnnouncements retrieves the general announcements feed for a
// symbol and normalizes it into canonical documents. Items without a
// document key or with an unparseable date are dropped, not errors:
// malformed records are expected noise from the upstream feed.
func (f *Fetcher) fetchAnnouncements(ctx context.Context, symbol string) ([]types.Document, error) {
	url := fmt.Sprintf("%s/companies/%s/announcements?count=%d", f.cfg.BaseURL, symbol, f.pageLimit())

	var resp announcementsResponse
	if err := httputil.GetJSON(ctx, f.client, url, f.cfg.UserAgent, f.policy, &resp); err != nil {
		return nil, fmt.Errorf("announcements feed for %s: %w", symbol, err)
	}

	var docs []types.Document
	for _, item := range resp.Data.Items {
		if item.DocumentKey == "" {
			continue
		}
		published, ok := parseFeedDate(item.Date)
		if !ok {
			continue
		}
		docs = append(docs, types.Document{
			DocumentID:     item.DocumentKey,
			Symbol:         symbol,
			Title:          item.Headline,
			PublishedAt:    published,
			SourceURL:      f.fileURL(item.URL, item.DocumentKey),
			PriceSensitive: item.IsPriceSensitive,
			FileSize:       item.FileSizeBytes,
			Origin:         types.OriginAnnouncements,
		})
	}
	return docs, nil
}
