// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DocumentType classifies a disclosure by what its title announces.
type DocumentType string

const (
	DocResourceReport   DocumentType = "resource_report"
	DocFeasibilityStudy DocumentType = "feasibility_study"
	DocDrillingResults  DocumentType = "drilling_results"
	DocQuarterlyReport  DocumentType = "quarterly_report"
	DocAnnualReport     DocumentType = "annual_report"
	DocPresentation     DocumentType = "presentation"
	DocProjectUpdate    DocumentType = "project_update"
	DocMiningRelated    DocumentType = "mining_related"
	DocOther            DocumentType = "other"
)

// DocumentOrigin identifies which upstream endpoint produced a record.
// Used only to resolve duplicates when the same disclosure appears in
// both feeds.
type DocumentOrigin string

const (
	OriginAnnouncements DocumentOrigin = "announcements"
	OriginReports       DocumentOrigin = "reports"
)

// Document is one disclosure. DocumentID is the sole deduplication key:
// a document already present in the store is never re-inserted or
// re-classified.
type Document struct {
	// DocumentID is the externally assigned identifier, globally unique
	// per disclosure.
	DocumentID string `json:"document_id" yaml:"document_id"`

	// Symbol is the ticker the disclosure belongs to.
	Symbol string `json:"symbol" yaml:"symbol"`

	// Title is the announcement headline as published.
	Title string `json:"title" yaml:"title"`

	// PublishedAt is the upstream publish timestamp.
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`

	// SourceURL points at the disclosure file upstream.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// Type and Priority are assigned by the classifier. Higher priority
	// means more valuable; storage processes high priority first.
	Type     DocumentType `json:"document_type" yaml:"document_type"`
	Priority int          `json:"priority" yaml:"priority"`

	// Valuable is the keep/discard gate. Documents failing the gate are
	// not stored.
	Valuable bool `json:"is_valuable" yaml:"is_valuable"`

	// PriceSensitive carries the upstream price-sensitivity flag.
	PriceSensitive bool `json:"price_sensitive,omitempty" yaml:"price_sensitive,omitempty"`

	// FileSize is the upstream file-size hint in bytes, when provided.
	FileSize int64 `json:"file_size,omitempty" yaml:"file_size,omitempty"`

	// Origin records which feed the record came from.
	Origin DocumentOrigin `json:"origin" yaml:"origin"`
}
