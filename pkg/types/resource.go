// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ResourceCategory is a JORC-style confidence tier for a mineral
// resource or reserve estimate.
type ResourceCategory string

const (
	CategoryMeasured  ResourceCategory = "measured"
	CategoryIndicated ResourceCategory = "indicated"
	CategoryInferred  ResourceCategory = "inferred"
	CategoryProven    ResourceCategory = "proven"
	CategoryProbable  ResourceCategory = "probable"

	// CategoryUnspecified marks estimates matched by the uncategorized
	// pattern, where the title states tonnage and grade without a tier.
	CategoryUnspecified ResourceCategory = "unspecified"
)

// Grade units recognized by the extractor.
const (
	GradeGramsPerTonne = "g/t"
	GradePercent       = "%"
	GradePPM           = "ppm"
)

// Contained-metal units.
const (
	ContainedMoz = "Moz" // millions of troy ounces, precious metals
	ContainedKt  = "kt"  // thousand tonnes, bulk metals
)

// ResourceEstimate is one quantitative fact extracted from a document
// title. ContainedMetal is always derived from tonnage, grade and grade
// unit; it is never independently supplied. Estimates are immutable
// once created and keyed on (DocumentID, Seq) so that re-extraction of
// the same document is idempotent.
type ResourceEstimate struct {
	// DocumentID plus Seq identify the estimate. Seq is the ordinal of
	// the pattern match within the title (0-based).
	DocumentID string `json:"document_id" yaml:"document_id"`
	Seq        int    `json:"seq" yaml:"seq"`

	Symbol    string           `json:"symbol" yaml:"symbol"`
	Commodity string           `json:"commodity" yaml:"commodity"`
	Category  ResourceCategory `json:"category" yaml:"category"`

	// TonnageMt is the ore tonnage in millions of tonnes.
	TonnageMt float64 `json:"tonnage_mt" yaml:"tonnage_mt"`

	// Grade with its unit (g/t, % or ppm).
	Grade     float64 `json:"grade" yaml:"grade"`
	GradeUnit string  `json:"grade_unit" yaml:"grade_unit"`

	// ContainedMetal with its unit. Zero with an empty unit means the
	// grade unit does not support derivation, not an error.
	ContainedMetal float64 `json:"contained_metal" yaml:"contained_metal"`
	ContainedUnit  string  `json:"contained_unit" yaml:"contained_unit"`

	// EffectiveDate is the publish date of the source document.
	EffectiveDate time.Time `json:"effective_date" yaml:"effective_date"`

	// AnnouncementTitle is the provenance title the estimate was
	// extracted from.
	AnnouncementTitle string `json:"announcement_title" yaml:"announcement_title"`
}
