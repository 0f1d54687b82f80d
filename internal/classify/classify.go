// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns disclosure documents a type, a priority and
// a keep/discard decision based on their titles. Classification is a
// total, pure function: every title maps to exactly one (type,
// priority) pair, and re-classifying the same title always yields the
// same answer.
package classify

import (
	"strings"

	"github.com/investore/disclosure-engine/pkg/types"
)

// TypeRule maps a keyword set to a document type. Rules are evaluated
// in order; the first rule with any keyword present in the lowercased
// title wins.
type TypeRule struct {
	Type     types.DocumentType
	Keywords []string
}

// defaultTypeRules is the ordered rule table, most valuable first.
var defaultTypeRules = []TypeRule{
	{types.DocResourceReport, []string{
		"mineral resource", "ore reserve", "resource estimate",
		"maiden resource", "resource upgrade", "resource update",
		"reserve estimate", "jorc",
	}},
	{types.DocFeasibilityStudy, []string{
		"feasibility study", "scoping study", "dfs", "pfs",
	}},
	{types.DocDrillingResults, []string{
		"drilling results", "drill results", "drilling update",
		"assay results", "drill intersect", "drilling intersect",
	}},
	{types.DocQuarterlyReport, []string{
		"quarterly report", "quarterly activities", "quarterly cashflow",
		"appendix 5b",
	}},
	{types.DocAnnualReport, []string{
		"annual report", "full year results", "preliminary final report",
	}},
	{types.DocPresentation, []string{
		"investor presentation", "presentation", "roadshow",
	}},
	{types.DocProjectUpdate, []string{
		"project update", "exploration update", "operations update",
		"development update",
	}},
}

// defaultPriorities assigns a fixed priority per type, higher = more
// valuable.
var defaultPriorities = map[types.DocumentType]int{
	types.DocResourceReport:   100,
	types.DocFeasibilityStudy: 90,
	types.DocDrillingResults:  80,
	types.DocQuarterlyReport:  70,
	types.DocAnnualReport:     60,
	types.DocPresentation:     50,
	types.DocProjectUpdate:    40,
	types.DocMiningRelated:    30,
	types.DocOther:            10,
}

// defaultHighValue is the broad vocabulary marking a title as worth
// keeping. A title matching none of the type rules but containing one
// of these is classified as generically mining-related.
var defaultHighValue = []string{
	"resource", "reserve", "jorc", "mineral resource", "ore reserve",
	"measured", "indicated", "inferred", "proven", "probable",
	"resource estimate", "maiden resource", "resource upgrade",
	"resource update", "tonnage", "contained metal", "drilling",
	"exploration", "feasibility", "grade", "mineralisation",
	"metallurgical", "ore",
}

// defaultExclusions is the administrative/legal vocabulary that forces
// a document out of the store even when a high-value keyword also
// matched. Exclusion wins over inclusion.
var defaultExclusions = []string{
	"change of director", "director's interest", "directors interest",
	"appendix 3y", "appendix 3x", "appendix 2a", "appendix 3b",
	"becoming a substantial holder", "ceasing to be a substantial holder",
	"change in substantial holding", "substantial holder notice",
	"notice of meeting", "notice of annual general meeting",
	"results of meeting", "proxy form", "constitution",
	"cleansing notice", "application for quotation",
	"change of company secretary", "change of registered office",
}

// Classifier holds the immutable keyword tables, loaded once at
// construction rather than recomputed per call.
type Classifier struct {
	rules      []TypeRule
	priorities map[types.DocumentType]int
	highValue  []string
	exclusions []string
}

// Option overrides one of the default tables.
type Option func(*Classifier)

// WithTypeRules replaces the ordered type rule table.
func WithTypeRules(rules []TypeRule) Option {
	return func(c *Classifier) { c.rules = rules }
}

// WithExclusions replaces the exclusion vocabulary.
func WithExclusions(words []string) Option {
	return func(c *Classifier) { c.exclusions = words }
}

// WithHighValue replaces the high-value vocabulary.
func WithHighValue(words []string) Option {
	return func(c *Classifier) { c.highValue = words }
}

// New builds a classifier from the default tables and any overrides.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		rules:      defaultTypeRules,
		priorities: defaultPriorities,
		highValue:  defaultHighValue,
		exclusions: defaultExclusions,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the document type and priority for a title. The
// first matching rule wins; a title matching no rule but containing a
// high-value keyword is generically mining-related; everything else is
// "other" at the lowest priority.
func (c *Classifier) Classify(title string) (types.DocumentType, int) {
	t := strings.ToLower(title)

	for _, rule := range c.rules {
		if containsAny(t, rule.Keywords) {
			return rule.Type, c.priorities[rule.Type]
		}
	}
	if containsAny(t, c.highValue) {
		return types.DocMiningRelated, c.priorities[types.DocMiningRelated]
	}
	return types.DocOther, c.priorities[types.DocOther]
}

// Valuable reports whether a document is worth storing. Exclusion
// keywords take precedence over high-value keywords; a title matching
// neither vocabulary defaults to valuable, because discarding a
// resource-bearing disclosure costs more than storing a dull one.
func (c *Classifier) Valuable(title string) bool {
	t := strings.ToLower(title)

	if containsAny(t, c.exclusions) {
		return false
	}
	// High-value matches and unmatched titles are both kept: the gate
	// is biased toward inclusion.
	return true
}

// Annotate applies both decisions to a document in place.
func (c *Classifier) Annotate(doc *types.Document) {
	doc.Type, doc.Priority = c.Classify(doc.Title)
	doc.Valuable = c.Valuable(doc.Title)
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
