// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract parses structured resource estimates out of
// disclosure titles. Extraction is best-effort pattern matching over
// the headline text, not a parser for every disclosure format: a title
// that matches nothing yields an empty result, and a malformed number
// inside one match skips that match without aborting the rest.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/investore/disclosure-engine/pkg/types"
)

// Pattern rules, tried in order. The categorized pattern is the
// load-bearing one: it is the only rule that captures the JORC
// category explicitly.
var (
	// e.g. "Indicated 12.5Mt at 2.3g/t" / "inferred resource of 4 mt @ 1.1 %"
	categorizedPattern = regexp.MustCompile(
		`(?i)(measured|indicated|inferred|proven|probable)[:\s]+(?:resource\s+(?:of\s+)?)?(\d+\.?\d*)\s*(?:mt|million\s*tonnes?)\s*(?:@|at)\s*(\d+\.?\d*)\s*(g/t|%|ppm)`)

	// e.g. "Maiden resource: 30Mt @ 1.5g/t Au" — no category stated.
	unCategorizedPattern = regexp.MustCompile(
		`(?i)(\d+\.?\d*)\s*(?:mt|million\s*tonnes?)\s*(?:@|at)\s*(\d+\.?\d*)\s*(g/t|%|ppm)`)

	// e.g. "1.2Moz of gold" — contained metal stated directly.
	containedPattern = regexp.MustCompile(
		`(?i)(\d+\.?\d*)\s*(moz|koz|kt)\s*(?:of\s+)?(au|ag|cu|gold|silver|copper)`)
)

// commodityMap resolves commodity keywords in a title to chemical
// symbol codes. First hit wins.
var commodityMap = []struct {
	keyword string
	code    string
}{
	{"gold", "Au"},
	{"silver", "Ag"},
	{"copper", "Cu"},
	{"zinc", "Zn"},
	{"nickel", "Ni"},
	{"li2o", "Li2O"},
	{"lithium", "Li"},
	{"iron", "Fe"},
	{"uranium", "U3O8"},
	{"rare earth", "REO"},
	{"cobalt", "Co"},
}

// defaultCommodity is used when no commodity keyword appears in the
// title. The overwhelming majority of unclassified resource titles in
// this domain are gold-denominated, so the default is an explicit Au
// rather than a null.
const defaultCommodity = "Au"

// troyOuncesPerGram converts grams to troy ounces (31.1035 g/oz).
const troyOuncesPerGram = 31.1035

// Extractor turns document titles into resource estimates.
type Extractor struct {
	// WithUncategorized enables the lower-priority pattern for titles
	// that state tonnage and grade without a JORC category.
	WithUncategorized bool
}

// New returns an extractor with the uncategorized pattern enabled.
func New() *Extractor {
	return &Extractor{WithUncategorized: true}
}

// Extract returns every resource estimate found in the document title,
// in match order. Seq numbers the matches so that re-extraction of the
// same document produces the same keys.
func (e *Extractor) Extract(doc types.Document) []types.ResourceEstimate {
	var estimates []types.ResourceEstimate

	commodity := DetectCommodity(doc.Title)

	matched := false
	for _, m := range categorizedPattern.FindAllStringSubmatch(doc.Title, -1) {
		est, ok := buildEstimate(doc, commodity, types.ResourceCategory(strings.ToLower(m[1])), m[2], m[3], m[4])
		if !ok {
			continue
		}
		matched = true
		est.Seq = len(estimates)
		estimates = append(estimates, est)
	}

	// The uncategorized pattern also matches every categorized phrase,
	// so it only applies when the categorized rule found nothing.
	if !matched && e.WithUncategorized {
		for _, m := range unCategorizedPattern.FindAllStringSubmatch(doc.Title, -1) {
			est, ok := buildEstimate(doc, commodity, types.CategoryUnspecified, m[1], m[2], m[3])
			if !ok {
				continue
			}
			est.Seq = len(estimates)
			estimates = append(estimates, est)
		}
	}

	return estimates
}

// buildEstimate assembles one estimate from captured substrings. A
// numeric failure on either capture skips the match (ok=false).
func buildEstimate(doc types.Document, commodity string, category types.ResourceCategory, tonnageStr, gradeStr, gradeUnit string) (types.ResourceEstimate, bool) {
	tonnage, err := strconv.ParseFloat(tonnageStr, 64)
	if err != nil {
		return types.ResourceEstimate{}, false
	}
	grade, err := strconv.ParseFloat(gradeStr, 64)
	if err != nil {
		return types.ResourceEstimate{}, false
	}

	gradeUnit = strings.ToLower(gradeUnit)
	contained, containedUnit := ContainedMetal(tonnage, grade, gradeUnit)

	return types.ResourceEstimate{
		DocumentID:        doc.DocumentID,
		Symbol:            doc.Symbol,
		Commodity:         commodity,
		Category:          category,
		TonnageMt:         tonnage,
		Grade:             grade,
		GradeUnit:         gradeUnit,
		ContainedMetal:    contained,
		ContainedUnit:     containedUnit,
		EffectiveDate:     doc.PublishedAt,
		AnnouncementTitle: doc.Title,
	}, true
}

// abbrevMap resolves the short commodity forms captured by the
// contained-metal pattern.
var abbrevMap = map[string]string{
	"au": "Au", "gold": "Au",
	"ag": "Ag", "silver": "Ag",
	"cu": "Cu", "copper": "Cu",
}

// DetectCommodity scans a title for commodity keywords and returns the
// first hit. A contained-metal phrase ("1.2Moz Au") resolves the
// abbreviation when no full keyword appears. Otherwise the gold
// default applies.
func DetectCommodity(title string) string {
	t := strings.ToLower(title)
	for _, c := range commodityMap {
		if strings.Contains(t, c.keyword) {
			return c.code
		}
	}
	if m := containedPattern.FindStringSubmatch(title); m != nil {
		if code, ok := abbrevMap[strings.ToLower(m[3])]; ok {
			return code
		}
	}
	return defaultCommodity
}

// ContainedMetal derives contained metal from tonnage and grade.
// Grams-per-tonne grades yield millions of troy ounces; percentage
// grades yield thousand tonnes; any other unit yields zero with an
// empty unit, explicitly flagging "not computed".
func ContainedMetal(tonnageMt, grade float64, gradeUnit string) (float64, string) {
	switch strings.ToLower(gradeUnit) {
	case types.GradeGramsPerTonne, "gpt":
		return tonnageMt * grade / troyOuncesPerGram, types.ContainedMoz
	case types.GradePercent:
		return tonnageMt * grade * 10, types.ContainedKt
	default:
		return 0, ""
	}
}
