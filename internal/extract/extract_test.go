// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"math"
	"testing"

	"github.com/investore/disclosure-engine/pkg/types"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-3
}

func TestExtractCategorized(t *testing.T) {
	e := New()

	doc := types.Document{
		DocumentID: "doc-1",
		Symbol:     "NST",
		Title:      "Indicated Resource of 10Mt @ 2.5g/t Gold at Pogo",
	}

	estimates := e.Extract(doc)
	if len(estimates) != 1 {
		t.Fatalf("got %d estimates, want 1", len(estimates))
	}

	est := estimates[0]
	if est.Category != types.CategoryIndicated {
		t.Errorf("Category = %q, want %q", est.Category, types.CategoryIndicated)
	}
	if est.TonnageMt != 10 {
		t.Errorf("TonnageMt = %v, want 10", est.TonnageMt)
	}
	if est.Grade != 2.5 {
		t.Errorf("Grade = %v, want 2.5", est.Grade)
	}
	if est.GradeUnit != types.GradeGramsPerTonne {
		t.Errorf("GradeUnit = %q, want %q", est.GradeUnit, types.GradeGramsPerTonne)
	}
	if est.Commodity != "Au" {
		t.Errorf("Commodity = %q, want Au", est.Commodity)
	}
	if !almostEqual(est.ContainedMetal, 0.804) {
		t.Errorf("ContainedMetal = %v, want ~0.804", est.ContainedMetal)
	}
	if est.ContainedUnit != types.ContainedMoz {
		t.Errorf("ContainedUnit = %q, want %q", est.ContainedUnit, types.ContainedMoz)
	}
	if est.DocumentID != "doc-1" || est.Symbol != "NST" {
		t.Errorf("provenance not carried: %q %q", est.DocumentID, est.Symbol)
	}
}

func TestExtractPercentGrade(t *testing.T) {
	e := New()

	doc := types.Document{
		DocumentID: "doc-2",
		Title:      "Measured Resource 5Mt @ 1.2% Copper",
	}

	estimates := e.Extract(doc)
	if len(estimates) != 1 {
		t.Fatalf("got %d estimates, want 1", len(estimates))
	}

	est := estimates[0]
	if est.Commodity != "Cu" {
		t.Errorf("Commodity = %q, want Cu", est.Commodity)
	}
	if !almostEqual(est.ContainedMetal, 60) {
		t.Errorf("ContainedMetal = %v, want 60", est.ContainedMetal)
	}
	if est.ContainedUnit != types.ContainedKt {
		t.Errorf("ContainedUnit = %q, want %q", est.ContainedUnit, types.ContainedKt)
	}
}

func TestExtractUncategorized(t *testing.T) {
	e := New()

	doc := types.Document{
		DocumentID: "doc-3",
		Title:      "Maiden Resource: 30Mt @ 1.5g/t Au",
	}

	estimates := e.Extract(doc)
	if len(estimates) != 1 {
		t.Fatalf("got %d estimates, want 1", len(estimates))
	}
	if estimates[0].Category != types.CategoryUnspecified {
		t.Errorf("Category = %q, want %q", estimates[0].Category, types.CategoryUnspecified)
	}
}

// A title with explicit categories must not also produce uncategorized
// duplicates from the looser pattern.
func TestExtractNoDoubleMatch(t *testing.T) {
	e := New()

	doc := types.Document{
		DocumentID: "doc-4",
		Title:      "Resource Update: Indicated 12Mt @ 2.1g/t and Inferred 8Mt @ 1.8g/t",
	}

	estimates := e.Extract(doc)
	if len(estimates) != 2 {
		t.Fatalf("got %d estimates, want 2", len(estimates))
	}
	if estimates[0].Category != types.CategoryIndicated {
		t.Errorf("estimates[0].Category = %q, want %q", estimates[0].Category, types.CategoryIndicated)
	}
	if estimates[1].Category != types.CategoryInferred {
		t.Errorf("estimates[1].Category = %q, want %q", estimates[1].Category, types.CategoryInferred)
	}
	if estimates[0].Seq != 0 || estimates[1].Seq != 1 {
		t.Errorf("Seq = %d, %d; want 0, 1", estimates[0].Seq, estimates[1].Seq)
	}
}

func TestExtractUncategorizedDisabled(t *testing.T) {
	e := &Extractor{WithUncategorized: false}

	doc := types.Document{Title: "Maiden Resource: 30Mt @ 1.5g/t Au"}
	if estimates := e.Extract(doc); len(estimates) != 0 {
		t.Fatalf("got %d estimates with uncategorized disabled, want 0", len(estimates))
	}
}

func TestExtractNoMatch(t *testing.T) {
	e := New()

	for _, title := range []string{
		"Quarterly Activities Report",
		"Change of Director's Interest Notice",
		"",
	} {
		doc := types.Document{Title: title}
		if estimates := e.Extract(doc); len(estimates) != 0 {
			t.Errorf("Extract(%q) = %d estimates, want 0", title, len(estimates))
		}
	}
}

func TestDetectCommodity(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Maiden Gold Resource at Bellevue", "Au"},
		{"Silver Resource Upgrade", "Ag"},
		{"Copper-Zinc Discovery", "Cu"},
		{"Nickel Sulphide Intersections", "Ni"},
		{"High Grade Li2O Assays", "Li2O"},
		{"Lithium Resource Expansion", "Li"},
		{"Iron Ore Reserve Statement", "Fe"},
		{"Uranium Project Update", "U3O8"},
		{"Rare Earth Resource Defined", "REO"},
		{"Cobalt Resource Estimate", "Co"},
		{"Resource contains 1.2Moz Au", "Au"},
		{"Contained 450kt of Cu", "Cu"},
		{"Resource Update", "Au"},
	}

	for _, tt := range tests {
		if got := DetectCommodity(tt.title); got != tt.want {
			t.Errorf("DetectCommodity(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestContainedMetal(t *testing.T) {
	tests := []struct {
		name      string
		tonnageMt float64
		grade     float64
		unit      string
		want      float64
		wantUnit  string
	}{
		{"grams per tonne", 10, 2.5, "g/t", 0.804, "Moz"},
		{"gpt alias", 10, 2.5, "gpt", 0.804, "Moz"},
		{"percent", 5, 1.2, "%", 60, "kt"},
		{"ppm not computed", 100, 500, "ppm", 0, ""},
		{"unknown unit", 1, 1, "oz/t", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotUnit := ContainedMetal(tt.tonnageMt, tt.grade, tt.unit)
			if !almostEqual(got, tt.want) {
				t.Errorf("ContainedMetal = %v, want ~%v", got, tt.want)
			}
			if gotUnit != tt.wantUnit {
				t.Errorf("unit = %q, want %q", gotUnit, tt.wantUnit)
			}
		})
	}
}
