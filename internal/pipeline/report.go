// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/investore/disclosure-engine/pkg/types"
)

// CommoditySummary aggregates the estimates seen for one commodity or
// one resource category during a run.
type CommoditySummary struct {
	Count     int     `json:"count"`
	TonnageMt float64 `json:"tonnage_mt"`
}

// Report is the run artifact written alongside the database. It is a
// convenience summary; the database remains the source of truth.
type Report struct {
	RunID       string                       `json:"run_id"`
	GeneratedAt time.Time                    `json:"generated_at"`
	Result      Result                       `json:"result"`
	ByCategory  map[string]*CommoditySummary `json:"by_category"`
	ByCommodity map[string]*CommoditySummary `json:"by_commodity"`
	Companies   []string                     `json:"companies_with_resources"`
}

// BuildReport aggregates a run's estimates by category and commodity.
func BuildReport(runID string, result Result, estimates []types.ResourceEstimate) *Report {
	r := &Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Result:      result,
		ByCategory:  make(map[string]*CommoditySummary),
		ByCommodity: make(map[string]*CommoditySummary),
	}

	seen := make(map[string]bool)
	for _, est := range estimates {
		category := string(est.Category)
		if category == "" {
			category = string(types.CategoryUnspecified)
		}
		addSummary(r.ByCategory, category, est.TonnageMt)
		addSummary(r.ByCommodity, est.Commodity, est.TonnageMt)
		if !seen[est.Symbol] {
			seen[est.Symbol] = true
			r.Companies = append(r.Companies, est.Symbol)
		}
	}
	return r
}

func addSummary(m map[string]*CommoditySummary, key string, tonnage float64) {
	s, ok := m[key]
	if !ok {
		s = &CommoditySummary{}
		m[key] = s
	}
	s.Count++
	s.TonnageMt += tonnage
}

// WriteReport writes the report as indented JSON under dir, named by
// run ID, and returns the file path.
func WriteReport(dir string, r *Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("run_report_%s.json", r.RunID))

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
