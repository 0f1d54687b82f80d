// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package universe

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/investore/disclosure-engine/pkg/types"
)

// seed CSV column names, fixed by convention.
const (
	seedColSymbol  = "symbol"
	seedColName    = "name"
	seedColWebsite = "website"
)

// LoadSeeds reads a bootstrap company list from a CSV file with a
// header row naming at least the symbol and name columns. Rows missing
// a symbol are skipped.
func LoadSeeds(path, exchange string) ([]types.Company, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading seed header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols[seedColSymbol]; !ok {
		return nil, fmt.Errorf("seed file %s has no %q column", path, seedColSymbol)
	}

	var companies []types.Company
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading seed row: %w", err)
		}

		symbol := strings.ToUpper(strings.TrimSpace(field(record, cols, seedColSymbol)))
		if symbol == "" {
			continue
		}
		name := strings.TrimSpace(field(record, cols, seedColName))
		if name == "" {
			name = symbol
		}
		companies = append(companies, types.Company{
			Symbol:   symbol,
			Exchange: exchange,
			Name:     name,
			Website:  strings.TrimSpace(field(record, cols, seedColWebsite)),
			Sector:   "Mining",
			Active:   true,
		})
	}
	return companies, nil
}

func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}
