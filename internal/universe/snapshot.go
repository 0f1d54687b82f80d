// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package universe

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

// Snapshot is the materialized result of a discovery run, consumed by
// the provider on later runs so the pipeline can start without hitting
// the directory endpoints again.
type Snapshot struct {
	Exchange    string          `yaml:"exchange"`
	GeneratedAt time.Time       `yaml:"generated_at"`
	Companies   []SnapshotEntry `yaml:"companies"`
}

// SnapshotEntry is one discovered company with its keyword score.
type SnapshotEntry struct {
	Symbol      string `yaml:"symbol"`
	Name        string `yaml:"name"`
	Website     string `yaml:"website,omitempty"`
	MiningScore int    `yaml:"mining_score"`
}

// LoadSnapshot reads a discovery snapshot from path.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// WriteSnapshot writes a discovery snapshot to path, creating parent
// directories as needed.
func WriteSnapshot(path string, snap *Snapshot) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
