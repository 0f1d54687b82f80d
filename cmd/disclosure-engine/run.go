// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/investore/disclosure-engine/internal/classify"
	"github.com/investore/disclosure-engine/internal/extract"
	"github.com/investore/disclosure-engine/internal/feed"
	"github.com/investore/disclosure-engine/internal/logger"
	"github.com/investore/disclosure-engine/internal/pipeline"
	"github.com/investore/disclosure-engine/internal/store"
	"github.com/investore/disclosure-engine/internal/universe"
	"github.com/investore/disclosure-engine/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full disclosure pipeline over the company universe",
	Long: `Run resolves the target universe (snapshot, then registry, then a static
fallback list), fetches each company's recent disclosures in bounded
concurrent batches, classifies and prioritizes them, stores anything not
already present, extracts resource estimates from stored titles, deactivates
companies that dropped out of the universe, and writes a run report.

The run is idempotent: re-running after a crash stores only what is missing.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().Int("max-companies", 0, "process at most this many companies (0 = all)")
	runCmd.Flags().Int("concurrency", 0, "fetch fan-out bound (default 10)")
	runCmd.Flags().Duration("lookback", 0, "document lookback window (default 90 days)")
	runCmd.Flags().Duration("batch-pause", 0, "pause between fetch batches (default 1s)")
	runCmd.Flags().String("base-url", "", "disclosure API base URL")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	applyRunFlags(cmd, &cfg)

	db, err := store.New(storeConfig(cmd, cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	orch := buildOrchestrator(cfg, db)
	result, err := orch.Run(cmd.Context(), os.Stdout)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}
	if result.Failures > 0 {
		fmt.Fprintf(os.Stderr, "%d company fetch(es) failed; see log for details\n", result.Failures)
	}
	return nil
}

func applyRunFlags(cmd *cobra.Command, cfg *types.Config) {
	if n, _ := cmd.Flags().GetInt("max-companies"); n > 0 {
		cfg.Pipeline.MaxCompanies = n
	}
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		cfg.Pipeline.Concurrency = n
		cfg.Universe.Concurrency = n
	}
	if d, _ := cmd.Flags().GetDuration("lookback"); d > 0 {
		cfg.Feed.Lookback = d
	}
	if d, _ := cmd.Flags().GetDuration("batch-pause"); d > 0 {
		cfg.Pipeline.BatchPause = d
	}
	if u, _ := cmd.Flags().GetString("base-url"); u != "" {
		cfg.Feed.BaseURL = u
	}
}

// buildOrchestrator wires the pipeline stages against one store handle.
func buildOrchestrator(cfg types.Config, db *store.Store) *pipeline.Orchestrator {
	log := logger.L()
	provider := universe.NewProvider(cfg.Universe, db, log)
	fetcher := feed.New(cfg.Feed, classify.New(), log)
	return pipeline.New(provider, fetcher, extract.New(), db, cfg.Pipeline, cfg.Universe.Exchange, log)
}
