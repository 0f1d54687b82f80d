// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/investore/disclosure-engine/internal/store"
)

var scanCmd = &cobra.Command{
	Use:   "scan [symbols...]",
	Short: "Fetch and store disclosures for named symbols",
	Long: `Scan runs the fetch, classify, extract, and store stages for the given
symbols only, skipping universe discovery and stale deactivation. Useful for
trying a handful of companies or backfilling one symbol.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().Duration("lookback", 0, "document lookback window (default 90 days)")
	scanCmd.Flags().String("base-url", "", "disclosure API base URL")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more ticker symbols")
	}

	cfg := loadConfig()
	if d, _ := cmd.Flags().GetDuration("lookback"); d > 0 {
		cfg.Feed.Lookback = d
	}
	if u, _ := cmd.Flags().GetString("base-url"); u != "" {
		cfg.Feed.BaseURL = u
	}

	db, err := store.New(storeConfig(cmd, cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	orch := buildOrchestrator(cfg, db)
	result, err := orch.Scan(cmd.Context(), args, os.Stdout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if result.Failures == result.Companies && result.Companies > 0 {
		return fmt.Errorf("all %d symbol(s) failed", result.Failures)
	}
	return nil
}
