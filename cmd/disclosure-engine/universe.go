// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/investore/disclosure-engine/internal/logger"
	"github.com/investore/disclosure-engine/internal/store"
	"github.com/investore/disclosure-engine/internal/universe"
)

var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Refresh the mining company universe from the exchange directory",
	Long: `Universe pages through the exchange company directory, keeps Materials
and Energy listings, enriches each with its description, scores how strongly
it reads as a mining or exploration company, and upserts the survivors.
Companies that were active but no longer appear are deactivated, and a
snapshot file is written for later pipeline runs.

With --seed, a local CSV of (symbol, name, website) rows is loaded into the
registry instead of calling the directory endpoints.`,
	RunE: runUniverse,
}

func init() {
	universeCmd.Flags().String("base-url", "", "disclosure API base URL")
	universeCmd.Flags().String("seed", "", "CSV seed file to load instead of the live directory")
	universeCmd.Flags().String("snapshot", "", "snapshot file path (default data/universe.yaml)")
	universeCmd.Flags().Int("concurrency", 0, "enrichment fan-out bound (default 10)")

	rootCmd.AddCommand(universeCmd)
}

func runUniverse(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if snapshot, _ := cmd.Flags().GetString("snapshot"); snapshot != "" {
		cfg.Universe.SnapshotPath = snapshot
	}
	if concurrency, _ := cmd.Flags().GetInt("concurrency"); concurrency > 0 {
		cfg.Universe.Concurrency = concurrency
	}
	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = secretDefault("base_url", cfg.Feed.BaseURL)
	}

	db, err := store.New(storeConfig(cmd, cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	if seedPath, _ := cmd.Flags().GetString("seed"); seedPath != "" {
		return seedUniverse(cmd, db, cfg.Universe.Exchange, seedPath)
	}

	d := universe.NewDiscoverer(baseURL, cfg.Universe, db, logger.L())
	result, err := d.Sync(cmd.Context(), os.Stdout)
	if err != nil {
		return fmt.Errorf("universe sync failed: %w", err)
	}
	if result.Upserted == 0 {
		fmt.Fprintln(os.Stderr, "warning: universe sync found no mining companies")
	}
	return nil
}

func seedUniverse(cmd *cobra.Command, db *store.Store, exchange, seedPath string) error {
	companies, err := universe.LoadSeeds(seedPath, exchange)
	if err != nil {
		return err
	}
	for _, c := range companies {
		if err := db.UpsertCompany(cmd.Context(), c); err != nil {
			return fmt.Errorf("seeding %s: %w", c.Symbol, err)
		}
	}
	fmt.Fprintf(os.Stdout, "seeded %d companies from %s\n", len(companies), seedPath)
	return nil
}
