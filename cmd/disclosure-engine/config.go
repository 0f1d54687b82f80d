// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/investore/disclosure-engine/pkg/types"
)

const (
	defaultBaseURL   = "https://asx.api.markitdigital.com/asx-research/1.0"
	defaultExchange  = "ASX"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "disclosure-engine/0.1"
	defaultLookback  = 90 * 24 * time.Hour
	defaultDBPath    = "data/disclosures.db"
	defaultDataDir   = "data"
	defaultSnapshot  = "data/universe.yaml"
	defaultMinScore  = 3
)

// loadConfig assembles the stage configuration from viper (config file
// and DISCLOSURE_ENGINE_* env vars) with built-in defaults. Flags on
// individual subcommands override the result where they are set.
func loadConfig() types.Config {
	viper.SetDefault("base_url", defaultBaseURL)
	viper.SetDefault("exchange", defaultExchange)
	viper.SetDefault("timeout", defaultTimeout)
	viper.SetDefault("user_agent", defaultUserAgent)
	viper.SetDefault("lookback", defaultLookback)
	viper.SetDefault("db_path", defaultDBPath)
	viper.SetDefault("data_dir", defaultDataDir)
	viper.SetDefault("snapshot_path", defaultSnapshot)
	viper.SetDefault("min_mining_score", defaultMinScore)
	viper.SetDefault("concurrency", 10)
	viper.SetDefault("batch_pause", 1*time.Second)
	viper.SetDefault("page_limit", 100)
	viper.SetDefault("retry.max_attempts", 3)
	viper.SetDefault("retry.initial_interval", 2*time.Second)
	viper.SetDefault("retry.max_interval", 20*time.Second)

	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("timeout"),
		UserAgent: viper.GetString("user_agent"),
	}
	retryCfg := types.RetryConfig{
		MaxAttempts:     viper.GetInt("retry.max_attempts"),
		InitialInterval: viper.GetDuration("retry.initial_interval"),
		MaxInterval:     viper.GetDuration("retry.max_interval"),
	}

	return types.Config{
		Universe: types.UniverseConfig{
			HTTPConfig:     httpCfg,
			Exchange:       viper.GetString("exchange"),
			SnapshotPath:   viper.GetString("snapshot_path"),
			MinMiningScore: viper.GetInt("min_mining_score"),
			Concurrency:    viper.GetInt("concurrency"),
			Retry:          retryCfg,
		},
		Feed: types.FeedConfig{
			HTTPConfig: httpCfg,
			BaseURL:    viper.GetString("base_url"),
			PageLimit:  viper.GetInt("page_limit"),
			Lookback:   viper.GetDuration("lookback"),
			Retry:      retryCfg,
		},
		Pipeline: types.PipelineConfig{
			Concurrency: viper.GetInt("concurrency"),
			BatchPause:  viper.GetDuration("batch_pause"),
			DataDir:     viper.GetString("data_dir"),
		},
		Store: types.StoreConfig{
			Path: viper.GetString("db_path"),
		},
	}
}

// storeConfig resolves the database path, letting the persistent --db
// flag win over config.
func storeConfig(cmd *cobra.Command, cfg types.Config) types.StoreConfig {
	if path, _ := cmd.Flags().GetString("db"); path != "" {
		return types.StoreConfig{Path: path}
	}
	return cfg.Store
}
