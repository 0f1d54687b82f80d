package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "disclosure-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RetryConfig shapes the retry policy for upstream calls.
type RetryConfig struct {
	// MaxAttempts is the total number of tries per call (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// InitialInterval is the first backoff delay (default 2s). Each
	// retry doubles it, with jitter.
	InitialInterval time.Duration `json:"initial_interval" yaml:"initial_interval"`

	// MaxInterval caps the backoff delay (default 20s).
	MaxInterval time.Duration `json:"max_interval" yaml:"max_interval"`
}

// UniverseConfig holds settings for universe discovery and the target
// provider fallback chain.
type UniverseConfig struct {
	HTTPConfig `yaml:",inline"`

	// Exchange scopes the universe (default "ASX").
	Exchange string `json:"exchange" yaml:"exchange"`

	// SnapshotPath is the discovery snapshot file consulted first by
	// the provider (default "data/universe.yaml").
	SnapshotPath string `json:"snapshot_path" yaml:"snapshot_path"`

	// SeedPath is an optional CSV of (symbol, name, website) rows used
	// to bootstrap the registry.
	SeedPath string `json:"seed_path,omitempty" yaml:"seed_path,omitempty"`

	// MinMiningScore is the minimum description score for a snapshot
	// entry to count as a pipeline target (default 3).
	MinMiningScore int `json:"min_mining_score" yaml:"min_mining_score"`

	// Concurrency bounds simultaneous about/header enrichment calls
	// (default 10).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	Retry RetryConfig `json:"retry" yaml:"retry"`
}

// FeedConfig holds settings for the disclosure feed fetcher.
type FeedConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the root of the disclosure API.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// PageLimit is the count parameter sent to the feed endpoints
	// (default 100).
	PageLimit int `json:"page_limit" yaml:"page_limit"`

	// Lookback restricts fetched documents to those published within
	// this window of now (default 90 days). Zero disables the filter.
	Lookback time.Duration `json:"lookback" yaml:"lookback"`

	Retry RetryConfig `json:"retry" yaml:"retry"`
}

// PipelineConfig holds settings for the orchestrated run.
type PipelineConfig struct {
	// Concurrency bounds simultaneous in-flight fetches per batch
	// (default 10).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// BatchPause is the pause between fetch batches (default 1s).
	BatchPause time.Duration `json:"batch_pause" yaml:"batch_pause"`

	// MaxCompanies optionally truncates the target list (0 = all).
	MaxCompanies int `json:"max_companies" yaml:"max_companies"`

	// DataDir is where run reports are written (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// StoreConfig holds settings for the persistent store.
type StoreConfig struct {
	// Path is the SQLite database file (default "data/disclosures.db").
	Path string `json:"path" yaml:"path"`
}

// Config groups all stage configurations.
type Config struct {
	Universe UniverseConfig `json:"universe" yaml:"universe"`
	Feed     FeedConfig     `json:"feed" yaml:"feed"`
	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline"`
	Store    StoreConfig    `json:"store" yaml:"store"`
}
