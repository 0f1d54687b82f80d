// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SourceStatus is the health state of an upstream data source.
type SourceStatus string

const (
	SourceActive SourceStatus = "active"
	SourceError  SourceStatus = "error"
)

// Source tracks one upstream data source's health. It is updated
// exactly once per run, after all work for that source completes or
// fails.
type Source struct {
	ID          int64        `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Type        string       `json:"type" yaml:"type"`
	URL         string       `json:"url,omitempty" yaml:"url,omitempty"`
	Status      SourceStatus `json:"status" yaml:"status"`
	LastSuccess time.Time    `json:"last_success,omitempty" yaml:"last_success,omitempty"`
	LastError   string       `json:"last_error,omitempty" yaml:"last_error,omitempty"`
	ErrorCount  int          `json:"error_count" yaml:"error_count"`
}
