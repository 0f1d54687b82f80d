// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Company is one listed entity in the discovery universe.
// Companies are created on first discovery and refreshed on later runs;
// they are never hard-deleted, only deactivated when a discovery run no
// longer sees them.
type Company struct {
	// Symbol is the exchange ticker, unique per exchange.
	Symbol string `json:"symbol" yaml:"symbol"`

	// Exchange identifies the listing exchange (e.g. "ASX").
	Exchange string `json:"exchange" yaml:"exchange"`

	// Name is the display name from the directory or header endpoint.
	Name string `json:"name" yaml:"name"`

	// Website is the company website from the about endpoint, if known.
	Website string `json:"website,omitempty" yaml:"website,omitempty"`

	// Sector is the classified sector (e.g. "Mining").
	Sector string `json:"sector,omitempty" yaml:"sector,omitempty"`

	// MiningScore is the keyword score assigned during discovery.
	// Higher means the description reads more like a mining company.
	MiningScore int `json:"mining_score" yaml:"mining_score"`

	// Active reports whether the latest discovery run saw this company.
	Active bool `json:"active" yaml:"active"`

	// UpdatedAt is the time of the last upsert.
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Target is the minimal (symbol, name) pair the pipeline iterates over.
type Target struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Name   string `json:"name" yaml:"name"`
}
