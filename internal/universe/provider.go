// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package universe supplies and maintains the set of companies the
// pipeline considers in scope for an exchange.
package universe

import (
	"context"

	"go.uber.org/zap"

	"github.com/investore/disclosure-engine/pkg/types"
)

// Registry is the slice of the store the provider reads targets from.
type Registry interface {
	ListTargets(ctx context.Context, exchange string, minScore int) ([]types.Target, error)
}

// fallbackTargets keeps the pipeline from ever having zero work when
// both the snapshot and the registry come up empty: the large diversified
// and gold miners that are always listed.
var fallbackTargets = []types.Target{
	{Symbol: "BHP", Name: "BHP Group"},
	{Symbol: "RIO", Name: "Rio Tinto"},
	{Symbol: "FMG", Name: "Fortescue Metals"},
	{Symbol: "NCM", Name: "Newcrest Mining"},
	{Symbol: "NST", Name: "Northern Star"},
	{Symbol: "EVN", Name: "Evolution Mining"},
}

// Provider resolves the target list through a fallback chain: the
// discovery snapshot if present and non-empty, then a live registry
// query, then the static fallback list. The first non-empty source
// wins. An empty universe after all fallbacks is a warning, not a
// failure — the pipeline degenerates to zero work.
type Provider struct {
	cfg      types.UniverseConfig
	registry Registry
	log      *zap.Logger
}

// NewProvider builds a provider. registry may be nil when no store is
// available; the chain then skips straight from snapshot to fallback.
func NewProvider(cfg types.UniverseConfig, registry Registry, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{cfg: cfg, registry: registry, log: log}
}

// Targets returns the (symbol, name) pairs to process. It never
// returns an error; each exhausted source is logged and the chain
// moves on.
func (p *Provider) Targets(ctx context.Context) []types.Target {
	if targets := p.fromSnapshot(); len(targets) > 0 {
		return targets
	}
	if targets := p.fromRegistry(ctx); len(targets) > 0 {
		return targets
	}

	p.log.Warn("universe snapshot and registry empty, using fallback list",
		zap.String("exchange", p.cfg.Exchange),
		zap.Int("fallback_size", len(fallbackTargets)))
	return fallbackTargets
}

func (p *Provider) fromSnapshot() []types.Target {
	if p.cfg.SnapshotPath == "" {
		return nil
	}
	snap, err := LoadSnapshot(p.cfg.SnapshotPath)
	if err != nil {
		p.log.Debug("universe snapshot unavailable",
			zap.String("path", p.cfg.SnapshotPath), zap.Error(err))
		return nil
	}

	minScore := p.cfg.MinMiningScore
	var targets []types.Target
	for _, entry := range snap.Companies {
		if entry.MiningScore < minScore {
			continue
		}
		targets = append(targets, types.Target{Symbol: entry.Symbol, Name: entry.Name})
	}
	if len(targets) > 0 {
		p.log.Info("universe loaded from snapshot",
			zap.String("path", p.cfg.SnapshotPath), zap.Int("targets", len(targets)))
	}
	return targets
}

func (p *Provider) fromRegistry(ctx context.Context) []types.Target {
	if p.registry == nil {
		return nil
	}
	targets, err := p.registry.ListTargets(ctx, p.cfg.Exchange, p.cfg.MinMiningScore)
	if err != nil {
		p.log.Warn("universe registry query failed", zap.Error(err))
		return nil
	}
	if len(targets) > 0 {
		p.log.Info("universe loaded from registry", zap.Int("targets", len(targets)))
	}
	return targets
}
