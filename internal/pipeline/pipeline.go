// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives fetch → classify → extract → store across
// the company universe. Fetches fan out with bounded concurrency in
// batches; results are merged sequentially after each batch, so no
// shared state is written concurrently. The external contract is
// "always completes, reports what it did": no error propagates past
// the per-company boundary.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/investore/disclosure-engine/pkg/types"
)

const (
	defaultConcurrency = 10
	defaultBatchPause  = 1 * time.Second

	feedSourceName = "Disclosure Feed"
)

// Store is the persistence surface the orchestrator writes through.
type Store interface {
	UpsertCompany(ctx context.Context, c types.Company) error
	HasDocument(ctx context.Context, documentID string) (bool, error)
	InsertDocument(ctx context.Context, doc types.Document) (bool, error)
	InsertEstimate(ctx context.Context, est types.ResourceEstimate) (bool, error)
	ListActiveSymbols(ctx context.Context, exchange string) ([]string, error)
	Deactivate(ctx context.Context, exchange string, symbols []string) (int64, error)
	GetOrCreateSource(ctx context.Context, name, sourceType, url string) (int64, error)
	UpdateSourceStatus(ctx context.Context, id int64, success bool, errMsg string) error
}

// Fetcher retrieves the classified document set for one symbol.
type Fetcher interface {
	Fetch(ctx context.Context, symbol string) ([]types.Document, error)
}

// Extractor turns a document into resource estimates.
type Extractor interface {
	Extract(doc types.Document) []types.ResourceEstimate
}

// TargetProvider supplies the companies to process.
type TargetProvider interface {
	Targets(ctx context.Context) []types.Target
}

// Result summarizes one orchestrated run. Failures are per-company
// permanent fetch failures; they do not make the run itself an error.
type Result struct {
	RunID       string `json:"run_id"`
	Companies   int    `json:"companies"`
	Failures    int    `json:"failures"`
	Documents   int    `json:"documents"`
	StoredDocs  int    `json:"stored_documents"`
	Duplicates  int    `json:"duplicate_documents"`
	Discarded   int    `json:"discarded_documents"`
	Estimates   int    `json:"estimates"`
	StoredEsts  int    `json:"stored_estimates"`
	Deactivated int    `json:"deactivated_companies"`
}

// Orchestrator wires the stages together.
type Orchestrator struct {
	provider  TargetProvider
	fetcher   Fetcher
	extractor Extractor
	store     Store
	cfg       types.PipelineConfig
	exchange  string
	log       *zap.Logger

	// sleep is injectable so tests skip the inter-batch pause.
	sleep func(time.Duration)
}

// New builds an orchestrator. A nil logger disables logging.
func New(provider TargetProvider, fetcher Fetcher, extractor Extractor, store Store, cfg types.PipelineConfig, exchange string, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		provider:  provider,
		fetcher:   fetcher,
		extractor: extractor,
		store:     store,
		cfg:       cfg,
		exchange:  exchange,
		log:       log,
		sleep:     time.Sleep,
	}
}

// Run executes the full pipeline: discover targets, fetch and store
// per company in bounded batches, deactivate stale companies, record
// source health, and write the run report. A crash mid-run is
// recovered by simply re-running: storage is insert-if-absent
// throughout.
func (o *Orchestrator) Run(ctx context.Context, w io.Writer) (Result, error) {
	runID := ulid.Make().String()
	log := o.log.With(zap.String("run_id", runID))

	sourceID, err := o.store.GetOrCreateSource(ctx, feedSourceName, "api", "")
	if err != nil {
		return Result{RunID: runID}, fmt.Errorf("resolving source record: %w", err)
	}

	targets := o.provider.Targets(ctx)
	if o.cfg.MaxCompanies > 0 && len(targets) > o.cfg.MaxCompanies {
		targets = targets[:o.cfg.MaxCompanies]
	}
	if len(targets) == 0 {
		// Zero work is a warning, not a failure; the source record
		// keeps the error so the next run can observe it.
		log.Warn("universe is empty, nothing to do")
		fmt.Fprintln(w, "universe is empty, nothing to do")
		if statusErr := o.store.UpdateSourceStatus(ctx, sourceID, false, "empty universe"); statusErr != nil {
			log.Warn("source status update failed", zap.Error(statusErr))
		}
		return Result{RunID: runID}, nil
	}

	result, estimates := o.processTargets(ctx, runID, targets, w)

	deactivated, err := o.deactivateStale(ctx, targets)
	if err != nil {
		log.Warn("stale deactivation failed", zap.Error(err))
	}
	result.Deactivated = deactivated

	if statusErr := o.store.UpdateSourceStatus(ctx, sourceID, true, ""); statusErr != nil {
		log.Warn("source status update failed", zap.Error(statusErr))
	}

	report := BuildReport(runID, result, estimates)
	if o.cfg.DataDir != "" {
		path, repErr := WriteReport(o.cfg.DataDir, report)
		if repErr != nil {
			log.Warn("report write failed", zap.Error(repErr))
		} else {
			fmt.Fprintf(w, "report written to %s\n", path)
		}
	}

	o.printSummary(w, result)
	return result, nil
}

// Scan processes explicitly named symbols without universe discovery,
// deactivation or a report file. Used for quick acquisitions.
func (o *Orchestrator) Scan(ctx context.Context, symbols []string, w io.Writer) (Result, error) {
	runID := ulid.Make().String()

	sourceID, err := o.store.GetOrCreateSource(ctx, feedSourceName, "api", "")
	if err != nil {
		return Result{RunID: runID}, fmt.Errorf("resolving source record: %w", err)
	}

	targets := make([]types.Target, 0, len(symbols))
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		targets = append(targets, types.Target{Symbol: sym, Name: sym})
	}

	result, _ := o.processTargets(ctx, runID, targets, w)

	if statusErr := o.store.UpdateSourceStatus(ctx, sourceID, true, ""); statusErr != nil {
		o.log.Warn("source status update failed", zap.Error(statusErr))
	}

	o.printSummary(w, result)
	return result, nil
}

// companyOutcome is the join-point record for one fetch task.
type companyOutcome struct {
	target types.Target
	docs   []types.Document
	err    error
}

// processTargets runs the batched fan-out and the sequential store
// step. Returns the run counters and every estimate seen, for the
// report.
func (o *Orchestrator) processTargets(ctx context.Context, runID string, targets []types.Target, w io.Writer) (Result, []types.ResourceEstimate) {
	result := Result{RunID: runID, Companies: len(targets)}
	log := o.log.With(zap.String("run_id", runID))

	concurrency := o.cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	pause := o.cfg.BatchPause
	if pause <= 0 {
		pause = defaultBatchPause
	}

	pool := pond.NewResultPool[companyOutcome](concurrency)
	defer pool.StopAndWait()

	var allEstimates []types.ResourceEstimate

	for start := 0; start < len(targets); start += concurrency {
		end := start + concurrency
		if end > len(targets) {
			end = len(targets)
		}
		batch := targets[start:end]

		// Fan out the batch; each task is an independent fetch.
		tasks := make([]pond.Result[companyOutcome], 0, len(batch))
		for _, target := range batch {
			target := target
			tasks = append(tasks, pool.Submit(func() companyOutcome {
				docs, err := o.fetcher.Fetch(ctx, target.Symbol)
				return companyOutcome{target: target, docs: docs, err: err}
			}))
		}

		// Join point: merge batch results sequentially.
		for _, task := range tasks {
			outcome, err := task.Wait()
			if err != nil {
				outcome.err = err
			}
			if outcome.err != nil {
				// Retries are exhausted inside the fetcher; this is a
				// permanent failure for this company only.
				log.Warn("fetch failed", zap.String("symbol", outcome.target.Symbol), zap.Error(outcome.err))
				fmt.Fprintf(w, "failed:  %s (%v)\n", outcome.target.Symbol, outcome.err)
				result.Failures++
				continue
			}
			estimates := o.storeCompany(ctx, outcome, &result, w)
			allEstimates = append(allEstimates, estimates...)
		}

		if end < len(targets) {
			o.sleep(pause)
		}
		fmt.Fprintf(w, "processed %d/%d companies\n", end, len(targets))
	}

	return result, allEstimates
}

// storeCompany persists one company's documents and estimates.
// Documents arrive priority-descending from the fetcher, so the most
// valuable disclosures land first even if the run is interrupted.
// Every persistence failure is caught per-row and counted, never
// propagated.
func (o *Orchestrator) storeCompany(ctx context.Context, outcome companyOutcome, result *Result, w io.Writer) []types.ResourceEstimate {
	log := o.log.With(zap.String("symbol", outcome.target.Symbol))

	if err := o.store.UpsertCompany(ctx, types.Company{
		Symbol:   outcome.target.Symbol,
		Exchange: o.exchange,
		Name:     outcome.target.Name,
		Sector:   "Mining",
	}); err != nil {
		log.Warn("company upsert failed", zap.Error(err))
	}

	var kept []types.ResourceEstimate
	for _, doc := range outcome.docs {
		result.Documents++

		if !doc.Valuable {
			result.Discarded++
			continue
		}

		// Dedup before insert: an already-stored document is never
		// re-inserted, re-classified or re-extracted.
		exists, err := o.store.HasDocument(ctx, doc.DocumentID)
		if err != nil {
			log.Warn("document lookup failed", zap.String("document_id", doc.DocumentID), zap.Error(err))
			continue
		}
		if exists {
			result.Duplicates++
			continue
		}

		inserted, err := o.store.InsertDocument(ctx, doc)
		if err != nil {
			log.Warn("document insert failed", zap.String("document_id", doc.DocumentID), zap.Error(err))
			continue
		}
		if !inserted {
			result.Duplicates++
			continue
		}
		result.StoredDocs++
		fmt.Fprintf(w, "stored:  %s %q (%s, priority %d)\n",
			doc.Symbol, doc.Title, doc.Type, doc.Priority)

		estimates := o.extractor.Extract(doc)
		result.Estimates += len(estimates)
		for _, est := range estimates {
			inserted, err := o.store.InsertEstimate(ctx, est)
			if err != nil {
				log.Warn("estimate insert failed",
					zap.String("document_id", est.DocumentID), zap.Int("seq", est.Seq), zap.Error(err))
				continue
			}
			if inserted {
				result.StoredEsts++
			}
			kept = append(kept, est)
		}
	}
	return kept
}

// deactivateStale flips previously active symbols absent from this
// run's target set to inactive. Fetch failures do not deactivate: the
// comparison is against the discovered universe, not fetch success.
func (o *Orchestrator) deactivateStale(ctx context.Context, targets []types.Target) (int, error) {
	targetSet := make(map[string]bool, len(targets))
	for _, t := range targets {
		targetSet[strings.ToUpper(t.Symbol)] = true
	}

	active, err := o.store.ListActiveSymbols(ctx, o.exchange)
	if err != nil {
		return 0, err
	}

	var stale []string
	for _, sym := range active {
		if !targetSet[strings.ToUpper(sym)] {
			stale = append(stale, sym)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	n, err := o.store.Deactivate(ctx, o.exchange, stale)
	return int(n), err
}

func (o *Orchestrator) printSummary(w io.Writer, r Result) {
	fmt.Fprintf(w, "\nRun summary: %d companies (%d failed), %d documents (%d stored, %d duplicate, %d discarded), %d estimates (%d stored)\n",
		r.Companies, r.Failures, r.Documents, r.StoredDocs, r.Duplicates, r.Discarded, r.Estimates, r.StoredEsts)
}
