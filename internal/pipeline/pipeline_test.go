// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/investore/disclosure-engine/pkg/types"
)

// memStore is an in-memory pipeline.Store for orchestrator tests.
type memStore struct {
	mu          sync.Mutex
	companies   map[string]types.Company
	documents   map[string]types.Document
	estimates   map[string]types.ResourceEstimate
	inactive    map[string]bool
	sources     map[string]int64
	statusCalls []bool
	statusErrs  []string
	failInserts bool
}

func newMemStore() *memStore {
	return &memStore{
		companies: make(map[string]types.Company),
		documents: make(map[string]types.Document),
		estimates: make(map[string]types.ResourceEstimate),
		inactive:  make(map[string]bool),
		sources:   make(map[string]int64),
	}
}

func (m *memStore) UpsertCompany(ctx context.Context, c types.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[c.Symbol] = c
	delete(m.inactive, c.Symbol)
	return nil
}

func (m *memStore) HasDocument(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.documents[id]
	return ok, nil
}

func (m *memStore) InsertDocument(ctx context.Context, doc types.Document) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInserts {
		return false, errors.New("disk full")
	}
	if _, ok := m.documents[doc.DocumentID]; ok {
		return false, nil
	}
	m.documents[doc.DocumentID] = doc
	return true, nil
}

func (m *memStore) InsertEstimate(ctx context.Context, est types.ResourceEstimate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%s/%d", est.DocumentID, est.Seq)
	if _, ok := m.estimates[key]; ok {
		return false, nil
	}
	m.estimates[key] = est
	return true, nil
}

func (m *memStore) ListActiveSymbols(ctx context.Context, exchange string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var symbols []string
	for sym := range m.companies {
		if !m.inactive[sym] {
			symbols = append(symbols, sym)
		}
	}
	return symbols, nil
}

func (m *memStore) Deactivate(ctx context.Context, exchange string, symbols []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sym := range symbols {
		m.inactive[sym] = true
	}
	return int64(len(symbols)), nil
}

func (m *memStore) GetOrCreateSource(ctx context.Context, name, sourceType, url string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.sources[name]; ok {
		return id, nil
	}
	id := int64(len(m.sources) + 1)
	m.sources[name] = id
	return id, nil
}

func (m *memStore) UpdateSourceStatus(ctx context.Context, id int64, success bool, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCalls = append(m.statusCalls, success)
	m.statusErrs = append(m.statusErrs, errMsg)
	return nil
}

// stubFetcher returns canned documents per symbol; symbols in fail
// error out.
type stubFetcher struct {
	docs map[string][]types.Document
	fail map[string]bool
}

func (s *stubFetcher) Fetch(ctx context.Context, symbol string) ([]types.Document, error) {
	if s.fail[symbol] {
		return nil, errors.New("feed unreachable")
	}
	return s.docs[symbol], nil
}

// stubExtractor yields one estimate for titles containing "Resource".
type stubExtractor struct{}

func (stubExtractor) Extract(doc types.Document) []types.ResourceEstimate {
	if !strings.Contains(doc.Title, "Resource") {
		return nil
	}
	return []types.ResourceEstimate{{
		DocumentID: doc.DocumentID,
		Seq:        0,
		Symbol:     doc.Symbol,
		Commodity:  "Au",
		Category:   types.CategoryIndicated,
		TonnageMt:  10,
	}}
}

type stubProvider struct {
	targets []types.Target
}

func (s *stubProvider) Targets(ctx context.Context) []types.Target {
	return s.targets
}

func doc(id, symbol, title string, priority int, valuable bool) types.Document {
	return types.Document{
		DocumentID: id, Symbol: symbol, Title: title,
		Priority: priority, Valuable: valuable,
		PublishedAt: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
	}
}

func testOrchestrator(provider TargetProvider, fetcher Fetcher, store Store, cfg types.PipelineConfig) *Orchestrator {
	o := New(provider, fetcher, stubExtractor{}, store, cfg, "ASX", nil)
	o.sleep = func(time.Duration) {}
	return o
}

func TestRunStoresDocumentsAndEstimates(t *testing.T) {
	ms := newMemStore()
	fetcher := &stubFetcher{docs: map[string][]types.Document{
		"NST": {
			doc("d1", "NST", "Maiden Resource Estimate", 100, true),
			doc("d2", "NST", "Change of Director", 10, false),
		},
		"EVN": {
			doc("d3", "EVN", "Quarterly Report", 70, true),
		},
	}}
	provider := &stubProvider{targets: []types.Target{
		{Symbol: "NST", Name: "Northern Star"},
		{Symbol: "EVN", Name: "Evolution Mining"},
	}}

	o := testOrchestrator(provider, fetcher, ms, types.PipelineConfig{Concurrency: 2})
	result, err := o.Run(context.Background(), io.Discard)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Companies != 2 || result.Failures != 0 {
		t.Errorf("companies/failures = %d/%d, want 2/0", result.Companies, result.Failures)
	}
	if result.Documents != 3 {
		t.Errorf("Documents = %d, want 3", result.Documents)
	}
	if result.StoredDocs != 2 {
		t.Errorf("StoredDocs = %d, want 2", result.StoredDocs)
	}
	if result.Discarded != 1 {
		t.Errorf("Discarded = %d, want 1 (non-valuable d2)", result.Discarded)
	}
	if result.StoredEsts != 1 {
		t.Errorf("StoredEsts = %d, want 1", result.StoredEsts)
	}
	if _, ok := ms.documents["d2"]; ok {
		t.Error("non-valuable document was stored")
	}
	if len(ms.companies) != 2 {
		t.Errorf("companies upserted = %d, want 2", len(ms.companies))
	}
	if len(ms.statusCalls) != 1 || !ms.statusCalls[0] {
		t.Errorf("statusCalls = %v, want one success", ms.statusCalls)
	}
}

// Re-running over the same feed stores nothing new.
func TestRunIdempotent(t *testing.T) {
	ms := newMemStore()
	fetcher := &stubFetcher{docs: map[string][]types.Document{
		"NST": {doc("d1", "NST", "Maiden Resource Estimate", 100, true)},
	}}
	provider := &stubProvider{targets: []types.Target{{Symbol: "NST", Name: "Northern Star"}}}

	o := testOrchestrator(provider, fetcher, ms, types.PipelineConfig{Concurrency: 1})
	if _, err := o.Run(context.Background(), io.Discard); err != nil {
		t.Fatal(err)
	}

	result, err := o.Run(context.Background(), io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if result.StoredDocs != 0 {
		t.Errorf("second run StoredDocs = %d, want 0", result.StoredDocs)
	}
	if result.Duplicates != 1 {
		t.Errorf("second run Duplicates = %d, want 1", result.Duplicates)
	}
	if len(ms.documents) != 1 || len(ms.estimates) != 1 {
		t.Errorf("store grew on re-run: %d docs, %d estimates", len(ms.documents), len(ms.estimates))
	}
}

// One company failing must not abort the others or the run.
func TestRunIsolatesFetchFailures(t *testing.T) {
	ms := newMemStore()
	fetcher := &stubFetcher{
		docs: map[string][]types.Document{
			"EVN": {doc("d3", "EVN", "Quarterly Report", 70, true)},
		},
		fail: map[string]bool{"NST": true},
	}
	provider := &stubProvider{targets: []types.Target{
		{Symbol: "NST", Name: "Northern Star"},
		{Symbol: "EVN", Name: "Evolution Mining"},
	}}

	o := testOrchestrator(provider, fetcher, ms, types.PipelineConfig{Concurrency: 2})
	result, err := o.Run(context.Background(), io.Discard)
	if err != nil {
		t.Fatalf("Run returned error for per-company failure: %v", err)
	}
	if result.Failures != 1 {
		t.Errorf("Failures = %d, want 1", result.Failures)
	}
	if result.StoredDocs != 1 {
		t.Errorf("StoredDocs = %d, want 1 (EVN unaffected)", result.StoredDocs)
	}
	// The failing symbol keeps its company row untouched but is not
	// deactivated: it was still in the target set.
	if ms.inactive["NST"] {
		t.Error("transient fetch failure deactivated the company")
	}
}

func TestRunDeactivatesStale(t *testing.T) {
	ms := newMemStore()
	ms.companies["OLD"] = types.Company{Symbol: "OLD", Exchange: "ASX"}

	fetcher := &stubFetcher{docs: map[string][]types.Document{}}
	provider := &stubProvider{targets: []types.Target{{Symbol: "NST", Name: "Northern Star"}}}

	o := testOrchestrator(provider, fetcher, ms, types.PipelineConfig{Concurrency: 1})
	result, err := o.Run(context.Background(), io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if result.Deactivated != 1 {
		t.Errorf("Deactivated = %d, want 1", result.Deactivated)
	}
	if !ms.inactive["OLD"] {
		t.Error("stale company not deactivated")
	}
	if ms.inactive["NST"] {
		t.Error("current target deactivated")
	}
}

func TestRunEmptyUniverse(t *testing.T) {
	ms := newMemStore()
	o := testOrchestrator(&stubProvider{}, &stubFetcher{}, ms, types.PipelineConfig{})

	result, err := o.Run(context.Background(), io.Discard)
	if err != nil {
		t.Fatalf("empty universe must end cleanly: %v", err)
	}
	if result.Companies != 0 {
		t.Errorf("Companies = %d, want 0", result.Companies)
	}
	if len(ms.statusCalls) != 1 || ms.statusCalls[0] {
		t.Errorf("statusCalls = %v, want one failure", ms.statusCalls)
	}
}

// Per-row persistence failures are counted, not propagated.
func TestRunSurvivesInsertFailures(t *testing.T) {
	ms := newMemStore()
	ms.failInserts = true
	fetcher := &stubFetcher{docs: map[string][]types.Document{
		"NST": {doc("d1", "NST", "Maiden Resource Estimate", 100, true)},
	}}
	provider := &stubProvider{targets: []types.Target{{Symbol: "NST", Name: "Northern Star"}}}

	o := testOrchestrator(provider, fetcher, ms, types.PipelineConfig{Concurrency: 1})
	result, err := o.Run(context.Background(), io.Discard)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.StoredDocs != 0 {
		t.Errorf("StoredDocs = %d, want 0", result.StoredDocs)
	}
	if result.Documents != 1 {
		t.Errorf("Documents = %d, want 1", result.Documents)
	}
}

func TestScanProcessesNamedSymbols(t *testing.T) {
	ms := newMemStore()
	ms.companies["OLD"] = types.Company{Symbol: "OLD", Exchange: "ASX"}
	fetcher := &stubFetcher{docs: map[string][]types.Document{
		"NST": {doc("d1", "NST", "Maiden Resource Estimate", 100, true)},
	}}

	o := testOrchestrator(&stubProvider{}, fetcher, ms, types.PipelineConfig{Concurrency: 1})
	result, err := o.Scan(context.Background(), []string{" nst ", ""}, io.Discard)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if result.Companies != 1 {
		t.Errorf("Companies = %d, want 1 (blank symbol dropped)", result.Companies)
	}
	if result.StoredDocs != 1 {
		t.Errorf("StoredDocs = %d, want 1", result.StoredDocs)
	}
	// Scan never deactivates.
	if ms.inactive["OLD"] {
		t.Error("Scan deactivated an unrelated company")
	}
}

func TestRunWritesReport(t *testing.T) {
	dir := t.TempDir()
	ms := newMemStore()
	fetcher := &stubFetcher{docs: map[string][]types.Document{
		"NST": {doc("d1", "NST", "Maiden Resource Estimate", 100, true)},
	}}
	provider := &stubProvider{targets: []types.Target{{Symbol: "NST", Name: "Northern Star"}}}

	o := testOrchestrator(provider, fetcher, ms, types.PipelineConfig{Concurrency: 1, DataDir: dir})
	result, err := o.Run(context.Background(), io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "run_report_*.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("report files = %v, want exactly one", matches)
	}
	if !strings.Contains(matches[0], result.RunID) {
		t.Errorf("report file %q does not carry run id %q", matches[0], result.RunID)
	}
}

func TestBuildReportAggregates(t *testing.T) {
	estimates := []types.ResourceEstimate{
		{DocumentID: "d1", Symbol: "NST", Commodity: "Au", Category: types.CategoryIndicated, TonnageMt: 10},
		{DocumentID: "d1", Symbol: "NST", Commodity: "Au", Category: types.CategoryInferred, TonnageMt: 5},
		{DocumentID: "d2", Symbol: "EVN", Commodity: "Cu", Category: "", TonnageMt: 50},
	}

	r := BuildReport("run-1", Result{RunID: "run-1"}, estimates)

	if got := r.ByCommodity["Au"]; got == nil || got.Count != 2 || got.TonnageMt != 15 {
		t.Errorf("ByCommodity[Au] = %+v, want count 2 tonnage 15", got)
	}
	if got := r.ByCategory[string(types.CategoryUnspecified)]; got == nil || got.Count != 1 {
		t.Errorf("blank category not folded into unspecified: %+v", got)
	}
	if len(r.Companies) != 2 {
		t.Errorf("Companies = %v, want 2 distinct symbols", r.Companies)
	}
}
