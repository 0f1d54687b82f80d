// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package universe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/investore/disclosure-engine/internal/httputil"
	"github.com/investore/disclosure-engine/pkg/types"
)

// candidateIndustries are the directory industries worth enriching.
// The industry filter alone is too broad; inclusion still requires a
// positive description score.
var candidateIndustries = map[string]bool{
	"Materials": true,
	"Energy":    true,
}

// miningKeywords each add one point to a company description score.
var miningKeywords = []string{
	"mining", "miner", "mine", "exploration", "explore", "resources",
	"minerals", "metals", "ore", "deposit", "drilling", "drill",
	"tenement", "project", "gold", "silver", "copper", "lithium",
	"nickel", "uranium", "iron ore", "coal", "graphite", "rare earth",
	"vanadium", "zinc", "lead", "tin", "cobalt", "manganese",
	"platinum", "palladium", "mineral sands", "oil", "gas", "petroleum",
}

// excludeKeywords each subtract two points. Kept conservative to avoid
// missing miners.
var excludeKeywords = []string{
	"real estate", "reit", "bank", "insurance", "biotech",
	"pharmaceutical", "software",
}

// ScoreDescription scores how strongly a company description reads as
// mining/exploration. Positive means include.
func ScoreDescription(text string) int {
	t := strings.ToLower(text)
	score := 0
	for _, kw := range miningKeywords {
		if strings.Contains(t, kw) {
			score++
		}
	}
	for _, kw := range excludeKeywords {
		if strings.Contains(t, kw) {
			score -= 2
		}
	}
	return score
}

// CompanyStore is the slice of the store discovery writes to.
type CompanyStore interface {
	UpsertCompany(ctx context.Context, c types.Company) error
	ListActiveSymbols(ctx context.Context, exchange string) ([]string, error)
	Deactivate(ctx context.Context, exchange string, symbols []string) (int64, error)
	GetOrCreateSource(ctx context.Context, name, sourceType, url string) (int64, error)
	UpdateSourceStatus(ctx context.Context, id int64, success bool, errMsg string) error
}

// Directory endpoint JSON structures.
type directoryResponse struct {
	Data directoryData `json:"data"`
}

type directoryData struct {
	Count int             `json:"count"`
	Items []directoryItem `json:"items"`
}

type directoryItem struct {
	Symbol      string `json:"symbol"`
	DisplayName string `json:"displayName"`
	Industry    string `json:"industry"`
}

type aboutResponse struct {
	Data aboutData `json:"data"`
}

type aboutData struct {
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	WebsiteURL  string `json:"websiteUrl"`
}

type headerResponse struct {
	Data headerData `json:"data"`
}

type headerData struct {
	DisplayName string `json:"displayName"`
	Sector      string `json:"sector"`
}

// Result summarizes a discovery sync.
type Result struct {
	Candidates  int
	Discovered  int
	Upserted    int
	Deactivated int
}

// Discoverer refreshes the company universe from the exchange
// directory: page through the full listing, filter to candidate
// industries, enrich each symbol with its about/header metadata, score
// the description, and upsert the survivors. Companies active in the
// store but absent from the latest run are deactivated.
type Discoverer struct {
	client *http.Client
	cfg    types.UniverseConfig
	store  CompanyStore
	policy httputil.RetryPolicy
	log    *zap.Logger
	base   string
}

// NewDiscoverer builds a discoverer against the given API base URL.
func NewDiscoverer(baseURL string, cfg types.UniverseConfig, store CompanyStore, log *zap.Logger) *Discoverer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Discoverer{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		store:  store,
		policy: httputil.NewRetryPolicy(cfg.Retry),
		log:    log,
		base:   baseURL,
	}
}

// Sync runs one discovery pass and writes the snapshot. Per-item
// status goes to w; the source-health record is updated exactly once,
// after all work completes or fails.
func (d *Discoverer) Sync(ctx context.Context, w io.Writer) (Result, error) {
	sourceID, err := d.store.GetOrCreateSource(ctx, "Company Directory", "api", d.base+"/companies/directory")
	if err != nil {
		return Result{}, err
	}

	result, err := d.sync(ctx, w)
	if err != nil {
		if statusErr := d.store.UpdateSourceStatus(ctx, sourceID, false, err.Error()); statusErr != nil {
			d.log.Warn("source status update failed", zap.Error(statusErr))
		}
		return result, err
	}
	if statusErr := d.store.UpdateSourceStatus(ctx, sourceID, true, ""); statusErr != nil {
		d.log.Warn("source status update failed", zap.Error(statusErr))
	}
	return result, nil
}

func (d *Discoverer) sync(ctx context.Context, w io.Writer) (Result, error) {
	items, err := d.fetchDirectory(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetching directory: %w", err)
	}

	var result Result
	result.Candidates = len(items)
	fmt.Fprintf(w, "directory candidates (Materials/Energy): %d\n", len(items))

	companies := d.enrich(ctx, items)
	result.Discovered = len(companies)

	snap := &Snapshot{
		Exchange:    d.cfg.Exchange,
		GeneratedAt: time.Now().UTC(),
	}
	var current []string
	for _, c := range companies {
		if err := d.store.UpsertCompany(ctx, c); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", c.Symbol, err)
			continue
		}
		result.Upserted++
		current = append(current, c.Symbol)
		snap.Companies = append(snap.Companies, SnapshotEntry{
			Symbol:      c.Symbol,
			Name:        c.Name,
			Website:     c.Website,
			MiningScore: c.MiningScore,
		})
	}

	deactivated, err := d.deactivateMissing(ctx, current)
	if err != nil {
		return result, err
	}
	result.Deactivated = deactivated

	if d.cfg.SnapshotPath != "" {
		if err := WriteSnapshot(d.cfg.SnapshotPath, snap); err != nil {
			d.log.Warn("snapshot write failed", zap.Error(err))
		}
	}

	fmt.Fprintf(w, "\nDiscovery summary: %d discovered, %d upserted, %d deactivated\n",
		result.Discovered, result.Upserted, result.Deactivated)
	return result, nil
}

// fetchDirectory pages through the full company directory and keeps
// candidate-industry entries.
func (d *Discoverer) fetchDirectory(ctx context.Context) ([]directoryItem, error) {
	var kept []directoryItem

	page := 1
	pageSize := 0
	totalPages := 1
	for page <= totalPages {
		url := fmt.Sprintf("%s/companies/directory?page=%d", d.base, page)

		var resp directoryResponse
		if err := httputil.GetJSON(ctx, d.client, url, d.cfg.UserAgent, d.policy, &resp); err != nil {
			return nil, err
		}
		if len(resp.Data.Items) == 0 {
			break
		}
		if page == 1 {
			pageSize = len(resp.Data.Items)
			totalPages = (resp.Data.Count + pageSize - 1) / pageSize
			if totalPages < 1 {
				totalPages = 1
			}
		}
		for _, item := range resp.Data.Items {
			if item.Symbol == "" || !candidateIndustries[item.Industry] {
				continue
			}
			item.Symbol = strings.ToUpper(item.Symbol)
			kept = append(kept, item)
		}
		page++
	}
	return kept, nil
}

// enriched pairs a directory item with its about/header metadata.
type enriched struct {
	item   directoryItem
	about  aboutData
	header headerData
}

// enrich fetches about/header metadata with a bounded-concurrency
// fan-out and keeps companies whose description scores positive.
// Enrichment failures leave the fields empty rather than dropping the
// candidate outright; the score filter then decides.
func (d *Discoverer) enrich(ctx context.Context, items []directoryItem) []types.Company {
	concurrency := d.cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	pool := pond.NewResultPool[enriched](concurrency)
	defer pool.StopAndWait()

	tasks := make([]pond.Result[enriched], 0, len(items))
	for _, item := range items {
		item := item
		tasks = append(tasks, pool.Submit(func() enriched {
			e := enriched{item: item}

			var about aboutResponse
			aboutURL := fmt.Sprintf("%s/companies/%s/about", d.base, item.Symbol)
			if err := httputil.GetJSON(ctx, d.client, aboutURL, d.cfg.UserAgent, d.policy, &about); err != nil {
				d.log.Debug("about fetch failed", zap.String("symbol", item.Symbol), zap.Error(err))
			} else {
				e.about = about.Data
			}

			var header headerResponse
			headerURL := fmt.Sprintf("%s/companies/%s/header", d.base, item.Symbol)
			if err := httputil.GetJSON(ctx, d.client, headerURL, d.cfg.UserAgent, d.policy, &header); err != nil {
				d.log.Debug("header fetch failed", zap.String("symbol", item.Symbol), zap.Error(err))
			} else {
				e.header = header.Data
			}
			return e
		}))
	}

	var companies []types.Company
	for _, task := range tasks {
		e, err := task.Wait()
		if err != nil {
			continue
		}

		score := ScoreDescription(e.about.Description)
		if score <= 0 {
			continue
		}

		name := e.header.DisplayName
		if name == "" {
			name = e.about.DisplayName
		}
		if name == "" {
			name = e.item.DisplayName
		}
		if name == "" {
			name = e.item.Symbol
		}

		companies = append(companies, types.Company{
			Symbol:      e.item.Symbol,
			Exchange:    d.cfg.Exchange,
			Name:        name,
			Website:     e.about.WebsiteURL,
			Sector:      "Mining",
			MiningScore: score,
			Active:      true,
		})
	}
	return companies
}

// deactivateMissing flips previously active symbols absent from the
// current run to inactive.
func (d *Discoverer) deactivateMissing(ctx context.Context, current []string) (int, error) {
	currentSet := make(map[string]bool, len(current))
	for _, sym := range current {
		currentSet[strings.ToUpper(sym)] = true
	}

	active, err := d.store.ListActiveSymbols(ctx, d.cfg.Exchange)
	if err != nil {
		return 0, fmt.Errorf("listing active symbols: %w", err)
	}

	var missing []string
	for _, sym := range active {
		if !currentSet[strings.ToUpper(sym)] {
			missing = append(missing, sym)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	n, err := d.store.Deactivate(ctx, d.cfg.Exchange, missing)
	if err != nil {
		return 0, fmt.Errorf("deactivating companies: %w", err)
	}
	return int(n), nil
}
