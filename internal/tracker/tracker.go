// Package tracker runs the awarded-sites job: fetch the GLS listing page,
// enrich awarded sites from their detail pages, merge into the persisted
// workbook, and announce new awards.
package tracker

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jmteo/gls-tracker/internal/config"
	"github.com/jmteo/gls-tracker/internal/detailcache"
	"github.com/jmteo/gls-tracker/internal/fetch"
	"github.com/jmteo/gls-tracker/internal/logger"
	"github.com/jmteo/gls-tracker/internal/notifier"
	"github.com/jmteo/gls-tracker/internal/scraper"
	"github.com/jmteo/gls-tracker/internal/site"
	"github.com/jmteo/gls-tracker/internal/storage"
	"github.com/jmteo/gls-tracker/internal/workbook"
)

// SheetAwarded is the workbook sheet holding awarded-site rows.
const SheetAwarded = "Awarded Sites"

// Report summarizes one tracker run.
type Report struct {
	StartedAt     time.Time      `json:"started_at"`
	FinishedAt    time.Time      `json:"finished_at"`
	ListingCount  int            `json:"listing_count"`
	AwardedCount  int            `json:"awarded_count"`
	EnrichedCount int            `json:"enriched_count"`
	CacheHits     int            `json:"cache_hits"`
	SkippedCount  int            `json:"skipped_count"`
	TotalRows     int            `json:"total_rows"`
	NewAwards     []site.Awarded `json:"new_awards"`
}

// Runner wires the pipeline for one invocation. No Runner state survives a
// run; everything persistent lives in the data directory.
type Runner struct {
	cfg      config.Config
	fetcher  *fetch.Client
	notifier notifier.Notifier
	store    *storage.Storage
}

// New creates a Runner. notify may be nil to disable announcements.
func New(cfg config.Config, fetcher *fetch.Client, notify notifier.Notifier) (*Runner, error) {
	store, err := storage.New(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return &Runner{
		cfg:      cfg,
		fetcher:  fetcher,
		notifier: notify,
		store:    store,
	}, nil
}

// Run executes the pipeline once. A listing-page failure or a workbook
// write failure is returned as an error; per-site detail failures degrade
// to skipped records and are reflected in the report.
func (r *Runner) Run() (*Report, error) {
	report := &Report{StartedAt: time.Now().UTC()}

	logger.Info("starting awarded-sites run", logger.Fields{
		"listing_url": r.cfg.Sources.ListingURL,
	})

	body, err := r.fetcher.Get(r.cfg.Sources.ListingURL)
	if err != nil {
		// Nothing to process without the listing page.
		return nil, fmt.Errorf("fetching listing page: %w", err)
	}

	listings, err := scraper.ParseListing(bytes.NewReader(body), r.cfg.Sources.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("parsing listing page: %w", err)
	}
	report.ListingCount = len(listings)
	logger.Info("parsed listing page", logger.Fields{"sites": len(listings)})

	cache, err := r.store.LoadDetailCache(r.cfg.Cache.TTL)
	if err != nil {
		logger.Warn("detail cache unreadable, starting fresh", logger.Fields{"error": err.Error()})
		cache = detailcache.New(r.cfg.Cache.TTL)
	}

	awards := r.enrich(listings, cache, report)

	table, err := workbook.ReadTable(r.cfg.Storage.WorkbookPath, SheetAwarded, site.AwardedHeaders, site.AwardedRowKey)
	if err != nil {
		return nil, fmt.Errorf("loading existing workbook: %w", err)
	}

	rows := make([]site.Row, 0, len(awards))
	for i := range awards {
		rows = append(rows, awards[i].Row())
	}
	stats := table.Merge(rows)
	report.TotalRows = table.Len()

	if err := workbook.Write(r.cfg.Storage.WorkbookPath, []workbook.Sheet{
		{Name: SheetAwarded, Table: table},
	}); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	logger.Info("workbook written", logger.Fields{
		"path":    r.cfg.Storage.WorkbookPath,
		"rows":    table.Len(),
		"added":   stats.Added,
		"updated": stats.Updated,
	})

	if err := r.store.SaveDetailCache(cache); err != nil {
		logger.Warn("saving detail cache failed", logger.Fields{"error": err.Error()})
	}

	report.NewAwards = newAwards(awards, stats.NewKeys)
	r.announce(report.NewAwards)

	report.FinishedAt = time.Now().UTC()
	return report, nil
}

// enrich fetches detail fields for each awarded listing, consulting the
// cache first. A detail fetch that fails after retries skips that record
// only.
func (r *Runner) enrich(listings []site.Listing, cache cacheLookup, report *Report) []site.Awarded {
	var awards []site.Awarded

	for _, l := range listings {
		if l.Status != site.StatusAwarded {
			continue
		}
		report.AwardedCount++

		if l.DetailURL == "" {
			logger.Warn("awarded site has no detail link", logger.Fields{"site": l.Name})
			awards = append(awards, site.Awarded{Listing: l})
			continue
		}

		if d := cache.Get(l.DetailURL); d != nil {
			report.CacheHits++
			report.EnrichedCount++
			awards = append(awards, site.Awarded{Listing: l, Detail: *d})
			continue
		}

		body, err := r.fetcher.Get(l.DetailURL)
		if err != nil {
			logger.Error("detail fetch failed, skipping site", logger.Fields{
				"site": l.Name,
				"url":  l.DetailURL,
			}, err)
			report.SkippedCount++
			continue
		}

		detail, err := scraper.ParseDetail(bytes.NewReader(body))
		if err != nil {
			logger.Error("detail parse failed, skipping site", logger.Fields{
				"site": l.Name,
				"url":  l.DetailURL,
			}, err)
			report.SkippedCount++
			continue
		}

		cache.Set(l.DetailURL, &detail)
		report.EnrichedCount++
		awards = append(awards, site.Awarded{Listing: l, Detail: detail})
	}

	return awards
}

func (r *Runner) announce(awards []site.Awarded) {
	if r.notifier == nil || len(awards) == 0 {
		return
	}
	if max := r.cfg.Notify.MaxPost; max > 0 && len(awards) > max {
		awards = awards[:max]
	}
	if err := r.notifier.Notify(awards); err != nil {
		logger.Error("announcing new awards failed", logger.Fields{
			"count": len(awards),
		}, err)
	}
}

func newAwards(awards []site.Awarded, newKeys []string) []site.Awarded {
	isNew := make(map[string]bool, len(newKeys))
	for _, k := range newKeys {
		isNew[k] = true
	}
	var out []site.Awarded
	for _, a := range awards {
		if isNew[a.Listing.Key()] {
			out = append(out, a)
		}
	}
	return out
}

// cacheLookup is the slice of the detail cache the runner needs.
type cacheLookup interface {
	Get(detailURL string) *site.Detail
	Set(detailURL string, d *site.Detail)
}
