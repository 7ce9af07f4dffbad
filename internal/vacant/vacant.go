// Package vacant runs the vacant-sites job: download the published
// vacant-sites workbook, merge its rows into the local workbook by stable
// key, and report entries not seen before.
package vacant

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmteo/gls-tracker/internal/config"
	"github.com/jmteo/gls-tracker/internal/fetch"
	"github.com/jmteo/gls-tracker/internal/logger"
	"github.com/jmteo/gls-tracker/internal/site"
	"github.com/jmteo/gls-tracker/internal/storage"
	"github.com/jmteo/gls-tracker/internal/workbook"
)

// SheetVacant is the workbook sheet holding vacant-site rows.
const SheetVacant = "Vacant Sites"

// Report summarizes one vacant-sites run.
type Report struct {
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   time.Time  `json:"finished_at"`
	SourceRows   int        `json:"source_rows"`
	NewEntries   []site.Row `json:"new_entries"`
	UpdatedCount int        `json:"updated_count"`
	TotalRows    int        `json:"total_rows"`
	Downloaded   bool       `json:"downloaded"`
}

// Runner wires the vacant-sites pipeline for one invocation.
type Runner struct {
	cfg     config.Config
	fetcher *fetch.Client
	store   *storage.Storage

	// injectable for tests
	now func() time.Time
}

// New creates a Runner.
func New(cfg config.Config, fetcher *fetch.Client) (*Runner, error) {
	store, err := storage.New(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return &Runner{
		cfg:     cfg,
		fetcher: fetcher,
		store:   store,
		now:     time.Now,
	}, nil
}

// Run executes the pipeline once. Both a download failure and a workbook
// write failure are fatal: without the source file there is nothing to
// merge, and a failed write must flag the scheduled run.
func (r *Runner) Run() (*Report, error) {
	report := &Report{StartedAt: r.now().UTC()}

	logger.Info("starting vacant-sites run", logger.Fields{
		"source_url": r.cfg.Sources.VacantFileURL,
	})

	srcPath, downloaded, err := r.download()
	if err != nil {
		return nil, fmt.Errorf("downloading vacant-sites file: %w", err)
	}
	report.Downloaded = downloaded

	source, err := workbook.ReadFirstSheet(srcPath, site.VacantHeaders, site.VacantRowKey)
	if err != nil {
		return nil, fmt.Errorf("reading vacant-sites file: %w", err)
	}
	report.SourceRows = source.Len()
	logger.Info("read vacant-sites file", logger.Fields{"rows": source.Len(), "path": srcPath})

	table, err := workbook.ReadTable(r.cfg.Storage.VacantPath, SheetVacant, source.Headers, site.VacantRowKey)
	if err != nil {
		return nil, fmt.Errorf("loading existing workbook: %w", err)
	}

	stats := table.Merge(source.Rows())
	report.UpdatedCount = stats.Updated
	report.TotalRows = table.Len()

	if err := workbook.Write(r.cfg.Storage.VacantPath, []workbook.Sheet{
		{Name: SheetVacant, Table: table},
	}); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	logger.Info("workbook written", logger.Fields{
		"path":    r.cfg.Storage.VacantPath,
		"rows":    table.Len(),
		"added":   stats.Added,
		"updated": stats.Updated,
	})

	for _, key := range stats.NewKeys {
		if row, ok := table.Get(key); ok {
			report.NewEntries = append(report.NewEntries, row)
		}
	}

	report.FinishedAt = r.now().UTC()
	return report, nil
}

// download fetches today's copy of the published workbook into the data
// directory, skipping the download when today's file is already present.
func (r *Runner) download() (string, bool, error) {
	name := filepath.Base(r.cfg.Sources.VacantFileURL)
	if name == "" || name == "." || name == "/" {
		name = "vacant-sites.xlsx"
	}
	dest := r.store.DatedDownloadPath(r.now(), name)

	if _, err := os.Stat(dest); err == nil {
		logger.Info("today's file already downloaded", logger.Fields{"path": dest})
		return dest, false, nil
	}

	if err := r.fetcher.Download(r.cfg.Sources.VacantFileURL, dest); err != nil {
		return "", false, err
	}
	return dest, true, nil
}
