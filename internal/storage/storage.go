// Package storage provides on-disk persistence for run state.
//
// The workbook written by each job is the authoritative state between runs;
// storage additionally keeps the detail cache as a JSON file
// (detail_cache.json) in the data directory, and hands out dated paths for
// downloaded source workbooks. The process owns these files only for the
// duration of a single run.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmteo/gls-tracker/internal/detailcache"
)

const cacheFileName = "detail_cache.json"

// Storage manages files under the data directory.
type Storage struct {
	dataDir string
}

// New creates a Storage rooted at dataDir, creating it if needed. A leading
// ~/ is expanded to the user's home directory.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

// Dir returns the data directory path.
func (s *Storage) Dir() string {
	return s.dataDir
}

// LoadDetailCache loads the detail cache from disk, returning an empty cache
// when none exists yet.
func (s *Storage) LoadDetailCache(ttl time.Duration) (*detailcache.Cache, error) {
	path := filepath.Join(s.dataDir, cacheFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return detailcache.New(ttl), nil
		}
		return nil, fmt.Errorf("reading detail cache: %w", err)
	}

	cache := detailcache.New(ttl)
	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("parsing detail cache: %w", err)
	}
	return cache, nil
}

// SaveDetailCache writes the detail cache back to disk, dropping expired
// entries first.
func (s *Storage) SaveDetailCache(cache *detailcache.Cache) error {
	cache.CleanExpired()

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding detail cache: %w", err)
	}

	path := filepath.Join(s.dataDir, cacheFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing detail cache: %w", err)
	}
	return nil
}

// DatedDownloadPath returns the path for a source file downloaded on day t,
// e.g. <dataDir>/downloads/20260826_ura-vacant-sites.xlsx.
func (s *Storage) DatedDownloadPath(t time.Time, name string) string {
	return filepath.Join(s.dataDir, "downloads", t.Format("20060102")+"_"+name)
}
