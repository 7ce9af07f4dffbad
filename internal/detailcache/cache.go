// Package detailcache caches extracted project details between runs.
//
// Detail fields for an awarded site are effectively immutable once the
// tender is decided, so re-fetching every detail page on every scheduled
// run only loads the source for no gain. Entries are keyed by detail URL
// and expire after a TTL so occasional corrections on the source do get
// picked up.
package detailcache

import (
	"time"

	"github.com/jmteo/gls-tracker/internal/site"
)

// DefaultTTL is applied when a cache is created or loaded without one.
const DefaultTTL = 30 * 24 * time.Hour

// Cache manages cached project details with TTL.
type Cache struct {
	Details  map[string]*site.Detail `json:"details"`   // detail URL → detail
	CachedAt map[string]time.Time    `json:"cached_at"` // detail URL → cache time
	TTL      time.Duration           `json:"-"`         // not serialized

	// injectable for tests
	now func() time.Time
}

// New creates an empty cache.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		Details:  make(map[string]*site.Detail),
		CachedAt: make(map[string]time.Time),
		TTL:      ttl,
		now:      time.Now,
	}
}

// Get retrieves a detail from cache if not expired. Returns nil on a miss;
// expired entries are removed on access.
func (c *Cache) Get(detailURL string) *site.Detail {
	d, exists := c.Details[detailURL]
	if !exists {
		return nil
	}

	cachedTime, hasTime := c.CachedAt[detailURL]
	if !hasTime || c.clock().Sub(cachedTime) > c.TTL {
		delete(c.Details, detailURL)
		delete(c.CachedAt, detailURL)
		return nil
	}

	return d
}

// Set stores a detail in the cache.
func (c *Cache) Set(detailURL string, d *site.Detail) {
	c.Details[detailURL] = d
	c.CachedAt[detailURL] = c.clock()
}

// CleanExpired removes expired entries and returns how many were dropped.
func (c *Cache) CleanExpired() int {
	removed := 0
	now := c.clock()
	for url, cachedTime := range c.CachedAt {
		if now.Sub(cachedTime) > c.TTL {
			delete(c.Details, url)
			delete(c.CachedAt, url)
			removed++
		}
	}
	return removed
}

// Size returns the number of cached entries.
func (c *Cache) Size() int {
	return len(c.Details)
}

func (c *Cache) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}
