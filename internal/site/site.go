// Package site provides types and functions for tracked land-sale sites.
//
// The site package handles listing records, per-project details, status
// normalization, and table merging across runs. Each site is assigned a
// deterministic SHA1-based key, preferably derived from its detail-page URL
// path so the key survives cosmetic renames of the site, enabling reliable
// tracking across runs.
package site

import (
	"crypto/sha1"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Status classifies a site's tender state on the listing page.
type Status string

const (
	StatusAwarded    Status = "Awarded"
	StatusNotAwarded Status = "Not Awarded"
	StatusUnknown    Status = "Unknown"
)

// NormalizeStatus maps raw status-cell text to a Status via case-insensitive
// substring match. "Not Awarded" is checked first so it doesn't match the
// bare "awarded" substring.
func NormalizeStatus(text string) Status {
	s := strings.ToLower(strings.TrimSpace(text))
	switch {
	case s == "":
		return StatusUnknown
	case strings.Contains(s, "not awarded"):
		return StatusNotAwarded
	case strings.Contains(s, "awarded"):
		return StatusAwarded
	default:
		return StatusUnknown
	}
}

// Listing represents one row of the GLS listing page. Listings are ephemeral;
// only their merged form is persisted.
type Listing struct {
	No         string    `json:"no"`
	Name       string    `json:"name"`
	SiteArea   string    `json:"site_area"`
	PlotRatio  string    `json:"plot_ratio"`
	Status     Status    `json:"status"`
	StatusText string    `json:"status_text"`
	DetailURL  string    `json:"detail_url"`
	SeenAt     time.Time `json:"seen_at"`
}

// Key returns the stable identifier for this listing.
func (l *Listing) Key() string {
	return KeyFor(l.DetailURL, l.Name)
}

// KeyFor derives a stable key from a detail URL and a site name. The URL
// path is preferred: it is assigned by the source and survives renames of
// the free-text location. The normalized name is the fallback for rows
// without a detail link.
func KeyFor(detailURL, name string) string {
	if detailURL != "" {
		if u, err := url.Parse(detailURL); err == nil && u.Path != "" {
			return hashKey("url|" + strings.ToLower(strings.TrimRight(u.Path, "/")))
		}
	}
	return hashKey("name|" + normalizeName(name))
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func hashKey(s string) string {
	h := sha1.New()
	h.Write([]byte(s))
	return fmt.Sprintf("%x", h.Sum(nil))
}
