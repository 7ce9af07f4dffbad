package scraper

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmteo/gls-tracker/internal/logger"
	"github.com/jmteo/gls-tracker/internal/site"
)

// listing table column roles, resolved from header text
type columnMap struct {
	no, location, area, ratio, status int
}

func newColumnMap() columnMap {
	return columnMap{no: -1, location: -1, area: -1, ratio: -1, status: -1}
}

// ParseListing extracts site records from the listing page HTML. The page
// may carry several tables; the first one whose headers include "No" and
// "Location" is used. Rows missing a location (category banners, spacer
// rows) are skipped with a warning. Returns an error only when the HTML
// itself cannot be parsed or no sites table is present.
func ParseListing(r io.Reader, pageURL string) ([]site.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing page URL: %w", err)
	}

	seenAt := time.Now().UTC()
	var listings []site.Listing
	found := false

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		headers := tableHeaders(table)
		cols := resolveColumns(headers)
		if cols.location < 0 || cols.no < 0 {
			return true // not the sites table, keep looking
		}
		found = true

		// The HTML5 parser inserts an implicit tbody, so tables without a
		// thead still need their first (header) row dropped.
		rows := table.Find("tbody tr")
		if rows.Length() == 0 {
			rows = table.Find("tr")
		}
		if table.Find("thead").Length() == 0 && rows.Length() > 0 {
			rows = rows.Slice(1, goquery.ToEnd)
		}

		rows.Each(func(i int, row *goquery.Selection) {
			l, ok := parseRow(row, cols, base, seenAt)
			if !ok {
				return
			}
			listings = append(listings, l)
		})
		return false
	})

	if !found {
		return nil, fmt.Errorf("no sites table found on page")
	}
	return listings, nil
}

// tableHeaders returns lowercased header texts from thead cells, falling
// back to the first row when the table has no thead.
func tableHeaders(table *goquery.Selection) []string {
	var headers []string
	cells := table.Find("thead th")
	if cells.Length() == 0 {
		cells = table.Find("tr").First().Find("th, td")
	}
	cells.Each(func(_ int, c *goquery.Selection) {
		headers = append(headers, strings.ToLower(clean(c.Text())))
	})
	return headers
}

func resolveColumns(headers []string) columnMap {
	cols := newColumnMap()
	for i, h := range headers {
		switch {
		case h == "no" || h == "no.":
			cols.no = i
		case strings.Contains(h, "location"):
			cols.location = i
		case strings.Contains(h, "site area") || strings.Contains(h, "area"):
			cols.area = i
		case strings.Contains(h, "plot ratio"):
			cols.ratio = i
		case strings.Contains(h, "status"):
			cols.status = i
		}
	}
	return cols
}

func parseRow(row *goquery.Selection, cols columnMap, base *url.URL, seenAt time.Time) (site.Listing, bool) {
	cells := row.Find("td")

	// Category banner rows span the full table width in a single cell.
	if cells.Length() == 1 {
		if _, ok := cells.Attr("colspan"); ok {
			logger.Debug("skipping category row", logger.Fields{"text": clean(cells.Text())})
			return site.Listing{}, false
		}
	}
	if cells.Length() < 3 {
		return site.Listing{}, false
	}

	cellText := func(i int) string {
		if i < 0 || i >= cells.Length() {
			return ""
		}
		return clean(cells.Eq(i).Text())
	}

	name := cellText(cols.location)
	if name == "" {
		logger.Warn("skipping listing row without location", logger.Fields{
			"cells": cells.Length(),
		})
		logger.Incr("listing.rows_skipped")
		return site.Listing{}, false
	}

	statusText := cellText(cols.status)
	l := site.Listing{
		No:         cellText(cols.no),
		Name:       name,
		SiteArea:   cellText(cols.area),
		PlotRatio:  cellText(cols.ratio),
		Status:     site.NormalizeStatus(statusText),
		StatusText: statusText,
		SeenAt:     seenAt,
	}

	// Detail link sits inside the location cell when present.
	if cols.location >= 0 && cols.location < cells.Length() {
		if href, ok := cells.Eq(cols.location).Find("a").First().Attr("href"); ok {
			l.DetailURL = absoluteURL(base, href)
		}
	}

	return l, true
}

// absoluteURL resolves href against the listing page URL.
func absoluteURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		logger.Warn("unparseable detail link", logger.Fields{"href": href})
		return ""
	}
	return base.ResolveReference(ref).String()
}

// clean collapses internal whitespace and trims the result.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
