// Package scraper parses the GLS listing page and per-project detail pages.
//
// The listing parser locates the sites table by its headers and extracts one
// record per row; malformed rows are skipped with a warning rather than
// failing the page. The detail parser looks up a fixed set of labeled fields
// and falls back to an empty value per field when the page structure drifts.
// Selectors are concentrated here so markup changes on the source site stay
// localized and can be exercised against saved fixture pages.
package scraper
