package site

import (
	"strings"
	"time"
)

// dateLayouts covers the formats observed on the listing source and in the
// published workbook, in order of likelihood.
var dateLayouts = []string{
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
	"02-01-2006",
	"2006-01-02 15:04:05",
}

// ParseDate attempts to parse date text scraped from the source into a
// time.Time. Returns time.Time{} (zero value) if parsing fails.
func ParseDate(text string) time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}

	// Could not parse, return zero time
	return time.Time{}
}
