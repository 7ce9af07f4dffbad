package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmteo/gls-tracker/internal/logger"
	"github.com/jmteo/gls-tracker/internal/site"
)

// detailField binds a labeled value on the detail page to a Detail field.
// Labels are matched case-insensitively as prefixes so trailing units or
// footnote markers ("Site Area (m2)*") still match.
type detailField struct {
	name   string
	labels []string
	assign func(*site.Detail, string)
}

var detailFields = []detailField{
	{"location", []string{"location"}, func(d *site.Detail, v string) { d.Location = v }},
	{"tenure", []string{"tenure", "lease (years)", "lease period"}, func(d *site.Detail, v string) { d.Tenure = v }},
	{"site_area", []string{"site area"}, func(d *site.Detail, v string) { d.SiteArea = v }},
	{"type_of_development", []string{"type of development allowed", "allowable development"}, func(d *site.Detail, v string) { d.TypeOfDevelopment = v }},
	{"plot_ratio", []string{"gross plot ratio", "maximum gross floor area"}, func(d *site.Detail, v string) { d.PlotRatio = v }},
	{"launch_date", []string{"date of launch"}, func(d *site.Detail, v string) { d.LaunchDate = v }},
	{"tender_closing_date", []string{"date of tender closing", "tender closing date"}, func(d *site.Detail, v string) { d.TenderClosingDate = v }},
	{"award_date", []string{"date of award"}, func(d *site.Detail, v string) { d.AwardDate = v }},
	{"tenderer", []string{"name of successful tenderer", "successful tenderer"}, func(d *site.Detail, v string) { d.Tenderer = v }},
	{"tender_price", []string{"successful tender price", "tendered price"}, func(d *site.Detail, v string) { d.TenderPrice = v }},
}

// ParseDetail extracts the fixed detail field set from a project page. Each
// field lookup is independent: a missed label leaves that field empty and is
// logged at debug level, and the record is still returned. Returns an error
// only when the HTML itself cannot be parsed.
func ParseDetail(r io.Reader) (site.Detail, error) {
	var d site.Detail

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return d, fmt.Errorf("parsing HTML: %w", err)
	}

	for _, f := range detailFields {
		v := ""
		for _, label := range f.labels {
			if v = labeledValue(doc, label); v != "" {
				break
			}
		}
		if v == "" {
			logger.Debug("detail field not found", logger.Fields{"field": f.name})
			continue
		}
		f.assign(&d, v)
	}

	return d, nil
}

// labeledValue finds the value cell adjacent to a label. The detail pages
// render fields either as two-column table rows or as dt/dd pairs; both
// shapes are tried.
func labeledValue(doc *goquery.Document, label string) string {
	label = strings.ToLower(label)
	value := ""

	doc.Find("table tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return true
		}
		if !labelMatches(cells.First().Text(), label) {
			return true
		}
		value = clean(cells.Eq(1).Text())
		return value == ""
	})
	if value != "" {
		return value
	}

	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !labelMatches(dt.Text(), label) {
			return true
		}
		value = clean(dt.NextFiltered("dd").Text())
		return value == ""
	})

	return value
}

func labelMatches(text, label string) bool {
	return strings.HasPrefix(strings.ToLower(clean(text)), label)
}
