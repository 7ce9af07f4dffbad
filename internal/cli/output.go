package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jmteo/gls-tracker/internal/site"
	"github.com/jmteo/gls-tracker/internal/tracker"
	"github.com/jmteo/gls-tracker/internal/vacant"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteTrackerReport writes an awarded-sites run report in the given format.
func WriteTrackerReport(w io.Writer, report *tracker.Report, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, report)
	}

	fmt.Fprintf(w, "Listing rows: %d (awarded: %d)\n", report.ListingCount, report.AwardedCount)
	fmt.Fprintf(w, "Enriched: %d (cache hits: %d), skipped: %d\n",
		report.EnrichedCount, report.CacheHits, report.SkippedCount)
	fmt.Fprintf(w, "Workbook rows: %d\n", report.TotalRows)

	if len(report.NewAwards) == 0 {
		fmt.Fprintln(w, "No newly awarded sites.")
		return nil
	}

	fmt.Fprintf(w, "\nNewly awarded (%d):\n", len(report.NewAwards))
	for _, a := range report.NewAwards {
		fmt.Fprintf(w, "  NEW: %s", a.Listing.Name)
		if a.Detail.Tenderer != "" {
			fmt.Fprintf(w, " - %s", a.Detail.Tenderer)
		}
		if a.Detail.AwardDate != "" {
			fmt.Fprintf(w, " (%s)", a.Detail.AwardDate)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// WriteVacantReport writes a vacant-sites run report in the given format.
func WriteVacantReport(w io.Writer, report *vacant.Report, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, report)
	}

	fmt.Fprintf(w, "Source rows: %d (downloaded: %v)\n", report.SourceRows, report.Downloaded)
	fmt.Fprintf(w, "Workbook rows: %d (updated: %d)\n", report.TotalRows, report.UpdatedCount)

	if len(report.NewEntries) == 0 {
		fmt.Fprintln(w, "No new entries found.")
		return nil
	}

	fmt.Fprintf(w, "\nNew entries (%d):\n", len(report.NewEntries))
	for _, row := range report.NewEntries {
		fmt.Fprintf(w, "  NEW: %s", row.Fields[site.ColLocation])
		if launch := row.Fields[site.ColLaunchDate]; launch != "" {
			fmt.Fprintf(w, " (launched %s)", launch)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// writeJSON outputs a report as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
