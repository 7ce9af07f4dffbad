package site

import "time"

// Detail holds the fixed field set extracted from a project detail page.
// Every field is best-effort: a missed selector leaves it empty rather than
// failing the record. A Detail is immutable once extracted for a run.
type Detail struct {
	Location          string `json:"location"`
	Tenure            string `json:"tenure"`
	SiteArea          string `json:"site_area"`
	TypeOfDevelopment string `json:"type_of_development"`
	PlotRatio         string `json:"plot_ratio"`
	LaunchDate        string `json:"launch_date"`
	TenderClosingDate string `json:"tender_closing_date"`
	AwardDate         string `json:"award_date"`
	Tenderer          string `json:"tenderer"`
	TenderPrice       string `json:"tender_price"`
}

// AwardTime parses the award date text. Returns the zero time if the text
// is empty or unparseable.
func (d *Detail) AwardTime() time.Time {
	return ParseDate(d.AwardDate)
}

// Awarded pairs a listing row with its extracted detail fields. It is the
// unit passed to notifiers when a site is newly awarded.
type Awarded struct {
	Listing Listing
	Detail  Detail
}

// Canonical column headers for the "Awarded Sites" sheet. Merge keys are
// recomputed from the Link and Location columns when a workbook is reloaded.
const (
	ColNo          = "No"
	ColLocation    = "Location"
	ColSiteArea    = "Site Area (Ha)"
	ColPlotRatio   = "Gross Plot Ratio"
	ColStatus      = "Status"
	ColLink        = "Link"
	ColTenure      = "Tenure"
	ColDevType     = "Type of Development Allowed"
	ColLaunchDate  = "Date of Launch"
	ColClosingDate = "Date of Tender Closing"
	ColAwardDate   = "Date of Award"
	ColTenderer    = "Name of Successful Tenderer"
	ColTenderPrice = "Successful Tender Price"
	ColLastScraped = "Last Scraped"
)

// AwardedHeaders is the column order of the "Awarded Sites" sheet.
var AwardedHeaders = []string{
	ColNo, ColLocation, ColSiteArea, ColPlotRatio, ColStatus, ColLink,
	ColTenure, ColDevType, ColLaunchDate, ColClosingDate, ColAwardDate,
	ColTenderer, ColTenderPrice, ColLastScraped,
}

// Row flattens an awarded site into a keyed table row.
func (a *Awarded) Row() Row {
	return Row{
		Key: a.Listing.Key(),
		Fields: map[string]string{
			ColNo:          a.Listing.No,
			ColLocation:    a.Listing.Name,
			ColSiteArea:    a.Listing.SiteArea,
			ColPlotRatio:   a.Listing.PlotRatio,
			ColStatus:      string(a.Listing.Status),
			ColLink:        a.Listing.DetailURL,
			ColTenure:      a.Detail.Tenure,
			ColDevType:     a.Detail.TypeOfDevelopment,
			ColLaunchDate:  a.Detail.LaunchDate,
			ColClosingDate: a.Detail.TenderClosingDate,
			ColAwardDate:   a.Detail.AwardDate,
			ColTenderer:    a.Detail.Tenderer,
			ColTenderPrice: a.Detail.TenderPrice,
			ColLastScraped: a.Listing.SeenAt.UTC().Format("2006-01-02 15:04:05"),
		},
	}
}

// AwardedRowKey recomputes the stable key for a row loaded from the
// workbook, using the same derivation as live listings.
func AwardedRowKey(fields map[string]string) string {
	return KeyFor(fields[ColLink], fields[ColLocation])
}
