package site

import "strings"

// VacantHeaders is the column order of the "Vacant Sites" sheet. It mirrors
// the published workbook's columns; unknown source columns are carried
// through by the vacant job when present.
var VacantHeaders = []string{
	ColLocation,
	ColDevType,
	"Lease (years)",
	"Site Area (m2)",
	ColLaunchDate,
	ColClosingDate,
	ColAwardDate,
	ColTenderer,
	ColTenderPrice,
}

// VacantRowKey derives a stable key for a vacant-site row. The published
// workbook carries no URL or code, so the key combines the normalized
// location with the launch date: the same parcel can be launched more than
// once across the years.
func VacantRowKey(fields map[string]string) string {
	loc := normalizeName(fields[ColLocation])
	launch := strings.TrimSpace(fields[ColLaunchDate])
	return hashKey("vacant|" + loc + "|" + launch)
}
