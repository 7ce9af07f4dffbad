// Package workbook renders site tables to .xlsx files and loads them back.
//
// The workbook is the only state carried between runs, so writes are atomic:
// the file is saved to a temp path in the same directory and renamed over
// the destination. Formatting is limited to header styling and column
// sizing; everything else in the file is plain cell values.
package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jmteo/gls-tracker/internal/site"
)

// Sheet pairs a sheet name with the table it renders.
type Sheet struct {
	Name  string
	Table *site.Table
}

const (
	headerFillColor = "4F81BD"
	maxColumnWidth  = 50
	maxSheetName    = 31
)

// Write renders the sheets to path atomically, replacing any existing file.
func Write(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		name := cleanSheetName(sheet.Name)
		if i == 0 {
			// Rename the default sheet instead of leaving it empty.
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("naming sheet %q: %w", name, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("creating sheet %q: %w", name, err)
			}
		}
		if err := writeSheet(f, name, sheet.Table); err != nil {
			return fmt.Errorf("writing sheet %q: %w", name, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	// SaveAs rejects the .tmp extension, so serialize to the temp file
	// directly.
	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	if _, err := f.WriteTo(out); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("saving workbook: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("saving workbook: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, table *site.Table) error {
	widths := make([]int, len(table.Headers))

	for col, h := range table.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
		widths[col] = len(h)
	}

	for rowIdx, cells := range table.Cells() {
		for col, v := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return err
			}
			if len(v) > widths[col] {
				widths[col] = len(v)
			}
		}
	}

	if err := styleHeader(f, name, len(table.Headers)); err != nil {
		return err
	}

	for col, w := range widths {
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		width := float64(w + 2)
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(name, colName, colName, width); err != nil {
			return err
		}
	}
	return nil
}

func styleHeader(f *excelize.File, name string, cols int) error {
	if cols == 0 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(name, "A1", end, style)
}

// ReadTable loads one sheet back into a table. A missing file or missing
// sheet yields an empty table with the given canonical headers. Columns
// present in the file but not in the canonical set are preserved after it.
// Row keys are recomputed with keyFn, so the workbook itself never stores
// key material.
func ReadTable(path, sheetName string, headers []string, keyFn func(map[string]string) string) (*site.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return site.NewTable(headers), nil
		}
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(cleanSheetName(sheetName))
	if err != nil {
		// Sheet absent: first run for this job against an existing file.
		return site.NewTable(headers), nil
	}
	return tableFromRows(rows, headers, keyFn), nil
}

// ReadFirstSheet loads the first sheet of an externally produced workbook,
// such as the published vacant-sites file.
func ReadFirstSheet(path string, headers []string, keyFn func(map[string]string) string) (*site.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return tableFromRows(rows, headers, keyFn), nil
}

func tableFromRows(rows [][]string, headers []string, keyFn func(map[string]string) string) *site.Table {
	// Skip leading banner rows: the header row is the first one with more
	// than one non-empty cell.
	start := 0
	for start < len(rows) && nonEmpty(rows[start]) < 2 {
		start++
	}
	if start >= len(rows) {
		return site.NewTable(headers)
	}

	fileHeaders := make([]string, 0, len(rows[start]))
	for _, h := range rows[start] {
		fileHeaders = append(fileHeaders, strings.TrimSpace(h))
	}

	table := site.NewTable(mergeHeaders(headers, fileHeaders))
	for _, cells := range rows[start+1:] {
		if nonEmpty(cells) == 0 {
			continue
		}
		// GetRows trims trailing empty cells, so default every known
		// column to "" before filling.
		fields := make(map[string]string, len(fileHeaders))
		for i, h := range fileHeaders {
			if h == "" {
				continue
			}
			fields[h] = ""
			if i < len(cells) {
				fields[h] = strings.TrimSpace(cells[i])
			}
		}
		table.Append(site.Row{Key: keyFn(fields), Fields: fields})
	}
	return table
}

// mergeHeaders keeps the canonical column order and appends any extra
// columns found in the file.
func mergeHeaders(canonical, file []string) []string {
	out := append([]string(nil), canonical...)
	known := make(map[string]bool, len(canonical))
	for _, h := range canonical {
		known[h] = true
	}
	for _, h := range file {
		if h != "" && !known[h] {
			known[h] = true
			out = append(out, h)
		}
	}
	return out
}

func nonEmpty(cells []string) int {
	n := 0
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}

// cleanSheetName replaces characters Excel rejects in sheet names and
// enforces the 31-character limit.
func cleanSheetName(name string) string {
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	name = replacer.Replace(name)
	if len(name) > maxSheetName {
		name = name[:maxSheetName-3] + "..."
	}
	return name
}
