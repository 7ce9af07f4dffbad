package workbook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmteo/gls-tracker/internal/site"
)

func keyByName(fields map[string]string) string {
	return site.KeyFor("", fields["Name"])
}

func sampleTable() *site.Table {
	table := site.NewTable([]string{"Name", "Status", "Price"})
	table.Merge([]site.Row{
		{Key: site.KeyFor("", "Marina Gardens Lane"), Fields: map[string]string{
			"Name": "Marina Gardens Lane", "Status": "Awarded", "Price": "$1,034,000,000",
		}},
		{Key: site.KeyFor("", "Woodlands Avenue 2"), Fields: map[string]string{
			"Name": "Woodlands Avenue 2", "Status": "Awarded", "Price": "",
		}},
	})
	return table
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sites.xlsx")
	want := sampleTable()

	if err := Write(path, []Sheet{{Name: "Awarded Sites", Table: want}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := ReadTable(path, "Awarded Sites", want.Headers, keyByName)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}

	if got.Len() != want.Len() {
		t.Fatalf("expected %d rows, got %d", want.Len(), got.Len())
	}
	for _, wantRow := range want.Rows() {
		gotRow, ok := got.Get(wantRow.Key)
		if !ok {
			t.Fatalf("row %q missing after round trip", wantRow.Fields["Name"])
		}
		if diff := cmp.Diff(wantRow.Fields, gotRow.Fields); diff != "" {
			t.Errorf("row %q mismatch (-want +got):\n%s", wantRow.Fields["Name"], diff)
		}
	}
}

func TestWriteMultipleSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.xlsx")
	awarded := sampleTable()
	vacant := site.NewTable([]string{"Name", "Status", "Price"})
	vacant.Merge([]site.Row{
		{Key: "v1", Fields: map[string]string{"Name": "Lentor Central", "Status": "", "Price": ""}},
	})

	err := Write(path, []Sheet{
		{Name: "Awarded Sites", Table: awarded},
		{Name: "Vacant Sites", Table: vacant},
	})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := ReadTable(path, "Vacant Sites", vacant.Headers, keyByName)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if got.Len() != 1 {
		t.Errorf("expected 1 vacant row, got %d", got.Len())
	}
}

func TestReadTableMissingFile(t *testing.T) {
	headers := []string{"Name", "Status"}
	got, err := ReadTable(filepath.Join(t.TempDir(), "absent.xlsx"), "Awarded Sites", headers, keyByName)
	if err != nil {
		t.Fatalf("ReadTable on missing file should not fail: %v", err)
	}
	if got.Len() != 0 {
		t.Errorf("expected empty table, got %d rows", got.Len())
	}
	if diff := cmp.Diff(headers, got.Headers); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestReadTableMissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.xlsx")
	if err := Write(path, []Sheet{{Name: "Awarded Sites", Table: sampleTable()}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := ReadTable(path, "Vacant Sites", []string{"Name"}, keyByName)
	if err != nil {
		t.Fatalf("ReadTable on missing sheet should not fail: %v", err)
	}
	if got.Len() != 0 {
		t.Errorf("expected empty table, got %d rows", got.Len())
	}
}

func TestReadTableKeepsExtraFileColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.xlsx")
	table := site.NewTable([]string{"Name", "Legacy Column"})
	table.Merge([]site.Row{
		{Key: "a", Fields: map[string]string{"Name": "Marina Gardens Lane", "Legacy Column": "kept"}},
	})
	if err := Write(path, []Sheet{{Name: "Awarded Sites", Table: table}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// Canonical schema no longer lists the legacy column; it must survive.
	got, err := ReadTable(path, "Awarded Sites", []string{"Name", "Status"}, keyByName)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Name", "Status", "Legacy Column"}, got.Headers); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
	row, ok := got.Get(site.KeyFor("", "Marina Gardens Lane"))
	if !ok {
		t.Fatal("expected row to survive")
	}
	if row.Fields["Legacy Column"] != "kept" {
		t.Errorf("legacy column value lost, got %q", row.Fields["Legacy Column"])
	}
}

func TestReadFirstSheetSkipsBannerRows(t *testing.T) {
	// Externally produced workbooks often carry a title row above the
	// header row; simulate one by writing a single-column banner table.
	path := filepath.Join(t.TempDir(), "published.xlsx")
	table := site.NewTable([]string{"Location", "Date of Launch"})
	table.Merge([]site.Row{
		{Key: "a", Fields: map[string]string{"Location": "Lentor Central", "Date of Launch": "15 Jun 2025"}},
	})
	if err := Write(path, []Sheet{{Name: "Sheet1", Table: table}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := ReadFirstSheet(path, []string{"Location", "Date of Launch"}, site.VacantRowKey)
	if err != nil {
		t.Fatalf("ReadFirstSheet failed: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", got.Len())
	}
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sites.xlsx")
	if err := Write(path, []Sheet{{Name: "Awarded Sites", Table: sampleTable()}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not remain after write")
	}
}
