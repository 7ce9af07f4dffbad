package site

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func row(key string, field, value string) Row {
	return Row{Key: key, Fields: map[string]string{field: value}}
}

func tableRows(t *Table) []Row {
	return t.Rows()
}

func TestMergeAppendsNewRows(t *testing.T) {
	table := NewTable([]string{"field"})
	stats := table.Merge([]Row{row("a", "field", "1"), row("b", "field", "2")})

	if stats.Added != 2 || stats.Updated != 0 {
		t.Errorf("expected 2 added, got %+v", stats)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
	if diff := cmp.Diff([]string{"a", "b"}, stats.NewKeys); diff != "" {
		t.Errorf("new keys mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeOverwritesNotDuplicates(t *testing.T) {
	table := NewTable([]string{"field"})
	table.Merge([]Row{row("a", "field", "1")})
	stats := table.Merge([]Row{row("a", "field", "2")})

	if stats.Added != 0 || stats.Updated != 1 {
		t.Errorf("expected 1 updated, got %+v", stats)
	}
	if table.Len() != 1 {
		t.Fatalf("expected exactly one row with key 'a', got %d rows", table.Len())
	}
	got, _ := table.Get("a")
	if got.Fields["field"] != "2" {
		t.Errorf("expected field overwritten to '2', got %q", got.Fields["field"])
	}
}

func TestMergeEmptyInputIsIdentity(t *testing.T) {
	table := NewTable([]string{"field"})
	table.Merge([]Row{row("a", "field", "1"), row("b", "field", "2")})

	before := table.Clone()
	stats := table.Merge(nil)

	if stats.Added != 0 || stats.Updated != 0 {
		t.Errorf("expected no changes, got %+v", stats)
	}
	if diff := cmp.Diff(tableRows(before), tableRows(table)); diff != "" {
		t.Errorf("merge with empty input changed the table (-want +got):\n%s", diff)
	}
}

func TestMergeIdempotent(t *testing.T) {
	updates := []Row{row("a", "field", "9"), row("c", "field", "3")}

	table := NewTable([]string{"field"})
	table.Merge([]Row{row("a", "field", "1"), row("b", "field", "2")})

	table.Merge(updates)
	once := table.Clone()
	stats := table.Merge(updates)

	if stats.Added != 0 {
		t.Errorf("second merge should add nothing, got %+v", stats)
	}
	if diff := cmp.Diff(tableRows(once), tableRows(table)); diff != "" {
		t.Errorf("merge not idempotent (-want +got):\n%s", diff)
	}
}

func TestMergePreservesOrder(t *testing.T) {
	table := NewTable([]string{"field"})
	table.Merge([]Row{row("a", "field", "1"), row("b", "field", "2"), row("c", "field", "3")})

	// Update the middle row and add a new one: existing order must hold,
	// new rows land at the end.
	table.Merge([]Row{row("d", "field", "4"), row("b", "field", "20")})

	var keys []string
	for _, r := range table.Rows() {
		keys = append(keys, r.Key)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, keys); diff != "" {
		t.Errorf("row order mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeRetainsUnseenRows(t *testing.T) {
	table := NewTable([]string{"field"})
	table.Merge([]Row{row("a", "field", "1"), row("b", "field", "2")})

	// "b" absent from today's run: it must survive untouched.
	table.Merge([]Row{row("a", "field", "10")})

	if !table.Has("b") {
		t.Error("row absent from the input should be retained")
	}
	got, _ := table.Get("b")
	if got.Fields["field"] != "2" {
		t.Errorf("retained row should be untouched, got %q", got.Fields["field"])
	}
}

func TestMergeCopiesFields(t *testing.T) {
	fields := map[string]string{"field": "1"}
	table := NewTable([]string{"field"})
	table.Merge([]Row{{Key: "a", Fields: fields}})

	fields["field"] = "mutated"
	got, _ := table.Get("a")
	if got.Fields["field"] != "1" {
		t.Error("merge should copy incoming field maps")
	}
}

func TestCells(t *testing.T) {
	table := NewTable([]string{"x", "y"})
	table.Merge([]Row{
		{Key: "a", Fields: map[string]string{"x": "1", "y": "2"}},
		{Key: "b", Fields: map[string]string{"x": "3"}},
	})

	want := [][]string{{"1", "2"}, {"3", ""}}
	if diff := cmp.Diff(want, table.Cells()); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
}
