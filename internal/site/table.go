package site

// Row is one keyed record of a persisted table. Fields are keyed by column
// header.
type Row struct {
	Key    string
	Fields map[string]string
}

// Table is an ordered collection of rows with at most one row per key.
// It is the in-memory form of one workbook sheet.
type Table struct {
	Headers []string
	rows    []Row
	index   map[string]int // key → position in rows
}

// NewTable creates an empty table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{
		Headers: append([]string(nil), headers...),
		index:   make(map[string]int),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the rows in table order.
func (t *Table) Rows() []Row {
	return t.rows
}

// Get returns the row for a key, if present.
func (t *Table) Get(key string) (Row, bool) {
	i, ok := t.index[key]
	if !ok {
		return Row{}, false
	}
	return t.rows[i], true
}

// Has reports whether a key is present.
func (t *Table) Has(key string) bool {
	_, ok := t.index[key]
	return ok
}

// append adds a row without merge bookkeeping. Rows with a duplicate key
// overwrite the earlier occurrence in place.
func (t *Table) append(r Row) {
	if i, ok := t.index[r.Key]; ok {
		t.rows[i] = r
		return
	}
	t.index[r.Key] = len(t.rows)
	t.rows = append(t.rows, r)
}

// Append adds a row to the end of the table, or replaces the existing row
// with the same key in place.
func (t *Table) Append(r Row) {
	t.append(r)
}

// MergeStats summarizes one merge pass.
type MergeStats struct {
	Added   int
	Updated int
	NewKeys []string
}

// Merge applies incoming rows to the table. Existing keys are overwritten in
// place (last write wins) without changing their position; new keys are
// appended at the end in input order. Rows absent from the input are
// retained untouched: absence from today's listing does not mean the site
// no longer exists. Merging the same input twice is a no-op the second time
// apart from NewKeys being empty.
func (t *Table) Merge(rows []Row) MergeStats {
	var stats MergeStats
	for _, r := range rows {
		if i, ok := t.index[r.Key]; ok {
			t.rows[i] = Row{Key: r.Key, Fields: copyFields(r.Fields)}
			stats.Updated++
			continue
		}
		t.append(Row{Key: r.Key, Fields: copyFields(r.Fields)})
		stats.Added++
		stats.NewKeys = append(stats.NewKeys, r.Key)
	}
	return stats
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable(t.Headers)
	for _, r := range t.rows {
		out.append(Row{Key: r.Key, Fields: copyFields(r.Fields)})
	}
	return out
}

// Cells renders the rows as a grid in header order, for spreadsheet output.
func (t *Table) Cells() [][]string {
	out := make([][]string, 0, len(t.rows))
	for _, r := range t.rows {
		cells := make([]string, len(t.Headers))
		for i, h := range t.Headers {
			cells[i] = r.Fields[h]
		}
		out = append(out, cells)
	}
	return out
}

func copyFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
