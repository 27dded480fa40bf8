package resolver

// Table is an immutable hash index over one reference dataset, mapping the
// normalized key column value to the result column value. It is built once
// per file per run and safe for concurrent readers.
type Table struct {
	label   string
	entries map[string]string
}

// BuildTable indexes records by the normalized value of keyCol, mapping each
// key to the raw value of valueCol. Rows too short to address either column
// are skipped, as are rows whose key normalizes to the empty string. When two
// rows normalize to the same key the earlier row wins, matching the
// top-to-bottom scan order of the source extracts.
func BuildTable(records [][]string, keyCol, valueCol int, label string) *Table {
	t := &Table{label: label, entries: make(map[string]string, len(records))}
	if keyCol < 0 || valueCol < 0 {
		return t
	}
	for _, rec := range records {
		if keyCol >= len(rec) || valueCol >= len(rec) {
			continue
		}
		key := NormalizeKey(rec[keyCol])
		if key == "" {
			continue
		}
		if _, exists := t.entries[key]; exists {
			continue
		}
		t.entries[key] = rec[valueCol]
	}
	return t
}

// Lookup returns the value indexed under key. The key must already be in
// normalized form; Lookup does not normalize again.
func (t *Table) Lookup(key string) (string, bool) {
	v, ok := t.entries[key]
	return v, ok
}

// Label returns the source label the table was built with.
func (t *Table) Label() string { return t.label }

// Len returns the number of distinct keys held by the table.
func (t *Table) Len() int { return len(t.entries) }
