package resolver

// Miss describes one record the chain could not resolve.
type Miss struct {
	RowIndex int    // 0-based position within the data rows
	Key      string // normalized key that found no match
}

// Report aggregates the outcomes of one resolution pass. Total is always
// Matched + Unmatched, and Misses preserves encounter order.
type Report struct {
	Total     int
	Matched   int
	Unmatched int
	Misses    []Miss
}

func (r *Report) addMatch() {
	r.Total++
	r.Matched++
}

func (r *Report) addMiss(rowIndex int, key string) {
	r.Total++
	r.Unmatched++
	r.Misses = append(r.Misses, Miss{RowIndex: rowIndex, Key: key})
}

// UnmatchedKeys returns up to limit normalized keys from the miss list, in
// encounter order. A non-positive limit returns all of them.
func (r *Report) UnmatchedKeys(limit int) []string {
	if limit <= 0 || limit > len(r.Misses) {
		limit = len(r.Misses)
	}
	keys := make([]string, 0, limit)
	for _, m := range r.Misses[:limit] {
		keys = append(keys, m.Key)
	}
	return keys
}
