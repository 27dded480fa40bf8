package resolver

import "calyrec/internal/port"

// DefaultSentinel is written to the target column when no table in the chain
// matches. Downstream reconciliation tooling greps for this exact literal.
const DefaultSentinel = "no encontrado"

// Config fixes the column contract for one primary dataset.
type Config struct {
	KeyColumn    int
	TargetColumn int
	Sentinel     string
}

// Resolver annotates primary records with values resolved through a chain.
type Resolver struct {
	chain    *Chain
	cfg      Config
	observer port.ResolutionObserver
}

// NewResolver creates a Resolver. The observer may be nil when no per-record
// audit trail is wanted. An empty sentinel falls back to DefaultSentinel.
func NewResolver(chain *Chain, cfg Config, observer port.ResolutionObserver) *Resolver {
	if cfg.Sentinel == "" {
		cfg.Sentinel = DefaultSentinel
	}
	return &Resolver{chain: chain, cfg: cfg, observer: observer}
}

// ResolveAll walks the data rows in order, writes the resolved value or the
// sentinel into the target column of every row, and returns the aggregated
// report. Rows are mutated in place. A row too short to address the key
// column is resolved with an empty key, which no table ever matches; a row
// too short to address the target column is grown with empty fields so the
// target is always written. Header rows must not be passed in.
func (r *Resolver) ResolveAll(rows [][]string) *Report {
	report := &Report{}
	for i, row := range rows {
		key := ""
		if r.cfg.KeyColumn >= 0 && r.cfg.KeyColumn < len(row) {
			key = NormalizeKey(row[r.cfg.KeyColumn])
		}
		outcome := r.chain.Resolve(key)
		if outcome.Found {
			rows[i] = writeColumn(row, r.cfg.TargetColumn, outcome.Value)
			report.addMatch()
			if r.observer != nil {
				r.observer.RecordMatched(i, key, outcome.Value, outcome.Source)
			}
			continue
		}
		rows[i] = writeColumn(row, r.cfg.TargetColumn, r.cfg.Sentinel)
		report.addMiss(i, key)
		if r.observer != nil {
			r.observer.RecordUnmatched(i, key)
		}
	}
	return report
}

// writeColumn sets row[col], growing the row with empty fields when the
// record is shorter than the target position. A negative position leaves the
// row unchanged, consistent with how BuildTable treats negative columns.
func writeColumn(row []string, col int, value string) []string {
	if col < 0 {
		return row
	}
	for len(row) <= col {
		row = append(row, "")
	}
	row[col] = value
	return row
}
