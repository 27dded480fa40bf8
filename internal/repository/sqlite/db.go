package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	date_token TEXT NOT NULL,
	primary_file TEXT NOT NULL,
	total_records INTEGER NOT NULL,
	matched_records INTEGER NOT NULL,
	unmatched_records INTEGER NOT NULL,
	status TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	started_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_date_token ON runs(date_token);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// NewDB opens the embedded run ledger at path, creating the file, its parent
// directory and the schema as needed.
func NewDB(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("opening ledger: %w", err)
		}
	}
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	// A single connection serializes writers; concurrent batch runs would
	// otherwise trip SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return db, nil
}
