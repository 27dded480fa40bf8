package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run records one processing run of a dated primary file in the run ledger.
type Run struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DateToken   string    `db:"date_token" json:"date_token"`
	PrimaryFile string    `db:"primary_file" json:"primary_file"`
	Total       int       `db:"total_records" json:"total_records"`
	Matched     int       `db:"matched_records" json:"matched_records"`
	Unmatched   int       `db:"unmatched_records" json:"unmatched_records"`
	Status      RunStatus `db:"status" json:"status"`
	Error       string    `db:"error" json:"error"`
	StartedAt   time.Time `db:"started_at" json:"started_at"`
	FinishedAt  time.Time `db:"finished_at" json:"finished_at"`
}

// RunSummary is the end-of-run view handed to notifiers and printed by the CLI.
type RunSummary struct {
	DateToken     string
	PrimaryFile   string
	OutputFile    string
	Total         int
	Matched       int
	Unmatched     int
	UnmatchedKeys []string // leading sample of normalized keys without a match
	Duration      time.Duration
}
