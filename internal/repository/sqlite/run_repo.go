package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"calyrec/internal/domain"
	"calyrec/internal/port"
)

type runRepo struct {
	db *sqlx.DB
}

// NewRunRepo creates a ledger-backed RunRepository.
func NewRunRepo(db *sqlx.DB) port.RunRepository {
	return &runRepo{db: db}
}

func (r *runRepo) Create(ctx context.Context, run *domain.Run) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, date_token, primary_file, total_records, matched_records,
		                   unmatched_records, status, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.DateToken, run.PrimaryFile, run.Total, run.Matched,
		run.Unmatched, run.Status, run.Error, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("runRepo.Create: %w", err)
	}
	return nil
}

func (r *runRepo) ListRecent(ctx context.Context, limit int) ([]domain.Run, error) {
	var runs []domain.Run
	err := r.db.SelectContext(ctx, &runs,
		`SELECT * FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("runRepo.ListRecent: %w", err)
	}
	return runs, nil
}

func (r *runRepo) GetByID(ctx context.Context, id string) (*domain.Run, error) {
	var run domain.Run
	err := r.db.GetContext(ctx, &run, `SELECT * FROM runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("runRepo.GetByID: %w", err)
	}
	return &run, nil
}
