package port

import (
	"context"

	"calyrec/internal/domain"
)

// RunRepository defines the contract for run ledger persistence.
type RunRepository interface {
	Create(ctx context.Context, run *domain.Run) error
	ListRecent(ctx context.Context, limit int) ([]domain.Run, error)
	GetByID(ctx context.Context, id string) (*domain.Run, error)
}
