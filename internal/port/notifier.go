package port

import (
	"context"

	"calyrec/internal/domain"
)

// Notifier defines the contract for delivering end-of-run reports.
type Notifier interface {
	SendRunReport(ctx context.Context, summary domain.RunSummary) error
}
