package noop

import (
	"context"
	"log"

	"calyrec/internal/domain"
	"calyrec/internal/port"
)

type noopNotifier struct{}

// NewNoopNotifier creates a Notifier that logs run reports instead of
// sending them. It is the default when no provider is configured.
func NewNoopNotifier() port.Notifier {
	return &noopNotifier{}
}

func (s *noopNotifier) SendRunReport(_ context.Context, summary domain.RunSummary) error {
	log.Printf("[NOOP NOTIFY] run %s: %d total, %d matched, %d unmatched",
		summary.DateToken, summary.Total, summary.Matched, summary.Unmatched)
	return nil
}
