package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"calyrec/internal/domain"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendRunReport(ctx context.Context, summary domain.RunSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}
