package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"calyrec/internal/domain"
)

// MockProcessService is a mock implementation of service.ProcessService.
type MockProcessService struct {
	mock.Mock
}

func (m *MockProcessService) ProcessDate(ctx context.Context, token string) (*domain.RunSummary, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunSummary), args.Error(1)
}
