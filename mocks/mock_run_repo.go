package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"calyrec/internal/domain"
)

type MockRunRepo struct {
	mock.Mock
}

func (m *MockRunRepo) Create(ctx context.Context, run *domain.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepo) ListRecent(ctx context.Context, limit int) ([]domain.Run, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Run), args.Error(1)
}

func (m *MockRunRepo) GetByID(ctx context.Context, id string) (*domain.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Run), args.Error(1)
}
