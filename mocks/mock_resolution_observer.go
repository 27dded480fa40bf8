package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockResolutionObserver is a mock implementation of port.ResolutionObserver.
type MockResolutionObserver struct {
	mock.Mock
}

func (m *MockResolutionObserver) RecordMatched(rowIndex int, key, value, source string) {
	m.Called(rowIndex, key, value, source)
}

func (m *MockResolutionObserver) RecordUnmatched(rowIndex int, key string) {
	m.Called(rowIndex, key)
}
