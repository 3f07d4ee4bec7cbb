// Package mocks provides mock implementations of the request strategies for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/tokenizer/internal/remote"
)

// MockStrategy is a mock implementation of Strategy for testing.
type MockStrategy struct {
	mock.Mock
}

// Execute mocks the Execute method of Strategy.
func (m *MockStrategy) Execute(ctx context.Context, op remote.Operation, request any) ([]byte, error) {
	args := m.Called(ctx, op, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
