// Package mocks provides mock implementations of the auth services for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/tokenizer/internal/auth/domain"
)

// MockTokenClient is a mock implementation of TokenClient for testing.
type MockTokenClient struct {
	mock.Mock
}

// RequestToken mocks the RequestToken method of TokenClient.
func (m *MockTokenClient) RequestToken(ctx context.Context) (*authDomain.TokenGrant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.TokenGrant), args.Error(1)
}
