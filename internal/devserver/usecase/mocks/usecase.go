// Package mocks provides mock implementations of the dev server use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
)

// MockTokenizationUseCase is a mock implementation of TokenizationUseCase for testing.
type MockTokenizationUseCase struct {
	mock.Mock
}

// Tokenize mocks the Tokenize method of TokenizationUseCase.
func (m *MockTokenizationUseCase) Tokenize(
	ctx context.Context,
	input devDomain.TypedValue,
) (*devDomain.TokenizeOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*devDomain.TokenizeOutput), args.Error(1)
}

// Detokenize mocks the Detokenize method of TokenizationUseCase.
func (m *MockTokenizationUseCase) Detokenize(ctx context.Context, token string) (*devDomain.DetokenizeOutput, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*devDomain.DetokenizeOutput), args.Error(1)
}

// BatchTokenize mocks the BatchTokenize method of TokenizationUseCase.
func (m *MockTokenizationUseCase) BatchTokenize(
	ctx context.Context,
	inputs []devDomain.TypedValue,
) ([]*devDomain.TokenizeOutput, error) {
	args := m.Called(ctx, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*devDomain.TokenizeOutput), args.Error(1)
}

// BatchDetokenize mocks the BatchDetokenize method of TokenizationUseCase.
func (m *MockTokenizationUseCase) BatchDetokenize(
	ctx context.Context,
	tokens []string,
) ([]*devDomain.DetokenizeOutput, error) {
	args := m.Called(ctx, tokens)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*devDomain.DetokenizeOutput), args.Error(1)
}

// MockAuthUseCase is a mock implementation of AuthUseCase for testing.
type MockAuthUseCase struct {
	mock.Mock
}

// IssueToken mocks the IssueToken method of AuthUseCase.
func (m *MockAuthUseCase) IssueToken(
	ctx context.Context,
	input *devDomain.IssueTokenInput,
) (*devDomain.IssueTokenOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*devDomain.IssueTokenOutput), args.Error(1)
}

// Authenticate mocks the Authenticate method of AuthUseCase.
func (m *MockAuthUseCase) Authenticate(ctx context.Context, plainToken string) (*devDomain.Client, error) {
	args := m.Called(ctx, plainToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*devDomain.Client), args.Error(1)
}

// PurgeExpired mocks the PurgeExpired method of AuthUseCase.
func (m *MockAuthUseCase) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
