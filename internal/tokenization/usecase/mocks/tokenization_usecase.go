// Package mocks provides mock implementations of the tokenization use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	tokenizationDomain "github.com/allisson/tokenizer/internal/tokenization/domain"
	"github.com/allisson/tokenizer/internal/tokenization/usecase"
)

// MockTokenizationUseCase is a mock implementation of TokenizationUseCase for testing.
type MockTokenizationUseCase struct {
	mock.Mock
}

// Tokenize mocks the Tokenize method of TokenizationUseCase.
func (m *MockTokenizationUseCase) Tokenize(
	ctx context.Context,
	input *tokenizationDomain.TokenizeInput,
) (*tokenizationDomain.TokenizeResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenizationDomain.TokenizeResult), args.Error(1)
}

// Detokenize mocks the Detokenize method of TokenizationUseCase.
func (m *MockTokenizationUseCase) Detokenize(
	ctx context.Context,
	input *tokenizationDomain.DetokenizeInput,
) (*tokenizationDomain.DetokenizeResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenizationDomain.DetokenizeResult), args.Error(1)
}

// BatchTokenize mocks the BatchTokenize method of TokenizationUseCase.
func (m *MockTokenizationUseCase) BatchTokenize(
	ctx context.Context,
	input *tokenizationDomain.BatchTokenizeInput,
) (*usecase.TokenizeBatchResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.TokenizeBatchResult), args.Error(1)
}

// BatchDetokenize mocks the BatchDetokenize method of TokenizationUseCase.
func (m *MockTokenizationUseCase) BatchDetokenize(
	ctx context.Context,
	input *tokenizationDomain.BatchDetokenizeInput,
) (*usecase.DetokenizeBatchResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DetokenizeBatchResult), args.Error(1)
}

// ClearCache mocks the ClearCache method of TokenizationUseCase.
func (m *MockTokenizationUseCase) ClearCache(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
