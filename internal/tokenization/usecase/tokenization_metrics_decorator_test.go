package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	tokenizationDomain "github.com/allisson/tokenizer/internal/tokenization/domain"
	"github.com/allisson/tokenizer/internal/tokenization/usecase"
	usecaseMocks "github.com/allisson/tokenizer/internal/tokenization/usecase/mocks"
)

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordCacheLookup(ctx context.Context, operation string, hits, misses int) {
	m.Called(ctx, operation, hits, misses)
}

func expectMetrics(m *mockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "tokenization", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "tokenization", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestTokenizationUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Tokenize success", func(t *testing.T) {
		mockNext := &usecaseMocks.MockTokenizationUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewTokenizationUseCaseWithMetrics(mockNext, mockMetrics)

		input := &tokenizationDomain.TokenizeInput{Value: "a", DataType: "string"}
		expected := &tokenizationDomain.TokenizeResult{Value: "a", Token: "tok_a", Exists: true, FromCache: true}
		mockNext.On("Tokenize", ctx, input).Return(expected, nil).Once()
		expectMetrics(mockMetrics, ctx, "tokenize", "success")
		mockMetrics.On("RecordCacheLookup", ctx, "tokenize", 1, 0).Return().Once()

		result, err := uc.Tokenize(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, expected, result)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Detokenize error", func(t *testing.T) {
		mockNext := &usecaseMocks.MockTokenizationUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewTokenizationUseCaseWithMetrics(mockNext, mockMetrics)

		input := &tokenizationDomain.DetokenizeInput{Token: "tok_a"}
		mockNext.On("Detokenize", ctx, input).Return(nil, errors.New("error")).Once()
		expectMetrics(mockMetrics, ctx, "detokenize", "error")

		result, err := uc.Detokenize(ctx, input)
		assert.Error(t, err)
		assert.Nil(t, result)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("BatchTokenize success", func(t *testing.T) {
		mockNext := &usecaseMocks.MockTokenizationUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewTokenizationUseCaseWithMetrics(mockNext, mockMetrics)

		input := &tokenizationDomain.BatchTokenizeInput{
			Values: []tokenizationDomain.TypedValue{{Value: "a", DataType: "string"}},
		}
		expected := &usecase.TokenizeBatchResult{
			Results: []tokenizationDomain.TokenizeResult{
				{Value: "a", Token: "tok_a", FromCache: true},
				{Value: "b", Token: "tok_b"},
				{Value: "c", Token: "tok_c"},
			},
		}
		mockNext.On("BatchTokenize", ctx, input).Return(expected, nil).Once()
		expectMetrics(mockMetrics, ctx, "batch_tokenize", "success")
		mockMetrics.On("RecordCacheLookup", ctx, "batch_tokenize", 1, 2).Return().Once()

		result, err := uc.BatchTokenize(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, expected, result)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("BatchDetokenize error", func(t *testing.T) {
		mockNext := &usecaseMocks.MockTokenizationUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewTokenizationUseCaseWithMetrics(mockNext, mockMetrics)

		input := &tokenizationDomain.BatchDetokenizeInput{Tokens: []string{"t1"}}
		mockNext.On("BatchDetokenize", ctx, input).Return(nil, errors.New("error")).Once()
		expectMetrics(mockMetrics, ctx, "batch_detokenize", "error")

		_, err := uc.BatchDetokenize(ctx, input)
		assert.Error(t, err)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("ClearCache success", func(t *testing.T) {
		mockNext := &usecaseMocks.MockTokenizationUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewTokenizationUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("ClearCache", ctx).Return(nil).Once()
		expectMetrics(mockMetrics, ctx, "clear_cache", "success")

		assert.NoError(t, uc.ClearCache(ctx))
		mockMetrics.AssertExpectations(t)
	})
}
