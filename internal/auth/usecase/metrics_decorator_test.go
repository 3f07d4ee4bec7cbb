package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/tokenizer/internal/auth/usecase"
	usecaseMocks "github.com/allisson/tokenizer/internal/auth/usecase/mocks"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics to avoid dependency issues.
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

func TestCredentialUseCaseWithMetrics(t *testing.T) {
	mockNext := &usecaseMocks.MockCredentialUseCase{}
	mockMetrics := &mockBusinessMetrics{}
	uc := usecase.NewCredentialUseCaseWithMetrics(mockNext, mockMetrics)

	ctx := context.Background()

	t.Run("GetAccessToken success", func(t *testing.T) {
		mockNext.On("GetAccessToken", ctx).Return("abc", nil).Once()
		mockMetrics.On("RecordOperation", ctx, "auth", "access_token_get", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "auth", "access_token_get", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		token, err := uc.GetAccessToken(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "abc", token)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("RefreshAccessToken error", func(t *testing.T) {
		mockNext.On("RefreshAccessToken", ctx).Return("", errors.New("error")).Once()
		mockMetrics.On("RecordOperation", ctx, "auth", "access_token_refresh", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "auth", "access_token_refresh", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		token, err := uc.RefreshAccessToken(ctx)
		assert.Error(t, err)
		assert.Empty(t, token)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})
}
