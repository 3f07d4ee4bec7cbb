package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
	"github.com/allisson/tokenizer/internal/devserver/usecase"
	usecaseMocks "github.com/allisson/tokenizer/internal/devserver/usecase/mocks"
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
	m.On("RecordOperation", ctx, "devserver", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "devserver", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestTokenizationUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Tokenize success", func(t *testing.T) {
		mockNext := &usecaseMocks.MockTokenizationUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewTokenizationUseCaseWithMetrics(mockNext, mockMetrics)

		input := devDomain.TypedValue{Value: "v", DataType: "string"}
		mockNext.On("Tokenize", ctx, input).Return(&devDomain.TokenizeOutput{Token: "t"}, nil).Once()
		expectMetrics(mockMetrics, ctx, "tokenize", "success")

		output, err := uc.Tokenize(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, "t", output.Token)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("BatchDetokenize error", func(t *testing.T) {
		mockNext := &usecaseMocks.MockTokenizationUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewTokenizationUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("BatchDetokenize", ctx, []string{"a"}).Return(nil, errors.New("boom")).Once()
		expectMetrics(mockMetrics, ctx, "batch_detokenize", "error")

		outputs, err := uc.BatchDetokenize(ctx, []string{"a"})
		assert.Error(t, err)
		assert.Nil(t, outputs)
		mockMetrics.AssertExpectations(t)
	})
}

func TestAuthUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("IssueToken error", func(t *testing.T) {
		mockNext := &usecaseMocks.MockAuthUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewAuthUseCaseWithMetrics(mockNext, mockMetrics)

		input := &devDomain.IssueTokenInput{ClientID: "app", ClientSecret: "bad"}
		mockNext.On("IssueToken", ctx, input).Return(nil, devDomain.ErrInvalidClientCredentials).Once()
		expectMetrics(mockMetrics, ctx, "token_issue", "error")

		output, err := uc.IssueToken(ctx, input)
		assert.ErrorIs(t, err, devDomain.ErrInvalidClientCredentials)
		assert.Nil(t, output)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Authenticate success", func(t *testing.T) {
		mockNext := &usecaseMocks.MockAuthUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewAuthUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("Authenticate", ctx, "tok").Return(&devDomain.Client{ID: "app"}, nil).Once()
		expectMetrics(mockMetrics, ctx, "token_authenticate", "success")

		client, err := uc.Authenticate(ctx, "tok")
		assert.NoError(t, err)
		assert.Equal(t, "app", client.ID)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("PurgeExpired success", func(t *testing.T) {
		mockNext := &usecaseMocks.MockAuthUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewAuthUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("PurgeExpired", ctx).Return(int64(2), nil).Once()
		expectMetrics(mockMetrics, ctx, "token_purge", "success")

		removed, err := uc.PurgeExpired(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), removed)
		mockMetrics.AssertExpectations(t)
	})
}
