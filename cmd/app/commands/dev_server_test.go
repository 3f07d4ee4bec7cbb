package commands

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/tokenizer/internal/devserver/usecase/mocks"
)

func TestPurgeExpiredTokens(t *testing.T) {
	t.Run("purges-until-canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var calls atomic.Int32
		count := func(mock.Arguments) { calls.Add(1) }

		mockUseCase := &mocks.MockAuthUseCase{}
		mockUseCase.On("PurgeExpired", mock.Anything).Return(int64(2), nil).Run(count).Once()
		mockUseCase.On("PurgeExpired", mock.Anything).Return(int64(0), errors.New("db down")).Run(count).Once()
		mockUseCase.On("PurgeExpired", mock.Anything).Return(int64(0), nil).Run(count)

		done := make(chan struct{})
		go func() {
			purgeExpiredTokens(ctx, mockUseCase, newTestLogger(io.Discard), 5*time.Millisecond)
			close(done)
		}()

		assert.Eventually(t, func() bool {
			return calls.Load() >= 3
		}, time.Second, 5*time.Millisecond)

		cancel()
		<-done
	})
}
