package strategy

import (
	"context"
	"encoding/json"
	"log/slog"

	apperrors "github.com/allisson/tokenizer/internal/errors"
	"github.com/allisson/tokenizer/internal/remote"
	"github.com/allisson/tokenizer/internal/retry"
)

// PlainStrategy sends JSON bodies unencrypted.
type PlainStrategy struct {
	transport Transport
	executor  *retry.Executor
	logger    *slog.Logger
}

// NewPlainStrategy creates a PlainStrategy.
func NewPlainStrategy(transport Transport, executor *retry.Executor, logger *slog.Logger) *PlainStrategy {
	return &PlainStrategy{
		transport: transport,
		executor:  executor,
		logger:    logger,
	}
}

// Execute marshals request and posts it through the retry executor.
func (s *PlainStrategy) Execute(ctx context.Context, op remote.Operation, request any) ([]byte, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "failed to encode request")
	}
	return s.post(ctx, op, body)
}

func (s *PlainStrategy) post(ctx context.Context, op remote.Operation, body []byte) ([]byte, error) {
	return retry.Do(ctx, s.executor, func(ctx context.Context, bearer string) ([]byte, error) {
		return s.transport.Post(ctx, remote.Request{
			Op:     op,
			Body:   body,
			Bearer: bearer,
		})
	})
}
