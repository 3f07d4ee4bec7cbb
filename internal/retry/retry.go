// Package retry runs remote calls with bounded attempts, a credential refresh on
// 401 and exponential backoff on transient failures.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/allisson/tokenizer/internal/errors"
	"github.com/allisson/tokenizer/internal/remote"
)

// ErrRetriesExhausted indicates every attempt failed with a retryable error.
var ErrRetriesExhausted = apperrors.Wrap(apperrors.ErrUnavailable, "retries exhausted")

// Credentials supplies bearer tokens to the executor.
type Credentials interface {
	GetAccessToken(ctx context.Context) (string, error)
	RefreshAccessToken(ctx context.Context) (string, error)
}

// Config holds the retry policy.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// Executor applies the retry policy to remote calls. It holds no per-call state
// and is shared by every operation of a client.
type Executor struct {
	cfg         Config
	credentials Credentials
	logger      *slog.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewExecutor creates an Executor. MaxAttempts below 1 is treated as 1.
func NewExecutor(cfg Config, credentials Credentials, logger *slog.Logger) *Executor {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Executor{
		cfg:         cfg,
		credentials: credentials,
		logger:      logger,
		sleep:       sleepContext,
	}
}

// Backoff returns the delay before the retry that follows the given zero-based attempt:
// InitialDelay * 2^attempt, capped at MaxDelay.
func (e *Executor) Backoff(attempt int) time.Duration {
	if e.cfg.InitialDelay <= 0 {
		return 0
	}
	if attempt >= 32 {
		return e.maxDelay()
	}
	d := e.cfg.InitialDelay << attempt
	if d <= 0 || d > e.maxDelay() {
		return e.maxDelay()
	}
	return d
}

func (e *Executor) maxDelay() time.Duration {
	if e.cfg.MaxDelay <= 0 {
		return e.cfg.InitialDelay << 5
	}
	return e.cfg.MaxDelay
}

type class int

const (
	permanent class = iota
	unauthorized
	transient
)

func classify(err error) class {
	if apperrors.Is(err, remote.ErrTransport) {
		return transient
	}
	code, ok := remote.StatusCode(err)
	if !ok {
		return permanent
	}
	switch code {
	case http.StatusUnauthorized:
		return unauthorized
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests:
		return transient
	default:
		return permanent
	}
}

// Do runs call with the current bearer token until it succeeds, fails permanently,
// or MaxAttempts is reached.
//
// Retry policy, per attempt:
//   - 401: force a credential refresh, then retry without delay
//   - 429, 500, 502, 503, 504 or a transport failure: sleep Backoff(attempt), then retry
//   - 419: returned at once so the caller can fall back to plain requests
//   - anything else: returned at once
//
// Every attempt counts toward MaxAttempts, the 401 retry included. Sleeps end
// early when ctx is done, in which case ctx.Err() is returned.
//
// Parameters:
//   - ctx: bounds every attempt and every sleep
//   - e: the executor holding the policy and the credential source
//   - call: one remote attempt using bearer as the access token
//
// Returns:
//   - The first successful result of call
//   - ErrRetriesExhausted wrapping the last failure when attempts run out
//   - The non-retryable error unchanged otherwise
func Do[T any](ctx context.Context, e *Executor, call func(ctx context.Context, bearer string) (T, error)) (T, error) {
	var zero T

	bearer, err := e.credentials.GetAccessToken(ctx)
	if err != nil {
		return zero, err
	}

	var lastErr error
	for attempt := 0; attempt < e.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := call(ctx, bearer)
		if err == nil {
			return result, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		lastErr = err

		last := attempt == e.cfg.MaxAttempts-1
		switch classify(err) {
		case unauthorized:
			if last {
				break
			}
			e.logger.Debug("remote call unauthorized, refreshing access token",
				slog.Int("attempt", attempt+1),
			)
			bearer, err = e.credentials.RefreshAccessToken(ctx)
			if err != nil {
				return zero, err
			}
		case transient:
			if last {
				break
			}
			delay := e.Backoff(attempt)
			e.logger.Warn("remote call failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", e.cfg.MaxAttempts),
				slog.Duration("delay", delay),
				slog.Any("error", err),
			)
			if err := e.sleep(ctx, delay); err != nil {
				return zero, err
			}
		default:
			return zero, err
		}
	}

	e.logger.Error("remote call failed after all attempts",
		slog.Int("attempts", e.cfg.MaxAttempts),
		slog.Any("error", lastErr),
	)
	return zero, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, e.cfg.MaxAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
