package tokenizer

import (
	"context"
	"fmt"

	tokenizationDomain "github.com/allisson/tokenizer/internal/tokenization/domain"
)

// Result is the outcome of an asynchronous operation: either a Value or an Err.
type Result[T any] struct {
	Value T
	Err   error
}

// Success reports whether the operation completed without error.
func (r Result[T]) Success() bool {
	return r.Err == nil
}

// Go runs fn in a new goroutine and delivers exactly one Result on the returned
// channel, which is then closed. A panic in fn is delivered as an OperationError.
//
//	ch := tokenizer.Go(ctx, func(ctx context.Context) (string, error) {
//		return tokenizer.TokenizeValue(ctx, client, "4111111111111111")
//	})
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		defer func() {
			if r := recover(); r != nil {
				ch <- Result[T]{Err: tokenizationDomain.NewOperationError(
					"async",
					fmt.Errorf("%w: %v", tokenizationDomain.ErrPanic, r),
				)}
			}
		}()

		value, err := fn(ctx)
		ch <- Result[T]{Value: value, Err: err}
	}()
	return ch
}
