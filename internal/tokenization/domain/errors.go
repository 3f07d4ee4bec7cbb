package domain

import (
	"fmt"

	"github.com/allisson/tokenizer/internal/errors"
)

var (
	// ErrEmptyBatch indicates a batch operation called without any item.
	ErrEmptyBatch = errors.Wrap(errors.ErrInvalidInput, "batch must not be empty")

	// ErrBatchTooLarge indicates a batch above the per-operation limit.
	ErrBatchTooLarge = errors.Wrap(errors.ErrInvalidInput, "batch exceeds maximum size")

	// ErrMissingResult indicates the remote response omitted an item that was sent.
	ErrMissingResult = errors.New("remote response is missing a requested item")

	// ErrPanic indicates a panic recovered inside an operation.
	ErrPanic = errors.New("operation panicked")
)

// OperationError is the single error type returned by the operation engine.
// Op names the failed operation; Err keeps the original cause for errors.Is and errors.As.
type OperationError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewOperationError wraps err unless it is nil or already an OperationError.
func NewOperationError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*OperationError); ok {
		return err
	}
	return &OperationError{Op: op, Err: err}
}
