// Package strategy decides per call whether a tokenization request travels in
// an encrypted envelope or as plain JSON, and falls back to plain permanently
// once the remote service reports it cannot decrypt envelopes.
package strategy

import (
	"context"
	"sync/atomic"

	"github.com/allisson/tokenizer/internal/remote"
)

// Strategy sends a request body to a tokenization endpoint and returns the
// plaintext JSON response body.
type Strategy interface {
	Execute(ctx context.Context, op remote.Operation, request any) ([]byte, error)
}

// Transport is the subset of remote.Client the strategies need.
type Transport interface {
	Post(ctx context.Context, req remote.Request) ([]byte, error)
}

// EncryptionState is the one-way encryption kill switch shared by every
// operation on a client handle. Once disabled it stays disabled.
type EncryptionState struct {
	disabled atomic.Bool
}

// NewEncryptionState creates an enabled EncryptionState.
func NewEncryptionState() *EncryptionState {
	return &EncryptionState{}
}

// Disabled reports whether encryption has been switched off.
func (s *EncryptionState) Disabled() bool {
	return s.disabled.Load()
}

// Disable switches encryption off and reports whether this call did it.
func (s *EncryptionState) Disable() bool {
	return s.disabled.CompareAndSwap(false, true)
}
