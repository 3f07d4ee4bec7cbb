// Package usecase implements the SDK credential lifecycle: cached bearer tokens
// with a single in-flight refresh shared by every concurrent caller.
package usecase

import (
	"context"
)

// CredentialUseCase hands out bearer tokens for remote calls.
type CredentialUseCase interface {
	// GetAccessToken returns the current token, refreshing it first when it is
	// missing or within the expiry buffer.
	GetAccessToken(ctx context.Context) (string, error)

	// RefreshAccessToken replaces the current token unconditionally.
	RefreshAccessToken(ctx context.Context) (string, error)
}
