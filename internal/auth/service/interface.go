// Package service provides the network-facing pieces of SDK authentication:
// the client-credentials token client and the keeper that opens a sealed client secret.
package service

import (
	"context"

	authDomain "github.com/allisson/tokenizer/internal/auth/domain"
)

// TokenClient requests access tokens from the remote auth API.
type TokenClient interface {
	// RequestToken performs one client-credentials grant. It does not retry.
	RequestToken(ctx context.Context) (*authDomain.TokenGrant, error)
}

// SecretKeeper seals and opens client secrets with a gocloud.dev/secrets keeper.
type SecretKeeper interface {
	// Seal encrypts a plaintext client secret and returns it base64-encoded.
	Seal(ctx context.Context, keeperURI, plainSecret string) (string, error)

	// Open decrypts a base64-encoded sealed client secret.
	Open(ctx context.Context, keeperURI, sealedSecret string) (string, error)
}
