// Package usecase implements the dev server business logic: deterministic
// tokenization over an encrypted token store, and client-credentials auth.
package usecase

import (
	"context"
	"time"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
)

// TokenRepository persists token mappings.
type TokenRepository interface {
	Create(ctx context.Context, token *devDomain.Token) error
	GetByToken(ctx context.Context, token string) (*devDomain.Token, error)
	GetByValueHash(ctx context.Context, valueHash string) (*devDomain.Token, error)
	Count(ctx context.Context) (int64, error)
}

// AccessTokenRepository persists issued bearer tokens by hash.
type AccessTokenRepository interface {
	Create(ctx context.Context, token *devDomain.AccessToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*devDomain.AccessToken, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ClientRepository looks up registered clients.
type ClientRepository interface {
	Get(ctx context.Context, clientID string) (*devDomain.Client, error)
}

// ValueProtector encrypts stored values and derives their lookup hash.
type ValueProtector interface {
	Seal(value string) (ciphertext, nonce []byte, err error)
	Open(ciphertext, nonce []byte) (string, error)
	Hash(value, dataType string) string
}

// TokenizationUseCase defines the dev server tokenization operations.
type TokenizationUseCase interface {
	// Tokenize returns the token for a value, creating one on first use.
	Tokenize(ctx context.Context, input devDomain.TypedValue) (*devDomain.TokenizeOutput, error)

	// Detokenize resolves a token. Unknown tokens are not an error; Exists is false.
	Detokenize(ctx context.Context, token string) (*devDomain.DetokenizeOutput, error)

	// BatchTokenize tokenizes every value in order.
	BatchTokenize(ctx context.Context, inputs []devDomain.TypedValue) ([]*devDomain.TokenizeOutput, error)

	// BatchDetokenize resolves every token in order.
	BatchDetokenize(ctx context.Context, tokens []string) ([]*devDomain.DetokenizeOutput, error)
}

// AuthUseCase defines the dev server client-credentials flow.
type AuthUseCase interface {
	// IssueToken verifies client credentials and issues a bearer token.
	IssueToken(ctx context.Context, input *devDomain.IssueTokenInput) (*devDomain.IssueTokenOutput, error)

	// Authenticate resolves a plain bearer token to its client.
	Authenticate(ctx context.Context, plainToken string) (*devDomain.Client, error)

	// PurgeExpired deletes expired bearer tokens and returns how many were removed.
	PurgeExpired(ctx context.Context) (int64, error)
}
