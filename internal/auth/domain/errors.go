package domain

import (
	"github.com/allisson/tokenizer/internal/errors"
)

// Authentication errors.
var (
	// ErrAuthenticationFailed indicates the auth API rejected the client credentials.
	ErrAuthenticationFailed = errors.Wrap(errors.ErrUnauthorized, "authentication failed")

	// ErrInvalidTokenResponse indicates a token response without a usable access token.
	ErrInvalidTokenResponse = errors.Wrap(errors.ErrUnauthorized, "invalid token response")

	// ErrMissingClientCredentials indicates an empty client id or secret.
	ErrMissingClientCredentials = errors.Wrap(errors.ErrInvalidInput, "client id and secret are required")
)
