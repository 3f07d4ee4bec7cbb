package domain

import (
	"github.com/allisson/tokenizer/internal/errors"
)

var (
	// ErrTokenNotFound indicates no mapping exists for a token or value.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrTokenConflict indicates a concurrent insert of the same value or token.
	ErrTokenConflict = errors.Wrap(errors.ErrConflict, "token already exists")

	// ErrInvalidFormatType indicates an unknown token format.
	ErrInvalidFormatType = errors.Wrap(errors.ErrInvalidInput, "invalid token format type")

	// ErrInvalidClientCredentials indicates an unknown client or a wrong secret.
	ErrInvalidClientCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid client credentials")

	// ErrInvalidAccessToken indicates a bearer token that is unknown or expired.
	ErrInvalidAccessToken = errors.Wrap(errors.ErrUnauthorized, "invalid access token")

	// ErrUnsupportedGrantType indicates a grant other than client_credentials.
	ErrUnsupportedGrantType = errors.Wrap(errors.ErrInvalidInput, "unsupported grant type")

	// ErrInvalidClientList indicates a malformed client list in configuration.
	ErrInvalidClientList = errors.Wrap(errors.ErrInvalidInput, "invalid client list")

	// ErrTokenGenerationFailed indicates the generator could not produce a unique token.
	ErrTokenGenerationFailed = errors.New("failed to generate a unique token")
)
