// Package domain defines the reference tokenization server models: stored token
// mappings, token formats, registered clients and issued access tokens.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token maps one (value, data type) pair to its token. The value is stored
// encrypted; ValueHash is a keyed hash used for deterministic lookups.
type Token struct {
	ID         uuid.UUID
	Token      string
	ValueHash  string
	DataType   string
	Ciphertext []byte
	Nonce      []byte
	CreatedAt  time.Time
}

// TypedValue is a plaintext value with its data type.
type TypedValue struct {
	Value    string
	DataType string
}

// TokenizeOutput is the server-side outcome of tokenizing one value.
type TokenizeOutput struct {
	Value        string
	Token        string
	DataType     string
	Exists       bool
	NewlyCreated bool
}

// DetokenizeOutput is the server-side outcome of detokenizing one token.
// Exists is false for unknown tokens and Value is then empty.
type DetokenizeOutput struct {
	Token    string
	Value    string
	DataType string
	Exists   bool
}
