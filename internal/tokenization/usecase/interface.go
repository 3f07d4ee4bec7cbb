// Package usecase implements the token operation engine: cache-first lookups,
// remote resolution of the uncached remainder through an encryption strategy,
// result merging and cache write-back for single and batch operations.
package usecase

import (
	"context"

	tokenizationDomain "github.com/allisson/tokenizer/internal/tokenization/domain"
	"github.com/allisson/tokenizer/pkg/converter"
)

// TokenCache is the bidirectional cache the engine reads before and writes after remote calls.
type TokenCache interface {
	GetToken(value string) (string, converter.DataType, bool)
	GetValue(token string) (string, converter.DataType, bool)
	PutToken(value, token string, dataType converter.DataType)
	PutValue(token, value string, dataType converter.DataType)
	Clear()
}

// TokenizeBatchResult is the result of a batch tokenize operation.
type TokenizeBatchResult = tokenizationDomain.BatchResult[
	tokenizationDomain.TokenizeResult,
	tokenizationDomain.TokenizeSummary,
]

// DetokenizeBatchResult is the result of a batch detokenize operation.
type DetokenizeBatchResult = tokenizationDomain.BatchResult[
	tokenizationDomain.DetokenizeResult,
	tokenizationDomain.DetokenizeSummary,
]

// TokenizationUseCase defines the tokenize and detokenize operations.
// Every error returned is a *tokenizationDomain.OperationError.
type TokenizationUseCase interface {
	// Tokenize returns the token for a single value, from cache when possible.
	Tokenize(ctx context.Context, input *tokenizationDomain.TokenizeInput) (*tokenizationDomain.TokenizeResult, error)

	// Detokenize returns the value for a single token, from cache when possible.
	// An unknown token is a result with Found=false, not an error.
	Detokenize(
		ctx context.Context,
		input *tokenizationDomain.DetokenizeInput,
	) (*tokenizationDomain.DetokenizeResult, error)

	// BatchTokenize tokenizes up to MaxTokenizeBatchSize values, sending only uncached ones.
	BatchTokenize(ctx context.Context, input *tokenizationDomain.BatchTokenizeInput) (*TokenizeBatchResult, error)

	// BatchDetokenize detokenizes up to MaxDetokenizeBatchSize tokens, sending only uncached ones.
	BatchDetokenize(
		ctx context.Context,
		input *tokenizationDomain.BatchDetokenizeInput,
	) (*DetokenizeBatchResult, error)

	// ClearCache drops every cached mapping.
	ClearCache(ctx context.Context) error
}
