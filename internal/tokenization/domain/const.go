// Package domain defines the client-side tokenization models: operation inputs,
// typed results with their batch summaries, and the errors the operation engine returns.
package domain

// Batch size limits enforced before any remote call.
const (
	// MaxTokenizeBatchSize is the largest batch a single batch tokenize call accepts.
	MaxTokenizeBatchSize = 1000

	// MaxDetokenizeBatchSize is the largest batch a single batch detokenize call accepts.
	MaxDetokenizeBatchSize = 10000
)

// Operation names used in errors, logs and metrics.
const (
	OpTokenize        = "tokenize"
	OpDetokenize      = "detokenize"
	OpBatchTokenize   = "batch_tokenize"
	OpBatchDetokenize = "batch_detokenize"
	OpClearCache      = "clear_cache"
)
