package domain

import (
	"github.com/allisson/tokenizer/pkg/converter"
)

// TypedValue is a plaintext value with its data type tag.
type TypedValue struct {
	Value    string
	DataType converter.DataType
}

// TokenizeResult is the outcome of tokenizing one value.
type TokenizeResult struct {
	Value        string
	Token        string
	Exists       bool
	NewlyCreated bool
	DataType     converter.DataType
	FromCache    bool
}

// Resolved reports whether the result carries a usable token worth caching.
func (r TokenizeResult) Resolved() bool {
	return r.Token != "" && (r.Exists || r.NewlyCreated)
}

// DetokenizeResult is the outcome of detokenizing one token.
// Found is false when the remote service does not know the token.
type DetokenizeResult struct {
	Token     string
	Value     string
	Found     bool
	DataType  converter.DataType
	FromCache bool
}

// TokenizeSummary counts batch tokenize outcomes over the full merged result set.
type TokenizeSummary struct {
	Processed    int
	Existing     int
	NewlyCreated int
}

// DetokenizeSummary counts batch detokenize outcomes over the full merged result set.
type DetokenizeSummary struct {
	Processed int
	Found     int
	NotFound  int
}

// BatchResult pairs the per-item results of a batch operation with its summary.
type BatchResult[T any, S any] struct {
	Results []T
	Summary S
}

// SummarizeTokenize computes the tokenize summary of results.
func SummarizeTokenize(results []TokenizeResult) TokenizeSummary {
	s := TokenizeSummary{Processed: len(results)}
	for _, r := range results {
		if r.Exists {
			s.Existing++
		}
		if r.NewlyCreated {
			s.NewlyCreated++
		}
	}
	return s
}

// SummarizeDetokenize computes the detokenize summary of results.
func SummarizeDetokenize(results []DetokenizeResult) DetokenizeSummary {
	s := DetokenizeSummary{Processed: len(results)}
	for _, r := range results {
		if r.Found {
			s.Found++
		} else {
			s.NotFound++
		}
	}
	return s
}
