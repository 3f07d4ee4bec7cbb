package usecase

import (
	"context"
	"time"

	"github.com/allisson/tokenizer/internal/metrics"
	tokenizationDomain "github.com/allisson/tokenizer/internal/tokenization/domain"
)

// tokenizationUseCaseWithMetrics decorates TokenizationUseCase with metrics instrumentation.
type tokenizationUseCaseWithMetrics struct {
	next    TokenizationUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenizationUseCaseWithMetrics wraps a TokenizationUseCase with metrics recording.
func NewTokenizationUseCaseWithMetrics(
	useCase TokenizationUseCase,
	m metrics.BusinessMetrics,
) TokenizationUseCase {
	return &tokenizationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *tokenizationUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "tokenization", operation, status)
	t.metrics.RecordDuration(ctx, "tokenization", operation, time.Since(start), status)
}

// recordCache reports hits out of total lookups.
func (t *tokenizationUseCaseWithMetrics) recordCache(ctx context.Context, operation string, hits, total int) {
	if total == 0 {
		return
	}
	t.metrics.RecordCacheLookup(ctx, operation, hits, total-hits)
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Tokenize records metrics for single tokenize operations.
func (t *tokenizationUseCaseWithMetrics) Tokenize(
	ctx context.Context,
	input *tokenizationDomain.TokenizeInput,
) (*tokenizationDomain.TokenizeResult, error) {
	start := time.Now()
	result, err := t.next.Tokenize(ctx, input)
	t.record(ctx, tokenizationDomain.OpTokenize, start, err)
	if err == nil {
		t.recordCache(ctx, tokenizationDomain.OpTokenize, boolCount(result.FromCache), 1)
	}
	return result, err
}

// Detokenize records metrics for single detokenize operations.
func (t *tokenizationUseCaseWithMetrics) Detokenize(
	ctx context.Context,
	input *tokenizationDomain.DetokenizeInput,
) (*tokenizationDomain.DetokenizeResult, error) {
	start := time.Now()
	result, err := t.next.Detokenize(ctx, input)
	t.record(ctx, tokenizationDomain.OpDetokenize, start, err)
	if err == nil {
		t.recordCache(ctx, tokenizationDomain.OpDetokenize, boolCount(result.FromCache), 1)
	}
	return result, err
}

// BatchTokenize records metrics for batch tokenize operations.
func (t *tokenizationUseCaseWithMetrics) BatchTokenize(
	ctx context.Context,
	input *tokenizationDomain.BatchTokenizeInput,
) (*TokenizeBatchResult, error) {
	start := time.Now()
	result, err := t.next.BatchTokenize(ctx, input)
	t.record(ctx, tokenizationDomain.OpBatchTokenize, start, err)
	if err == nil {
		hits := 0
		for i := range result.Results {
			hits += boolCount(result.Results[i].FromCache)
		}
		t.recordCache(ctx, tokenizationDomain.OpBatchTokenize, hits, len(result.Results))
	}
	return result, err
}

// BatchDetokenize records metrics for batch detokenize operations.
func (t *tokenizationUseCaseWithMetrics) BatchDetokenize(
	ctx context.Context,
	input *tokenizationDomain.BatchDetokenizeInput,
) (*DetokenizeBatchResult, error) {
	start := time.Now()
	result, err := t.next.BatchDetokenize(ctx, input)
	t.record(ctx, tokenizationDomain.OpBatchDetokenize, start, err)
	if err == nil {
		hits := 0
		for i := range result.Results {
			hits += boolCount(result.Results[i].FromCache)
		}
		t.recordCache(ctx, tokenizationDomain.OpBatchDetokenize, hits, len(result.Results))
	}
	return result, err
}

// ClearCache records metrics for cache clears.
func (t *tokenizationUseCaseWithMetrics) ClearCache(ctx context.Context) error {
	start := time.Now()
	err := t.next.ClearCache(ctx)
	t.record(ctx, tokenizationDomain.OpClearCache, start, err)
	return err
}
