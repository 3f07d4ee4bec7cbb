package usecase

import (
	"context"
	"time"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
	"github.com/allisson/tokenizer/internal/metrics"
)

const metricsDomain = "devserver"

func recordMetrics(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.RecordOperation(ctx, metricsDomain, operation, status)
	m.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// tokenizationUseCaseWithMetrics decorates TokenizationUseCase with metrics instrumentation.
type tokenizationUseCaseWithMetrics struct {
	next    TokenizationUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenizationUseCaseWithMetrics wraps a TokenizationUseCase with metrics recording.
func NewTokenizationUseCaseWithMetrics(useCase TokenizationUseCase, m metrics.BusinessMetrics) TokenizationUseCase {
	return &tokenizationUseCaseWithMetrics{next: useCase, metrics: m}
}

// Tokenize records metrics for tokenize operations.
func (t *tokenizationUseCaseWithMetrics) Tokenize(
	ctx context.Context,
	input devDomain.TypedValue,
) (*devDomain.TokenizeOutput, error) {
	start := time.Now()
	output, err := t.next.Tokenize(ctx, input)
	recordMetrics(ctx, t.metrics, "tokenize", start, err)
	return output, err
}

// Detokenize records metrics for detokenize operations.
func (t *tokenizationUseCaseWithMetrics) Detokenize(
	ctx context.Context,
	token string,
) (*devDomain.DetokenizeOutput, error) {
	start := time.Now()
	output, err := t.next.Detokenize(ctx, token)
	recordMetrics(ctx, t.metrics, "detokenize", start, err)
	return output, err
}

// BatchTokenize records metrics for batch tokenize operations.
func (t *tokenizationUseCaseWithMetrics) BatchTokenize(
	ctx context.Context,
	inputs []devDomain.TypedValue,
) ([]*devDomain.TokenizeOutput, error) {
	start := time.Now()
	outputs, err := t.next.BatchTokenize(ctx, inputs)
	recordMetrics(ctx, t.metrics, "batch_tokenize", start, err)
	return outputs, err
}

// BatchDetokenize records metrics for batch detokenize operations.
func (t *tokenizationUseCaseWithMetrics) BatchDetokenize(
	ctx context.Context,
	tokens []string,
) ([]*devDomain.DetokenizeOutput, error) {
	start := time.Now()
	outputs, err := t.next.BatchDetokenize(ctx, tokens)
	recordMetrics(ctx, t.metrics, "batch_detokenize", start, err)
	return outputs, err
}

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{next: useCase, metrics: m}
}

// IssueToken records metrics for token issuance.
func (a *authUseCaseWithMetrics) IssueToken(
	ctx context.Context,
	input *devDomain.IssueTokenInput,
) (*devDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := a.next.IssueToken(ctx, input)
	recordMetrics(ctx, a.metrics, "token_issue", start, err)
	return output, err
}

// Authenticate records metrics for bearer token authentication.
func (a *authUseCaseWithMetrics) Authenticate(ctx context.Context, plainToken string) (*devDomain.Client, error) {
	start := time.Now()
	client, err := a.next.Authenticate(ctx, plainToken)
	recordMetrics(ctx, a.metrics, "token_authenticate", start, err)
	return client, err
}

// PurgeExpired records metrics for expired token cleanup.
func (a *authUseCaseWithMetrics) PurgeExpired(ctx context.Context) (int64, error) {
	start := time.Now()
	removed, err := a.next.PurgeExpired(ctx)
	recordMetrics(ctx, a.metrics, "token_purge", start, err)
	return removed, err
}
