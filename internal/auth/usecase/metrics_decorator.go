package usecase

import (
	"context"
	"time"

	"github.com/allisson/tokenizer/internal/metrics"
)

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// GetAccessToken records metrics for token lookups.
func (c *credentialUseCaseWithMetrics) GetAccessToken(ctx context.Context) (string, error) {
	start := time.Now()
	token, err := c.next.GetAccessToken(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "auth", "access_token_get", status)
	c.metrics.RecordDuration(ctx, "auth", "access_token_get", time.Since(start), status)

	return token, err
}

// RefreshAccessToken records metrics for forced refreshes.
func (c *credentialUseCaseWithMetrics) RefreshAccessToken(ctx context.Context) (string, error) {
	start := time.Now()
	token, err := c.next.RefreshAccessToken(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "auth", "access_token_refresh", status)
	c.metrics.RecordDuration(ctx, "auth", "access_token_refresh", time.Since(start), status)

	return token, err
}
