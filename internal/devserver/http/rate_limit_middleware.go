package http

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/allisson/tokenizer/internal/errors"
	"github.com/allisson/tokenizer/internal/httputil"
	"github.com/allisson/tokenizer/internal/remote"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleTTL       = time.Hour
)

// bucketKey identifies one token bucket. Routes that are not tokenization
// operations share the empty operation.
type bucketKey struct {
	clientID  string
	operation remote.Operation
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters hands out one limiter per client and operation.
type clientLimiters struct {
	mu      sync.Mutex
	buckets map[bucketKey]*bucket
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func newClientLimiters(rps float64, burst int) *clientLimiters {
	return &clientLimiters{
		buckets: make(map[bucketKey]*bucket),
		limit:   rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// reserve takes a token from key's bucket. It returns zero when the request may
// proceed, otherwise the wait until the next token.
func (l *clientLimiters) reserve(key bucketKey) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return limiterIdleTTL
	}
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
	}
	return delay
}

// sweep drops buckets idle for longer than limiterIdleTTL.
func (l *clientLimiters) sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	threshold := l.now().Add(-limiterIdleTTL)
	removed := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(threshold) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

func (l *clientLimiters) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// RateLimitMiddleware enforces rate limits per authenticated client and
// tokenization operation.
//
// MUST be used after AuthenticationMiddleware. Rejected requests answer 429 with
// Retry-After, which the SDK treats as retryable. Idle buckets are swept until
// ctx is done.
func RateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	limiters := newClientLimiters(rps, burst)
	go limiters.run(ctx, limiterSweepInterval)

	return func(c *gin.Context) {
		client, ok := GetClient(c.Request.Context())
		if !ok || client == nil {
			logger.Error("rate limit middleware: no authenticated client in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			return
		}

		operation, _ := remote.OperationFromPath(c.FullPath())
		delay := limiters.reserve(bucketKey{clientID: client.ID, operation: operation})
		if delay > 0 {
			logger.Debug("rate limit exceeded",
				slog.String("request_id", requestid.Get(c)),
				slog.String("client_id", client.ID),
				slog.String("operation", operation.String()),
				slog.Duration("retry_after", delay))
			httputil.HandleRateLimitedGin(c, delay)
			return
		}

		c.Next()
	}
}
