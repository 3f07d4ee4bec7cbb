package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
	"github.com/allisson/tokenizer/internal/httputil"
	"github.com/allisson/tokenizer/internal/remote"
)

func newRateLimitedRouter(t *testing.T, rps float64, burst int, withClient func(c *gin.Context)) *gin.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := gin.New()
	router.Use(withClient)
	router.Use(RateLimitMiddleware(ctx, rps, burst, newTestLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func asClient(id string) func(c *gin.Context) {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithClient(c.Request.Context(), &devDomain.Client{ID: id}))
		c.Next()
	}
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	router := newRateLimitedRouter(t, 10, 20, asClient("app"))

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_BlocksRequestsExceedingLimit(t *testing.T) {
	router := newRateLimitedRouter(t, 0.5, 2, asClient("app"))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, retryAfter, 1)
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestRateLimitMiddleware_IndependentClients(t *testing.T) {
	clientID := "first"
	router := newRateLimitedRouter(t, 0.5, 1, func(c *gin.Context) {
		asClient(clientID)(c)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	clientID = "second"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware_RequiresClient(t *testing.T) {
	router := newRateLimitedRouter(t, 10, 20, func(c *gin.Context) { c.Next() })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimitMiddleware_SeparateBucketPerOperation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string { return "req-42" })))
	router.Use(asClient("app"))
	router.Use(RateLimitMiddleware(ctx, 0.001, 1, newTestLogger()))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.POST(remote.PathTokenize, ok)
	router.POST(remote.PathDetokenize, ok)

	post := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		return w
	}

	assert.Equal(t, http.StatusOK, post(remote.PathTokenize).Code)
	assert.Equal(t, http.StatusOK, post(remote.PathDetokenize).Code)

	w := post(remote.PathTokenize)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var response httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "rate_limit_exceeded", response.Error)
	assert.Equal(t, "req-42", response.RequestID)
}

func TestClientLimiters(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiters := newClientLimiters(1, 1)
	limiters.now = func() time.Time { return now }

	key := bucketKey{clientID: "app", operation: remote.OpTokenize}

	t.Run("Success_ReserveAndRefill", func(t *testing.T) {
		assert.Zero(t, limiters.reserve(key))
		assert.Equal(t, time.Second, limiters.reserve(key))

		now = now.Add(time.Second)
		assert.Zero(t, limiters.reserve(key))
	})

	t.Run("Success_SweepDropsIdleBuckets", func(t *testing.T) {
		limiters.reserve(bucketKey{clientID: "other"})
		assert.Equal(t, 0, limiters.sweep())

		now = now.Add(limiterIdleTTL + time.Second)
		assert.Equal(t, 2, limiters.sweep())
		assert.Zero(t, limiters.reserve(key))
	})
}
