package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/tokenizer/internal/errors"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	return c, w
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedCode  int
		expectedError string
	}{
		{
			name:          "not found",
			err:           apperrors.Wrap(apperrors.ErrNotFound, "token not found"),
			expectedCode:  http.StatusNotFound,
			expectedError: "not_found",
		},
		{
			name:          "conflict",
			err:           apperrors.ErrConflict,
			expectedCode:  http.StatusConflict,
			expectedError: "conflict",
		},
		{
			name:          "invalid input",
			err:           apperrors.Wrap(apperrors.ErrInvalidInput, "value is required"),
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "invalid_input",
		},
		{
			name:          "unauthorized",
			err:           apperrors.ErrUnauthorized,
			expectedCode:  http.StatusUnauthorized,
			expectedError: "unauthorized",
		},
		{
			name:          "forbidden",
			err:           apperrors.ErrForbidden,
			expectedCode:  http.StatusForbidden,
			expectedError: "forbidden",
		},
		{
			name:          "unavailable",
			err:           apperrors.ErrUnavailable,
			expectedCode:  http.StatusServiceUnavailable,
			expectedError: "unavailable",
		},
		{
			name:          "internal",
			err:           errors.New("database exploded"),
			expectedCode:  http.StatusInternalServerError,
			expectedError: "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()

			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.expectedCode, w.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedError, response.Error)
			assert.NotContains(t, response.Message, "database exploded")
		})
	}
}

func TestHandleErrorGin_NilError(t *testing.T) {
	c, w := newTestContext()

	HandleErrorGin(c, nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHandleBadRequestGin(t *testing.T) {
	c, w := newTestContext()

	HandleBadRequestGin(c, errors.New("unexpected EOF"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"bad_request","message":"unexpected EOF"}`, w.Body.String())
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, w := newTestContext()

	HandleValidationErrorGin(c, errors.New("token: cannot be blank."), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"validation_error","message":"token: cannot be blank."}`, w.Body.String())
}

func TestHandleDecryptionFailedGin(t *testing.T) {
	c, w := newTestContext()

	HandleDecryptionFailedGin(c, "encryption not accepted", nil)

	assert.Equal(t, StatusDecryptionFailed, w.Code)
	assert.True(t, c.IsAborted())
	assert.JSONEq(t, `{"error":"decryption_failed","message":"encryption not accepted"}`, w.Body.String())
}

func TestHandleErrorGin_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string { return "req-123" })))
	router.GET("/fail", func(c *gin.Context) {
		HandleErrorGin(c, apperrors.ErrUnauthorized, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "req-123", response.RequestID)
}

func TestHandleErrorGin_WithoutRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleErrorGin(c, apperrors.ErrNotFound, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "not_found", response.Error)
	assert.Empty(t, response.RequestID)
}

func TestHandleRateLimitedGin(t *testing.T) {
	tests := []struct {
		name       string
		retryAfter time.Duration
		expected   string
	}{
		{"rounds up", 1500 * time.Millisecond, "2"},
		{"at least one second", 10 * time.Millisecond, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()

			HandleRateLimitedGin(c, tt.retryAfter)

			assert.Equal(t, http.StatusTooManyRequests, w.Code)
			assert.Equal(t, tt.expected, w.Header().Get("Retry-After"))
			assert.True(t, c.IsAborted())
			assert.JSONEq(t,
				`{"error":"rate_limit_exceeded","message":"Too many requests. Please retry after the specified delay."}`,
				w.Body.String())
		})
	}
}
