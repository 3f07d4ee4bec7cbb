package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 16 << 20

// Request is a single call to a tokenization endpoint.
type Request struct {
	Op        Operation
	Body      []byte
	Bearer    string
	Encrypted bool
	Algorithm string
}

// Client posts requests to a remote API base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a Client. A nil limiter disables client-side throttling.
func NewClient(baseURL string, httpClient *http.Client, limiter *rate.Limiter, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

// Post sends a JSON request to the endpoint of req.Op and returns the raw response body.
func (c *Client) Post(ctx context.Context, req Request) ([]byte, error) {
	path := req.Op.Path()
	if path == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, req.Op)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.Bearer)
	if req.Encrypted {
		httpReq.Header.Set(HeaderEncrypted, "true")
		if req.Algorithm != "" {
			httpReq.Header.Set(HeaderEncryptionAlgorithm, req.Algorithm)
		}
	}

	return c.do(ctx, httpReq, req.Op.String())
}

// PostForm sends a form-encoded request to path and returns the raw response body.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	return c.do(ctx, httpReq, path)
}

func (c *Client) do(ctx context.Context, httpReq *http.Request, name string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %w", ErrTransport, err)
		}
	}

	requestID := newRequestID()
	httpReq.Header.Set(HeaderRequestID, requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("remote request failed",
			slog.String("operation", name),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: reading response: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("remote request rejected",
			slog.String("operation", name),
			slog.String("request_id", requestID),
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	return body, nil
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
