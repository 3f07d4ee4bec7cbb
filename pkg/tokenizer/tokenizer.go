// Package tokenizer is the public entry point of the SDK. A Client replaces
// sensitive values with opaque tokens through the remote tokenization service
// and resolves tokens back to values, using a local cache, encryption over
// transit with automatic fallback, and retries around the remote service.
//
// A Client is safe for concurrent use. Build one per process and share it.
package tokenizer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/allisson/tokenizer/internal/app"
	"github.com/allisson/tokenizer/internal/config"
	apperrors "github.com/allisson/tokenizer/internal/errors"
	tokenizationDomain "github.com/allisson/tokenizer/internal/tokenization/domain"
	tokenizationUseCase "github.com/allisson/tokenizer/internal/tokenization/usecase"
	"github.com/allisson/tokenizer/pkg/converter"
)

// Config holds every setting of the SDK client. Use LoadConfig to read it from
// the environment and an optional .env file.
type Config = config.Config

// DataType tags a value with its primitive type on the wire.
type DataType = converter.DataType

// Supported data types.
const (
	String  = converter.String
	Integer = converter.Integer
	Long    = converter.Long
	Float   = converter.Float
	Double  = converter.Double
	Boolean = converter.Boolean
)

// Batch limits.
const (
	MaxTokenizeBatchSize   = tokenizationDomain.MaxTokenizeBatchSize
	MaxDetokenizeBatchSize = tokenizationDomain.MaxDetokenizeBatchSize
)

type (
	// TypedValue is a plaintext value with its data type.
	TypedValue = tokenizationDomain.TypedValue
	// TokenizeResult is the outcome of tokenizing one value.
	TokenizeResult = tokenizationDomain.TokenizeResult
	// DetokenizeResult is the outcome of detokenizing one token.
	DetokenizeResult = tokenizationDomain.DetokenizeResult
	// TokenizeBatchResult holds per-value results and a summary.
	TokenizeBatchResult = tokenizationUseCase.TokenizeBatchResult
	// DetokenizeBatchResult holds per-token results and a summary.
	DetokenizeBatchResult = tokenizationUseCase.DetokenizeBatchResult
	// OperationError is the error type every Client operation returns.
	OperationError = tokenizationDomain.OperationError
)

// ErrClientClosed indicates an operation on a Client after Close.
var ErrClientClosed = apperrors.New("tokenizer client is closed")

// LoadConfig reads the configuration from environment variables and .env.
func LoadConfig() *Config {
	return config.Load()
}

// Client is a handle on the tokenization service.
//
// Every operation first consults the local cache, sends only the misses to the
// remote service and stores what comes back. Operations accept Encrypted() to
// send the request in an encrypted envelope. Errors are *OperationError values
// naming the failed operation.
//
// Thread safety:
//
//	Safe for concurrent use. Concurrent operations share one access token and
//	one refresh at a time. After Close every operation returns ErrClientClosed.
//
// Example usage:
//
//	client, err := tokenizer.New(tokenizer.LoadConfig())
//	if err != nil {
//	    return err
//	}
//	defer client.Close(ctx)
//
//	result, err := client.Tokenize(ctx, "4111111111111111", tokenizer.String, tokenizer.Encrypted())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Token)
type Client struct {
	engine    tokenizationUseCase.TokenizationUseCase
	container *app.Container

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// New validates cfg and assembles a Client. No network call is made until the
// first operation.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	container := app.NewContainer(cfg, appOptions(opts)...)

	engine, err := container.TokenizationUseCase()
	if err != nil {
		_ = container.Shutdown(context.Background())
		return nil, err
	}

	return &Client{engine: engine, container: container}, nil
}

// Tokenize returns the token for value.
func (c *Client) Tokenize(
	ctx context.Context,
	value string,
	dataType DataType,
	opts ...CallOption,
) (*TokenizeResult, error) {
	if err := c.checkOpen("tokenize"); err != nil {
		return nil, err
	}
	o := callOptionsFrom(opts)
	return c.engine.Tokenize(ctx, &tokenizationDomain.TokenizeInput{
		Value:     value,
		DataType:  dataType,
		Encrypted: o.encrypted,
	})
}

// Detokenize returns the value behind token. An unknown token is a result with
// Found set to false.
func (c *Client) Detokenize(ctx context.Context, token string, opts ...CallOption) (*DetokenizeResult, error) {
	if err := c.checkOpen("detokenize"); err != nil {
		return nil, err
	}
	o := callOptionsFrom(opts)
	return c.engine.Detokenize(ctx, &tokenizationDomain.DetokenizeInput{
		Token:     token,
		Encrypted: o.encrypted,
	})
}

// BatchTokenize tokenizes up to MaxTokenizeBatchSize values. Only values missing
// from the cache are sent to the remote service.
func (c *Client) BatchTokenize(
	ctx context.Context,
	values []TypedValue,
	opts ...CallOption,
) (*TokenizeBatchResult, error) {
	if err := c.checkOpen("batch_tokenize"); err != nil {
		return nil, err
	}
	o := callOptionsFrom(opts)
	return c.engine.BatchTokenize(ctx, &tokenizationDomain.BatchTokenizeInput{
		Values:    values,
		Encrypted: o.encrypted,
	})
}

// BatchDetokenize detokenizes up to MaxDetokenizeBatchSize tokens. Only tokens
// missing from the cache are sent to the remote service.
func (c *Client) BatchDetokenize(
	ctx context.Context,
	tokens []string,
	opts ...CallOption,
) (*DetokenizeBatchResult, error) {
	if err := c.checkOpen("batch_detokenize"); err != nil {
		return nil, err
	}
	o := callOptionsFrom(opts)
	return c.engine.BatchDetokenize(ctx, &tokenizationDomain.BatchDetokenizeInput{
		Tokens:    tokens,
		Encrypted: o.encrypted,
	})
}

// ClearCache drops every cached value and token.
func (c *Client) ClearCache(ctx context.Context) error {
	if err := c.checkOpen("clear_cache"); err != nil {
		return err
	}
	return c.engine.ClearCache(ctx)
}

// Close releases the resources held by the client. Operations after Close fail
// with ErrClientClosed. Close is idempotent.
func (c *Client) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		if c.container != nil {
			c.closeErr = c.container.Shutdown(ctx)
		}
	})
	return c.closeErr
}

func (c *Client) checkOpen(op string) error {
	if c.closed.Load() {
		return tokenizationDomain.NewOperationError(op, ErrClientClosed)
	}
	return nil
}
