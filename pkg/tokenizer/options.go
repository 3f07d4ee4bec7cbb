package tokenizer

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/metric"

	"github.com/allisson/tokenizer/internal/app"
)

// Option customizes a Client at construction.
type Option func(*clientOptions)

type clientOptions struct {
	app []app.Option
}

// WithLogger sets the logger. By default a JSON logger at LOG_LEVEL writes to stdout.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		o.app = append(o.app, app.WithLogger(logger))
	}
}

// WithHTTPClient sets the HTTP client used for every remote call. The client is
// copied; its Timeout defaults to HTTP_TIMEOUT_SECONDS when zero.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.app = append(o.app, app.WithHTTPClient(client))
	}
}

// WithMeterProvider records SDK metrics on meterProvider instead of the built-in
// Prometheus registry.
func WithMeterProvider(meterProvider metric.MeterProvider) Option {
	return func(o *clientOptions) {
		o.app = append(o.app, app.WithMeterProvider(meterProvider))
	}
}

func appOptions(opts []Option) []app.Option {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o.app
}

// CallOption customizes a single operation.
type CallOption func(*callOptions)

type callOptions struct {
	encrypted bool
}

// Encrypted sends the operation in an encrypted envelope. When encryption is
// disabled in the configuration, or after the remote service rejected an
// envelope, the operation travels as plain JSON.
func Encrypted() CallOption {
	return func(o *callOptions) {
		o.encrypted = true
	}
}

func callOptionsFrom(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
