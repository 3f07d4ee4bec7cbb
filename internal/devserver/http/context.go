// Package http exposes the dev server tokenization and OAuth endpoints over Gin.
package http

import (
	"context"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
)

// clientKey is a context key type for storing authenticated clients.
type clientKey struct{}

// WithClient stores an authenticated client in the context.
func WithClient(ctx context.Context, client *devDomain.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

// GetClient retrieves an authenticated client from the context.
// Returns (client, true) if a client is present, or (nil, false) if no client was set.
func GetClient(ctx context.Context) (*devDomain.Client, bool) {
	client, ok := ctx.Value(clientKey{}).(*devDomain.Client)
	return client, ok
}
