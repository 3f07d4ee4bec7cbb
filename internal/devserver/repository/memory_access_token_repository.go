package repository

import (
	"context"
	"sync"
	"time"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
)

// MemoryAccessTokenRepository keeps issued access tokens in memory keyed by hash.
type MemoryAccessTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]*devDomain.AccessToken
}

// NewMemoryAccessTokenRepository creates an empty access token store.
func NewMemoryAccessTokenRepository() *MemoryAccessTokenRepository {
	return &MemoryAccessTokenRepository{tokens: make(map[string]*devDomain.AccessToken)}
}

// Create stores an issued access token.
func (m *MemoryAccessTokenRepository) Create(_ context.Context, token *devDomain.AccessToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tokens[token.TokenHash]; ok {
		return devDomain.ErrTokenConflict
	}
	stored := *token
	m.tokens[token.TokenHash] = &stored
	return nil
}

// GetByTokenHash returns the access token with the given hash.
func (m *MemoryAccessTokenRepository) GetByTokenHash(
	_ context.Context,
	tokenHash string,
) (*devDomain.AccessToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.tokens[tokenHash]
	if !ok {
		return nil, devDomain.ErrInvalidAccessToken
	}
	out := *stored
	return &out, nil
}

// DeleteExpired removes every token that is expired at now and returns how many were removed.
func (m *MemoryAccessTokenRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for hash, token := range m.tokens {
		if token.IsExpired(now) {
			delete(m.tokens, hash)
			removed++
		}
	}
	return removed, nil
}
