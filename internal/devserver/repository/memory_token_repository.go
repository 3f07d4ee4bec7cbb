// Package repository implements token and access token persistence for the dev
// server. Tokens can live in memory, PostgreSQL or MySQL; access tokens are
// short-lived and always kept in memory.
package repository

import (
	"context"
	"sync"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
)

// MemoryTokenRepository keeps token mappings in process memory.
type MemoryTokenRepository struct {
	mu      sync.RWMutex
	byToken map[string]*devDomain.Token
	byHash  map[string]*devDomain.Token
}

// NewMemoryTokenRepository creates an empty in-memory token store.
func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{
		byToken: make(map[string]*devDomain.Token),
		byHash:  make(map[string]*devDomain.Token),
	}
}

// Create stores a token mapping. Both the token and the value hash must be unique.
func (m *MemoryTokenRepository) Create(_ context.Context, token *devDomain.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byToken[token.Token]; ok {
		return devDomain.ErrTokenConflict
	}
	if _, ok := m.byHash[token.ValueHash]; ok {
		return devDomain.ErrTokenConflict
	}

	stored := *token
	m.byToken[token.Token] = &stored
	m.byHash[token.ValueHash] = &stored
	return nil
}

// GetByToken returns the mapping for a token string.
func (m *MemoryTokenRepository) GetByToken(_ context.Context, token string) (*devDomain.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.byToken[token]
	if !ok {
		return nil, devDomain.ErrTokenNotFound
	}
	out := *stored
	return &out, nil
}

// GetByValueHash returns the mapping for a keyed value hash.
func (m *MemoryTokenRepository) GetByValueHash(_ context.Context, valueHash string) (*devDomain.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.byHash[valueHash]
	if !ok {
		return nil, devDomain.ErrTokenNotFound
	}
	out := *stored
	return &out, nil
}

// Count returns the number of stored mappings.
func (m *MemoryTokenRepository) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.byToken)), nil
}
