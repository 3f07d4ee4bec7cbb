package repository

import (
	"context"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
)

// MemoryClientRepository is a read-only registry of configured clients.
type MemoryClientRepository struct {
	clients map[string]*devDomain.Client
}

// NewMemoryClientRepository indexes clients by id.
func NewMemoryClientRepository(clients []*devDomain.Client) *MemoryClientRepository {
	index := make(map[string]*devDomain.Client, len(clients))
	for _, c := range clients {
		index[c.ID] = c
	}
	return &MemoryClientRepository{clients: index}
}

// Get returns the client with the given id.
func (m *MemoryClientRepository) Get(_ context.Context, clientID string) (*devDomain.Client, error) {
	client, ok := m.clients[clientID]
	if !ok {
		return nil, devDomain.ErrInvalidClientCredentials
	}
	return client, nil
}
