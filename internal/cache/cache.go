// Package cache provides the in-memory bidirectional token cache used by the
// operation engine. Entries never expire; Clear drops everything at once.
package cache

import (
	"sync"

	"github.com/allisson/tokenizer/pkg/converter"
)

type entry struct {
	value    string
	dataType converter.DataType
}

// TokenCache maps plaintext values to tokens and tokens back to plaintext values.
// Each token has at most one plaintext and each plaintext at most one token: a
// write that replaces an existing mapping removes the stale reverse entry.
//
// Entries carry the data type they were stored with. There is no eviction and no
// expiry; Clear empties both directions at once.
//
// Thread safety:
//
//	Safe for concurrent use. Lookups share a read lock and writes take the write
//	lock, so a reader never sees one direction updated without the other.
type TokenCache struct {
	enabled bool

	mu     sync.RWMutex
	tokens map[string]entry // plaintext -> token
	values map[string]entry // token -> plaintext
}

// NewTokenCache creates a cache. A disabled cache answers every lookup with a
// miss and ignores every write.
func NewTokenCache(enabled bool) *TokenCache {
	return &TokenCache{
		enabled: enabled,
		tokens:  make(map[string]entry),
		values:  make(map[string]entry),
	}
}

// Enabled reports whether the cache stores anything.
func (c *TokenCache) Enabled() bool {
	return c.enabled
}

// GetToken returns the token cached for value.
func (c *TokenCache) GetToken(value string) (string, converter.DataType, bool) {
	if !c.enabled {
		return "", "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.tokens[value]
	return e.value, e.dataType, ok
}

// GetValue returns the plaintext cached for token.
func (c *TokenCache) GetValue(token string) (string, converter.DataType, bool) {
	if !c.enabled {
		return "", "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.values[token]
	return e.value, e.dataType, ok
}

// PutToken records a tokenize result.
func (c *TokenCache) PutToken(value, token string, dataType converter.DataType) {
	c.put(value, token, dataType)
}

// PutValue records a detokenize result.
func (c *TokenCache) PutValue(token, value string, dataType converter.DataType) {
	c.put(value, token, dataType)
}

func (c *TokenCache) put(value, token string, dataType converter.DataType) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.tokens[value]; ok && old.value != token {
		delete(c.values, old.value)
	}
	if old, ok := c.values[token]; ok && old.value != value {
		delete(c.tokens, old.value)
	}

	c.tokens[value] = entry{value: token, dataType: dataType}
	c.values[token] = entry{value: value, dataType: dataType}
}

// Clear removes every entry.
func (c *TokenCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tokens = make(map[string]entry)
	c.values = make(map[string]entry)
}

// Len returns the number of cached mappings.
func (c *TokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.tokens)
}
