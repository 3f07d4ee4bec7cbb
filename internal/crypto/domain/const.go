// Package domain defines the encryption-over-transit envelope: the algorithms it
// can be sealed with, its base64 wire fields, and the key material helpers.
package domain

import (
	"crypto/rand"
	"fmt"
)

// Algorithm represents the AEAD used to seal an envelope.
type Algorithm string

const (
	// AESGCM is AES-256 in Galois/Counter Mode. It is the default.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// KeySize is the session key length in bytes (256 bits).
const KeySize = 32

// Validate checks if the algorithm is supported.
func (a Algorithm) Validate() error {
	switch a {
	case AESGCM, ChaCha20:
		return nil
	default:
		return ErrUnsupportedAlgorithm
	}
}

// ParseAlgorithm returns the algorithm named s, defaulting to AESGCM when s is empty.
func ParseAlgorithm(s string) (Algorithm, error) {
	if s == "" {
		return AESGCM, nil
	}
	alg := Algorithm(s)
	if err := alg.Validate(); err != nil {
		return "", err
	}
	return alg, nil
}

// GenerateKey returns a new random session key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}
	return key, nil
}

// Zero overwrites key material in place.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
