package service

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/tokenizer/internal/crypto/domain"
)

// ChaCha20Poly1305Cipher implements AEAD with ChaCha20-Poly1305.
type ChaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

// NewChaCha20Poly1305 creates a ChaCha20-Poly1305 cipher from a 32-byte key.
func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305Cipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a new random nonce.
func (c *ChaCha20Poly1305Cipher) Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error) {
	return seal(c.aead, plaintext)
}

// Decrypt opens ciphertext with nonce.
func (c *ChaCha20Poly1305Cipher) Decrypt(ciphertext, nonce []byte) ([]byte, error) {
	return open(c.aead, ciphertext, nonce)
}
