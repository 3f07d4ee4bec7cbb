// Package service implements the encryption-over-transit engine: AEAD ciphers,
// the per-process session cipher used by the SDK, and the envelope helpers the
// dev server uses to open requests and seal responses.
package service

import (
	cryptoDomain "github.com/allisson/tokenizer/internal/crypto/domain"
)

// AEAD seals and opens byte slices with a fixed key and a fresh nonce per message.
type AEAD interface {
	// Encrypt seals plaintext under a new random nonce and returns ciphertext||tag and the nonce.
	Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error)

	// Decrypt opens ciphertext||tag with nonce. Returns ErrDecryptionFailed on tag mismatch.
	Decrypt(ciphertext, nonce []byte) ([]byte, error)
}

// AEADManager builds AEAD ciphers for a given algorithm.
type AEADManager interface {
	// CreateCipher returns an AEAD for key. key must be KeySize bytes.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}
