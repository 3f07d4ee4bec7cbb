package service

import (
	"encoding/base64"
	"sync"

	cryptoDomain "github.com/allisson/tokenizer/internal/crypto/domain"
)

// SessionCipher seals request bodies and opens response bodies with a session key
// generated on first use and kept for the lifetime of the handle. The key is
// sent inside every envelope; the remote service keeps no per-client key state.
//
// Envelope layout:
//   - Session key: 256 bits from crypto/rand, created once by the first Encrypt
//   - IV: 96 bits from crypto/rand, fresh for every Encrypt
//   - Payload: ciphertext with the 128-bit authentication tag appended
//   - Key, IV and payload travel as standard base64
//
// The remote service answers with a payload sealed under the same session key,
// which Decrypt opens. A tag mismatch returns ErrDecryptionFailed and malformed
// base64 returns ErrInvalidEnvelope.
//
// Thread safety:
//
//	Safe for concurrent use. Key generation runs under sync.Once, so concurrent
//	first calls observe the same key. The underlying AEAD is stateless.
//
// Example usage:
//
//	cipher := NewSessionCipher(true, cryptoDomain.AESGCM, NewAEADManager())
//	envelope, err := cipher.Encrypt(body)
//	if err != nil {
//	    return err
//	}
//	// send envelope, receive {itp, itv}
//	plaintext, err := cipher.Decrypt(resp.ITP, resp.ITV)
type SessionCipher struct {
	enabled   bool
	algorithm cryptoDomain.Algorithm
	manager   AEADManager

	once    sync.Once
	key     []byte
	aead    AEAD
	initErr error
}

// NewSessionCipher creates a SessionCipher. A disabled cipher fails every call with ErrEncryptionDisabled.
func NewSessionCipher(enabled bool, algorithm cryptoDomain.Algorithm, manager AEADManager) *SessionCipher {
	return &SessionCipher{
		enabled:   enabled,
		algorithm: algorithm,
		manager:   manager,
	}
}

// Enabled reports whether encryption over transit is configured on.
func (s *SessionCipher) Enabled() bool {
	return s.enabled
}

// Algorithm returns the envelope algorithm.
func (s *SessionCipher) Algorithm() cryptoDomain.Algorithm {
	return s.algorithm
}

func (s *SessionCipher) init() error {
	s.once.Do(func() {
		key, err := cryptoDomain.GenerateKey()
		if err != nil {
			s.initErr = err
			return
		}
		aead, err := s.manager.CreateCipher(key, s.algorithm)
		if err != nil {
			cryptoDomain.Zero(key)
			s.initErr = err
			return
		}
		s.key = key
		s.aead = aead
	})
	return s.initErr
}

// Encrypt seals plaintext under the session key with a fresh IV.
func (s *SessionCipher) Encrypt(plaintext []byte) (*cryptoDomain.Envelope, error) {
	if !s.enabled {
		return nil, cryptoDomain.ErrEncryptionDisabled
	}
	if err := s.init(); err != nil {
		return nil, err
	}

	ciphertext, iv, err := s.aead.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}

	return &cryptoDomain.Envelope{
		EncryptedPayload: base64.StdEncoding.EncodeToString(ciphertext),
		SessionKey:       base64.StdEncoding.EncodeToString(s.key),
		IV:               base64.StdEncoding.EncodeToString(iv),
	}, nil
}

// Decrypt opens a base64 payload and IV with the session key.
func (s *SessionCipher) Decrypt(payload, iv string) ([]byte, error) {
	if !s.enabled {
		return nil, cryptoDomain.ErrEncryptionDisabled
	}
	if err := s.init(); err != nil {
		return nil, err
	}

	ciphertext, err := cryptoDomain.DecodeField("itp", payload)
	if err != nil {
		return nil, err
	}
	nonce, err := cryptoDomain.DecodeField("itv", iv)
	if err != nil {
		return nil, err
	}

	return s.aead.Decrypt(ciphertext, nonce)
}
