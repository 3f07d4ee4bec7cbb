package service

import (
	"encoding/base64"

	cryptoDomain "github.com/allisson/tokenizer/internal/crypto/domain"
)

// EnvelopeService is the receiving side of encryption over transit: it opens a
// request envelope with the key it carries and seals the response with the same key.
type EnvelopeService struct {
	manager AEADManager
}

// NewEnvelopeService creates an EnvelopeService.
func NewEnvelopeService(manager AEADManager) *EnvelopeService {
	return &EnvelopeService{manager: manager}
}

// OpenRequest decrypts env and returns the plaintext and the session key for SealResponse.
func (e *EnvelopeService) OpenRequest(alg cryptoDomain.Algorithm, env *cryptoDomain.Envelope) ([]byte, []byte, error) {
	ciphertext, key, iv, err := env.Decode()
	if err != nil {
		return nil, nil, err
	}

	aead, err := e.manager.CreateCipher(key, alg)
	if err != nil {
		return nil, nil, err
	}

	plaintext, err := aead.Decrypt(ciphertext, iv)
	if err != nil {
		return nil, nil, err
	}
	return plaintext, key, nil
}

// SealResponse encrypts plaintext with key and returns the base64 payload and IV.
func (e *EnvelopeService) SealResponse(alg cryptoDomain.Algorithm, key, plaintext []byte) (string, string, error) {
	aead, err := e.manager.CreateCipher(key, alg)
	if err != nil {
		return "", "", err
	}

	ciphertext, iv, err := aead.Encrypt(plaintext)
	if err != nil {
		return "", "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), base64.StdEncoding.EncodeToString(iv), nil
}
