package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	cryptoDomain "github.com/allisson/tokenizer/internal/crypto/domain"
	cryptoService "github.com/allisson/tokenizer/internal/crypto/service"
)

// ValueProtector encrypts stored values and derives the keyed lookup hash used for
// deterministic tokenization. Both use the same storage key.
type ValueProtector struct {
	aead    cryptoService.AEAD
	hashKey []byte
}

// NewValueProtector creates a ValueProtector from a 32-byte storage key.
func NewValueProtector(
	key []byte,
	alg cryptoDomain.Algorithm,
	manager cryptoService.AEADManager,
) (*ValueProtector, error) {
	aead, err := manager.CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte("value-hash"))

	return &ValueProtector{aead: aead, hashKey: mac.Sum(nil)}, nil
}

// Seal encrypts a plaintext value.
func (p *ValueProtector) Seal(value string) (ciphertext, nonce []byte, err error) {
	return p.aead.Encrypt([]byte(value))
}

// Open decrypts a stored value.
func (p *ValueProtector) Open(ciphertext, nonce []byte) (string, error) {
	plaintext, err := p.aead.Decrypt(ciphertext, nonce)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// Hash returns the hex HMAC-SHA256 of (dataType, value). The same value under two
// data types hashes differently.
func (p *ValueProtector) Hash(value, dataType string) string {
	mac := hmac.New(sha256.New, p.hashKey)
	mac.Write([]byte(dataType))
	mac.Write([]byte{0})
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}
