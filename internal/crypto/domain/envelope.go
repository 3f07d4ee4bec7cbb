package domain

import (
	"encoding/base64"

	"github.com/allisson/tokenizer/internal/errors"
)

// Envelope is a sealed request body with the key and IV needed to open it.
// All fields are standard base64.
type Envelope struct {
	EncryptedPayload string
	SessionKey       string
	IV               string
}

// Decode returns the raw ciphertext, key and IV.
func (e *Envelope) Decode() (ciphertext, key, iv []byte, err error) {
	if ciphertext, err = decodeField("encryptedPayload", e.EncryptedPayload); err != nil {
		return nil, nil, nil, err
	}
	if key, err = decodeField("sessionKey", e.SessionKey); err != nil {
		return nil, nil, nil, err
	}
	if iv, err = decodeField("iv", e.IV); err != nil {
		return nil, nil, nil, err
	}
	if len(key) != KeySize {
		return nil, nil, nil, ErrInvalidKeySize
	}
	return ciphertext, key, iv, nil
}

// DecodeField decodes a single base64 envelope field.
func DecodeField(name, value string) ([]byte, error) {
	return decodeField(name, value)
}

func decodeField(name, value string) ([]byte, error) {
	if value == "" {
		return nil, errors.Wrapf(ErrInvalidEnvelope, "%s is empty", name)
	}
	b, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidEnvelope, "%s is not base64", name)
	}
	return b, nil
}
