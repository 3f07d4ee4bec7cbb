package domain

import (
	"github.com/allisson/tokenizer/internal/errors"
)

// Encryption errors.
var (
	// ErrUnsupportedAlgorithm indicates an unknown envelope algorithm.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a session key that is not 32 bytes long.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates an authentication tag mismatch or a wrong key.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrInvalidEnvelope indicates an envelope field that is missing or not base64.
	ErrInvalidEnvelope = errors.Wrap(errors.ErrInvalidInput, "invalid envelope")

	// ErrEncryptionDisabled indicates encryption over transit is turned off by configuration.
	ErrEncryptionDisabled = errors.Wrap(errors.ErrUnsupported, "encryption disabled")
)
