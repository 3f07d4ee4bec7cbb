package app

import (
	"fmt"

	cryptoDomain "github.com/allisson/tokenizer/internal/crypto/domain"
	cryptoService "github.com/allisson/tokenizer/internal/crypto/service"
)

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// SessionCipher returns the encryption-over-transit cipher. Its session key is
// generated on first use and lives as long as the container.
func (c *Container) SessionCipher() (*cryptoService.SessionCipher, error) {
	var err error
	c.sessionCipherInit.Do(func() {
		c.sessionCipher, err = c.initSessionCipher()
		if err != nil {
			c.setInitError("sessionCipher", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("sessionCipher"); storedErr != nil {
		return nil, storedErr
	}
	return c.sessionCipher, nil
}

// EnvelopeService returns the service the dev server uses to open request
// envelopes and seal responses.
func (c *Container) EnvelopeService() *cryptoService.EnvelopeService {
	c.envelopeServiceInit.Do(func() {
		c.envelopeService = cryptoService.NewEnvelopeService(c.AEADManager())
	})
	return c.envelopeService
}

// initSessionCipher parses ENCRYPTION_ALGORITHM and creates the session cipher.
func (c *Container) initSessionCipher() (*cryptoService.SessionCipher, error) {
	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.EncryptionAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse encryption algorithm: %w", err)
	}
	return cryptoService.NewSessionCipher(c.config.EnableEncryption, algorithm, c.AEADManager()), nil
}
