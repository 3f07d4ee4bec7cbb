package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	apperrors "github.com/allisson/tokenizer/internal/errors"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// secretKeeper implements SecretKeeper using gocloud.dev/secrets.
type secretKeeper struct{}

// NewSecretKeeper creates a SecretKeeper.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func NewSecretKeeper() SecretKeeper {
	return &secretKeeper{}
}

// Seal encrypts plainSecret with the keeper at keeperURI.
func (s *secretKeeper) Seal(ctx context.Context, keeperURI, plainSecret string) (string, error) {
	keeper, err := secrets.OpenKeeper(ctx, keeperURI)
	if err != nil {
		return "", fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		_ = keeper.Close()
	}()

	ciphertext, err := keeper.Encrypt(ctx, []byte(plainSecret))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to seal client secret")
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Open decrypts a sealed secret produced by Seal with the keeper at keeperURI.
func (s *secretKeeper) Open(ctx context.Context, keeperURI, sealedSecret string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(sealedSecret)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "sealed client secret is not base64")
	}

	keeper, err := secrets.OpenKeeper(ctx, keeperURI)
	if err != nil {
		return "", fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		_ = keeper.Close()
	}()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to open client secret")
	}
	return string(plaintext), nil
}
