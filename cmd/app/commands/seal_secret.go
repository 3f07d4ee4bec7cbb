package commands

import (
	"context"
	"fmt"
	"log/slog"

	authService "github.com/allisson/tokenizer/internal/auth/service"
)

// RunSealSecret encrypts a client secret with the gocloud.dev/secrets keeper at
// keeperURI and writes the base64 ciphertext, ready for CLIENT_SECRET together
// with CLIENT_SECRET_KEEPER_URI. When secret is empty the first non-blank line
// of io.Reader is used.
func RunSealSecret(
	ctx context.Context,
	keeper authService.SecretKeeper,
	logger *slog.Logger,
	io IOTuple,
	keeperURI string,
	secret string,
) error {
	if keeperURI == "" {
		return fmt.Errorf("--keeper-uri is required (e.g., base64key://<32-byte-base64-key>, hashivault://mykey)")
	}

	if secret == "" {
		lines, err := readLines(io.Reader)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return fmt.Errorf("no secret provided")
		}
		secret = lines[0]
	}

	sealed, err := keeper.Seal(ctx, keeperURI, secret)
	if err != nil {
		return fmt.Errorf("failed to seal client secret: %w", err)
	}

	logger.Info("client secret sealed")

	_, err = fmt.Fprintln(io.Writer, sealed)
	return err
}
