package strategy

import (
	"context"
	"encoding/json"
	"log/slog"

	cryptoDomain "github.com/allisson/tokenizer/internal/crypto/domain"
	apperrors "github.com/allisson/tokenizer/internal/errors"
	"github.com/allisson/tokenizer/internal/remote"
	"github.com/allisson/tokenizer/internal/remote/dto"
	"github.com/allisson/tokenizer/internal/retry"
)

// Cipher seals outgoing bodies and opens incoming ones.
type Cipher interface {
	Enabled() bool
	Algorithm() cryptoDomain.Algorithm
	Encrypt(plaintext []byte) (*cryptoDomain.Envelope, error)
	Decrypt(payload, iv string) ([]byte, error)
}

// EncryptedStrategy sends bodies in an encrypted envelope and falls back to the
// plain strategy when the envelope cannot be used.
//
// Execution flow:
//  1. Encryption disabled by configuration or by an earlier 419: send plain.
//  2. Sealing fails: log it and send this one call plain.
//  3. Send the envelope through the retry executor with X-Encrypted set.
//  4. A 419 answer disables encryption for the process and the call is replayed plain.
//  5. Otherwise the {itp, itv} answer is opened with the session key. A failure
//     here is returned as is, with no retry and no fallback.
//
// Thread safety:
//
//	Safe for concurrent use. The fallback flag is an EncryptionState shared with
//	every caller; once set it never clears.
type EncryptedStrategy struct {
	plain     *PlainStrategy
	cipher    Cipher
	state     *EncryptionState
	transport Transport
	executor  *retry.Executor
	logger    *slog.Logger
}

// NewEncryptedStrategy creates an EncryptedStrategy falling back to plain.
func NewEncryptedStrategy(
	plain *PlainStrategy,
	cipher Cipher,
	state *EncryptionState,
	transport Transport,
	executor *retry.Executor,
	logger *slog.Logger,
) *EncryptedStrategy {
	return &EncryptedStrategy{
		plain:     plain,
		cipher:    cipher,
		state:     state,
		transport: transport,
		executor:  executor,
		logger:    logger,
	}
}

// Execute sends request encrypted when possible and returns the decrypted response body.
func (s *EncryptedStrategy) Execute(ctx context.Context, op remote.Operation, request any) ([]byte, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "failed to encode request")
	}

	if s.state.Disabled() || !s.cipher.Enabled() {
		return s.plain.post(ctx, op, body)
	}

	env, err := s.cipher.Encrypt(body)
	if err != nil {
		s.logger.Warn("request encryption failed, sending this request unencrypted",
			slog.String("operation", op.String()),
			slog.Any("error", err),
		)
		return s.plain.post(ctx, op, body)
	}

	sealed, err := json.Marshal(dto.EncryptedRequest{
		EncryptedPayload: env.EncryptedPayload,
		SessionKey:       env.SessionKey,
		IV:               env.IV,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "failed to encode envelope")
	}

	algorithm := string(s.cipher.Algorithm())
	respBody, err := retry.Do(ctx, s.executor, func(ctx context.Context, bearer string) ([]byte, error) {
		return s.transport.Post(ctx, remote.Request{
			Op:        op,
			Body:      sealed,
			Bearer:    bearer,
			Encrypted: true,
			Algorithm: algorithm,
		})
	})
	if err != nil {
		if code, ok := remote.StatusCode(err); ok && code == remote.StatusDecryptionFailed {
			if s.state.Disable() {
				s.logger.Warn("remote service cannot decrypt requests, encryption disabled for this client",
					slog.String("operation", op.String()),
				)
			}
			return s.plain.post(ctx, op, body)
		}
		return nil, err
	}

	var envelope dto.EncryptedResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, remote.MalformedResponse(err)
	}

	plaintext, err := s.cipher.Decrypt(envelope.ITP, envelope.ITV)
	if err != nil {
		s.logger.Error("response decryption failed",
			slog.String("operation", op.String()),
			slog.Any("error", err),
		)
		return nil, remote.MalformedResponse(err)
	}
	return plaintext, nil
}
