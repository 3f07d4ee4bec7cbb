package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/tokenizer/internal/database"
	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
	devService "github.com/allisson/tokenizer/internal/devserver/service"
	apperrors "github.com/allisson/tokenizer/internal/errors"
	"github.com/allisson/tokenizer/pkg/converter"
)

// maxCreateAttempts bounds retries after a unique-constraint conflict.
const maxCreateAttempts = 5

// tokenizationUseCase implements TokenizationUseCase.
type tokenizationUseCase struct {
	txManager   database.TxManager
	tokenRepo   TokenRepository
	protector   ValueProtector
	generator   devService.TokenGenerator
	tokenLength int
	logger      *slog.Logger
}

// NewTokenizationUseCase creates a TokenizationUseCase. tokenLength is passed to
// generators whose format has a variable length.
func NewTokenizationUseCase(
	txManager database.TxManager,
	tokenRepo TokenRepository,
	protector ValueProtector,
	generator devService.TokenGenerator,
	tokenLength int,
	logger *slog.Logger,
) TokenizationUseCase {
	return &tokenizationUseCase{
		txManager:   txManager,
		tokenRepo:   tokenRepo,
		protector:   protector,
		generator:   generator,
		tokenLength: tokenLength,
		logger:      logger,
	}
}

// Tokenize returns the existing token for (value, dataType) or creates a new one.
//
// Lookup and insert run in one transaction. A conflict means another request
// created the same value or the generator produced a taken token; the whole
// step is retried so the first case resolves to the other request's token.
func (t *tokenizationUseCase) Tokenize(
	ctx context.Context,
	input devDomain.TypedValue,
) (*devDomain.TokenizeOutput, error) {
	if err := validateTypedValue(input); err != nil {
		return nil, err
	}

	valueHash := t.protector.Hash(input.Value, input.DataType)

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		var output *devDomain.TokenizeOutput
		err := t.txManager.WithTx(ctx, func(ctx context.Context) error {
			existing, err := t.tokenRepo.GetByValueHash(ctx, valueHash)
			if err == nil {
				output = &devDomain.TokenizeOutput{
					Value:    input.Value,
					Token:    existing.Token,
					DataType: existing.DataType,
					Exists:   true,
				}
				return nil
			}
			if !apperrors.Is(err, devDomain.ErrTokenNotFound) {
				return err
			}

			token, err := t.newToken(input, valueHash)
			if err != nil {
				return err
			}
			if err := t.tokenRepo.Create(ctx, token); err != nil {
				return err
			}

			output = &devDomain.TokenizeOutput{
				Value:        input.Value,
				Token:        token.Token,
				DataType:     token.DataType,
				NewlyCreated: true,
			}
			return nil
		})
		if err == nil {
			return output, nil
		}
		if !apperrors.Is(err, devDomain.ErrTokenConflict) {
			return nil, err
		}

		t.logger.Debug("token insert conflict",
			slog.String("data_type", input.DataType),
			slog.Int("attempt", attempt),
		)
	}

	return nil, devDomain.ErrTokenGenerationFailed
}

// Detokenize decrypts the value mapped to token.
func (t *tokenizationUseCase) Detokenize(ctx context.Context, token string) (*devDomain.DetokenizeOutput, error) {
	if token == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "token is required")
	}

	stored, err := t.tokenRepo.GetByToken(ctx, token)
	if err != nil {
		if apperrors.Is(err, devDomain.ErrTokenNotFound) {
			return &devDomain.DetokenizeOutput{Token: token}, nil
		}
		return nil, err
	}

	value, err := t.protector.Open(stored.Ciphertext, stored.Nonce)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decrypt stored value")
	}

	return &devDomain.DetokenizeOutput{
		Token:    token,
		Value:    value,
		DataType: stored.DataType,
		Exists:   true,
	}, nil
}

// BatchTokenize tokenizes inputs in order. Repeated values in one batch get the same token.
func (t *tokenizationUseCase) BatchTokenize(
	ctx context.Context,
	inputs []devDomain.TypedValue,
) ([]*devDomain.TokenizeOutput, error) {
	for i, input := range inputs {
		if err := validateTypedValue(input); err != nil {
			return nil, apperrors.Wrapf(err, "values[%d]", i)
		}
	}

	outputs := make([]*devDomain.TokenizeOutput, 0, len(inputs))
	for _, input := range inputs {
		output, err := t.Tokenize(ctx, input)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, output)
	}
	return outputs, nil
}

// BatchDetokenize resolves tokens in order.
func (t *tokenizationUseCase) BatchDetokenize(
	ctx context.Context,
	tokens []string,
) ([]*devDomain.DetokenizeOutput, error) {
	outputs := make([]*devDomain.DetokenizeOutput, 0, len(tokens))
	for i, token := range tokens {
		output, err := t.Detokenize(ctx, token)
		if err != nil {
			return nil, apperrors.Wrapf(err, "tokens[%d]", i)
		}
		outputs = append(outputs, output)
	}
	return outputs, nil
}

func (t *tokenizationUseCase) newToken(input devDomain.TypedValue, valueHash string) (*devDomain.Token, error) {
	tokenValue, err := t.generator.Generate(t.tokenLength)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate token")
	}

	ciphertext, nonce, err := t.protector.Seal(input.Value)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt value")
	}

	return &devDomain.Token{
		ID:         uuid.Must(uuid.NewV7()),
		Token:      tokenValue,
		ValueHash:  valueHash,
		DataType:   input.DataType,
		Ciphertext: ciphertext,
		Nonce:      nonce,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// validateTypedValue rejects empty values and values not representable in their data type.
func validateTypedValue(input devDomain.TypedValue) error {
	if input.Value == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "value is required")
	}
	_, err := converter.Parse(converter.DataType(input.DataType), input.Value)
	return err
}
