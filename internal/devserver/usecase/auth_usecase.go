package usecase

import (
	"context"
	"log/slog"
	"time"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
	devService "github.com/allisson/tokenizer/internal/devserver/service"
	apperrors "github.com/allisson/tokenizer/internal/errors"
)

// authUseCase implements AuthUseCase.
type authUseCase struct {
	clientRepo    ClientRepository
	tokenRepo     AccessTokenRepository
	secretService devService.SecretService
	tokenService  devService.TokenService
	expiration    time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// NewAuthUseCase creates an AuthUseCase issuing tokens valid for expiration.
func NewAuthUseCase(
	clientRepo ClientRepository,
	tokenRepo AccessTokenRepository,
	secretService devService.SecretService,
	tokenService devService.TokenService,
	expiration time.Duration,
	logger *slog.Logger,
) AuthUseCase {
	return &authUseCase{
		clientRepo:    clientRepo,
		tokenRepo:     tokenRepo,
		secretService: secretService,
		tokenService:  tokenService,
		expiration:    expiration,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// IssueToken authenticates a client and generates a new bearer token.
//
// Unknown clients and wrong secrets both return ErrInvalidClientCredentials so
// callers cannot probe which client ids exist. The plain token is returned once;
// only its hash is stored.
func (a *authUseCase) IssueToken(
	ctx context.Context,
	input *devDomain.IssueTokenInput,
) (*devDomain.IssueTokenOutput, error) {
	client, err := a.clientRepo.Get(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}

	if !a.secretService.CompareSecret(input.ClientSecret, client.SecretHash) {
		return nil, devDomain.ErrInvalidClientCredentials
	}

	plainToken, tokenHash, err := a.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := a.now()
	token := &devDomain.AccessToken{
		TokenHash: tokenHash,
		ClientID:  client.ID,
		ExpiresAt: now.Add(a.expiration),
		CreatedAt: now,
	}
	if err := a.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	a.logger.Debug("access token issued", slog.String("client_id", client.ID))

	return &devDomain.IssueTokenOutput{
		PlainToken: plainToken,
		ExpiresIn:  int64(a.expiration / time.Second),
	}, nil
}

// Authenticate returns the client owning plainToken if it is known and unexpired.
func (a *authUseCase) Authenticate(ctx context.Context, plainToken string) (*devDomain.Client, error) {
	if plainToken == "" {
		return nil, devDomain.ErrInvalidAccessToken
	}

	token, err := a.tokenRepo.GetByTokenHash(ctx, a.tokenService.HashToken(plainToken))
	if err != nil {
		return nil, err
	}

	if token.IsExpired(a.now()) {
		return nil, devDomain.ErrInvalidAccessToken
	}

	client, err := a.clientRepo.Get(ctx, token.ClientID)
	if err != nil {
		if apperrors.Is(err, devDomain.ErrInvalidClientCredentials) {
			return nil, devDomain.ErrInvalidAccessToken
		}
		return nil, err
	}
	return client, nil
}

// PurgeExpired removes expired bearer tokens.
func (a *authUseCase) PurgeExpired(ctx context.Context) (int64, error) {
	removed, err := a.tokenRepo.DeleteExpired(ctx, a.now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		a.logger.Debug("expired access tokens purged", slog.Int64("count", removed))
	}
	return removed, nil
}
