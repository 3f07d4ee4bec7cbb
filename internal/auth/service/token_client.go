package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	authDomain "github.com/allisson/tokenizer/internal/auth/domain"
	apperrors "github.com/allisson/tokenizer/internal/errors"
	"github.com/allisson/tokenizer/internal/remote"
	"github.com/allisson/tokenizer/internal/remote/dto"
)

// FormPoster is the subset of remote.Client the token client needs.
type FormPoster interface {
	PostForm(ctx context.Context, path string, form url.Values) ([]byte, error)
}

// tokenClient implements TokenClient with a form-encoded client-credentials grant.
type tokenClient struct {
	poster       FormPoster
	clientID     string
	clientSecret string
	logger       *slog.Logger
}

// NewTokenClient creates a TokenClient posting to the auth API behind poster.
func NewTokenClient(poster FormPoster, clientID, clientSecret string, logger *slog.Logger) TokenClient {
	return &tokenClient{
		poster:       poster,
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       logger,
	}
}

// RequestToken posts grant_type=client_credentials with the client id and secret.
// Non-2xx responses return ErrAuthenticationFailed; network failures return remote.ErrTransport.
func (c *tokenClient) RequestToken(ctx context.Context) (*authDomain.TokenGrant, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, authDomain.ErrMissingClientCredentials
	}

	form := url.Values{}
	form.Set("grant_type", dto.GrantTypeClientCredentials)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	body, err := c.poster.PostForm(ctx, remote.PathToken, form)
	if err != nil {
		if code, ok := remote.StatusCode(err); ok {
			c.logger.Error("access token request rejected",
				slog.String("client_id", c.clientID),
				slog.Int("status_code", code),
			)
			return nil, apperrors.Wrapf(authDomain.ErrAuthenticationFailed, "status %d", code)
		}
		c.logger.Error("access token request failed",
			slog.String("client_id", c.clientID),
			slog.Any("error", err),
		)
		return nil, err
	}

	var resp dto.TokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, remote.MalformedResponse(err)
	}
	if resp.AccessToken == "" || resp.ExpiresIn <= 0 {
		return nil, authDomain.ErrInvalidTokenResponse
	}

	return &authDomain.TokenGrant{
		AccessToken: resp.AccessToken,
		ExpiresIn:   resp.ExpiresIn,
		TokenType:   resp.TokenType,
		Scope:       resp.Scope,
	}, nil
}
