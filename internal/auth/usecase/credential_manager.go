package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	authDomain "github.com/allisson/tokenizer/internal/auth/domain"
	authService "github.com/allisson/tokenizer/internal/auth/service"
)

const refreshKey = "refresh"

// credentialManager implements CredentialUseCase.
type credentialManager struct {
	tokenClient authService.TokenClient
	logger      *slog.Logger
	now         func() time.Time

	group singleflight.Group

	mu         sync.RWMutex
	credential *authDomain.Credential
}

// NewCredentialManager creates a CredentialUseCase backed by tokenClient.
func NewCredentialManager(tokenClient authService.TokenClient, logger *slog.Logger) CredentialUseCase {
	return &credentialManager{
		tokenClient: tokenClient,
		logger:      logger,
		now:         time.Now,
	}
}

// GetAccessToken returns the stored token while it is usable and refreshes it otherwise.
func (m *credentialManager) GetAccessToken(ctx context.Context) (string, error) {
	if c := m.current(); c.Usable(m.now()) {
		return c.Token, nil
	}
	return m.refresh(ctx, false)
}

// RefreshAccessToken forces a new token from the auth API.
func (m *credentialManager) RefreshAccessToken(ctx context.Context) (string, error) {
	return m.refresh(ctx, true)
}

func (m *credentialManager) current() *authDomain.Credential {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.credential
}

// refresh joins the in-flight refresh or starts one. The flight is detached from
// the caller's context, so a caller that gives up does not abort it for the others.
func (m *credentialManager) refresh(ctx context.Context, force bool) (string, error) {
	ch := m.group.DoChan(refreshKey, func() (any, error) {
		if !force {
			if c := m.current(); c.Usable(m.now()) {
				return c, nil
			}
		}

		grant, err := m.tokenClient.RequestToken(context.WithoutCancel(ctx))
		if err != nil {
			m.logger.Error("failed to refresh access token", slog.Any("error", err))
			return nil, err
		}

		credential := authDomain.NewCredential(grant.AccessToken, grant.ExpiresIn, m.now())

		m.mu.Lock()
		m.credential = credential
		m.mu.Unlock()

		m.logger.Debug("access token refreshed", slog.Time("expires_at", credential.ExpiresAt))
		return credential, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(*authDomain.Credential).Token, nil
	}
}
