package app

import (
	"fmt"

	authService "github.com/allisson/tokenizer/internal/auth/service"
	authUseCase "github.com/allisson/tokenizer/internal/auth/usecase"
	"github.com/allisson/tokenizer/internal/remote"
)

// AuthClient returns the remote client bound to the auth API.
func (c *Container) AuthClient() (*remote.Client, error) {
	var err error
	c.authClientInit.Do(func() {
		c.authClient, err = c.initAuthClient()
		if err != nil {
			c.setInitError("authClient", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("authClient"); storedErr != nil {
		return nil, storedErr
	}
	return c.authClient, nil
}

// SecretKeeper returns the keeper that seals and opens client secrets.
func (c *Container) SecretKeeper() authService.SecretKeeper {
	c.secretKeeperInit.Do(func() {
		c.secretKeeper = authService.NewSecretKeeper()
	})
	return c.secretKeeper
}

// TokenClient returns the client-credentials token client.
func (c *Container) TokenClient() (authService.TokenClient, error) {
	var err error
	c.tokenClientInit.Do(func() {
		c.tokenClient, err = c.initTokenClient()
		if err != nil {
			c.setInitError("tokenClient", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenClient"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenClient, nil
}

// CredentialUseCase returns the credential manager shared by every remote call.
func (c *Container) CredentialUseCase() (authUseCase.CredentialUseCase, error) {
	var err error
	c.credentialUseCaseInit.Do(func() {
		c.credentialUseCase, err = c.initCredentialUseCase()
		if err != nil {
			c.setInitError("credentialUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("credentialUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}

// initAuthClient creates the remote client for AUTH_BASE_URL.
func (c *Container) initAuthClient() (*remote.Client, error) {
	httpClient, err := c.HTTPClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get http client for auth client: %w", err)
	}
	return remote.NewClient(c.config.AuthBaseURL, httpClient, c.RateLimiter(), c.Logger()), nil
}

// initTokenClient creates the token client. A client secret sealed with a
// gocloud.dev/secrets keeper is opened once here.
func (c *Container) initTokenClient() (authService.TokenClient, error) {
	authClient, err := c.AuthClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client for token client: %w", err)
	}

	clientSecret := c.config.ClientSecret
	if c.config.ClientSecretKeeperURI != "" {
		clientSecret, err = c.SecretKeeper().Open(c.ctx, c.config.ClientSecretKeeperURI, c.config.ClientSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to open sealed client secret: %w", err)
		}
	}

	return authService.NewTokenClient(authClient, c.config.ClientID, clientSecret, c.Logger()), nil
}

// initCredentialUseCase creates the credential manager with metrics instrumentation.
func (c *Container) initCredentialUseCase() (authUseCase.CredentialUseCase, error) {
	tokenClient, err := c.TokenClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get token client for credential use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for credential use case: %w", err)
	}

	useCase := authUseCase.NewCredentialManager(tokenClient, c.Logger())
	return authUseCase.NewCredentialUseCaseWithMetrics(useCase, businessMetrics), nil
}
