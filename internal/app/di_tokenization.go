package app

import (
	"fmt"

	"github.com/allisson/tokenizer/internal/cache"
	"github.com/allisson/tokenizer/internal/remote"
	"github.com/allisson/tokenizer/internal/retry"
	"github.com/allisson/tokenizer/internal/tokenization/strategy"
	tokenizationUseCase "github.com/allisson/tokenizer/internal/tokenization/usecase"
)

// APIClient returns the remote client bound to the tokenization API.
func (c *Container) APIClient() (*remote.Client, error) {
	var err error
	c.apiClientInit.Do(func() {
		c.apiClient, err = c.initAPIClient()
		if err != nil {
			c.setInitError("apiClient", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("apiClient"); storedErr != nil {
		return nil, storedErr
	}
	return c.apiClient, nil
}

// TokenCache returns the token cache. It is a pass-through when ENABLE_CACHE is false.
func (c *Container) TokenCache() *cache.TokenCache {
	c.tokenCacheInit.Do(func() {
		c.tokenCache = cache.NewTokenCache(c.config.EnableCache)
	})
	return c.tokenCache
}

// EncryptionState returns the one-way encryption kill switch shared by every call.
func (c *Container) EncryptionState() *strategy.EncryptionState {
	c.encryptionStateInit.Do(func() {
		c.encryptionState = strategy.NewEncryptionState()
	})
	return c.encryptionState
}

// RetryExecutor returns the retry executor used by both strategies.
func (c *Container) RetryExecutor() (*retry.Executor, error) {
	var err error
	c.retryExecutorInit.Do(func() {
		c.retryExecutor, err = c.initRetryExecutor()
		if err != nil {
			c.setInitError("retryExecutor", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("retryExecutor"); storedErr != nil {
		return nil, storedErr
	}
	return c.retryExecutor, nil
}

// PlainStrategy returns the plain JSON strategy.
func (c *Container) PlainStrategy() (*strategy.PlainStrategy, error) {
	var err error
	c.plainStrategyInit.Do(func() {
		c.plainStrategy, err = c.initPlainStrategy()
		if err != nil {
			c.setInitError("plainStrategy", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("plainStrategy"); storedErr != nil {
		return nil, storedErr
	}
	return c.plainStrategy, nil
}

// EncryptedStrategy returns the encryption-over-transit strategy.
func (c *Container) EncryptedStrategy() (*strategy.EncryptedStrategy, error) {
	var err error
	c.encryptedStrategyInit.Do(func() {
		c.encryptedStrategy, err = c.initEncryptedStrategy()
		if err != nil {
			c.setInitError("encryptedStrategy", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("encryptedStrategy"); storedErr != nil {
		return nil, storedErr
	}
	return c.encryptedStrategy, nil
}

// TokenizationUseCase returns the token operation engine.
func (c *Container) TokenizationUseCase() (tokenizationUseCase.TokenizationUseCase, error) {
	var err error
	c.tokenizationUseCaseInit.Do(func() {
		c.tokenizationUseCase, err = c.initTokenizationUseCase()
		if err != nil {
			c.setInitError("tokenizationUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenizationUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenizationUseCase, nil
}

// initAPIClient creates the remote client for API_BASE_URL.
func (c *Container) initAPIClient() (*remote.Client, error) {
	httpClient, err := c.HTTPClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get http client for api client: %w", err)
	}
	return remote.NewClient(c.config.APIBaseURL, httpClient, c.RateLimiter(), c.Logger()), nil
}

// initRetryExecutor creates the executor from the retry settings.
func (c *Container) initRetryExecutor() (*retry.Executor, error) {
	credentials, err := c.CredentialUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential use case for retry executor: %w", err)
	}

	return retry.NewExecutor(retry.Config{
		MaxAttempts:  c.config.RetryMaxAttempts,
		InitialDelay: c.config.RetryInitialDelay,
		MaxDelay:     c.config.RetryMaxDelay,
	}, credentials, c.Logger()), nil
}

// initPlainStrategy creates the plain strategy.
func (c *Container) initPlainStrategy() (*strategy.PlainStrategy, error) {
	apiClient, err := c.APIClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get api client for plain strategy: %w", err)
	}

	executor, err := c.RetryExecutor()
	if err != nil {
		return nil, fmt.Errorf("failed to get retry executor for plain strategy: %w", err)
	}

	return strategy.NewPlainStrategy(apiClient, executor, c.Logger()), nil
}

// initEncryptedStrategy creates the encrypted strategy falling back to plain.
func (c *Container) initEncryptedStrategy() (*strategy.EncryptedStrategy, error) {
	plain, err := c.PlainStrategy()
	if err != nil {
		return nil, fmt.Errorf("failed to get plain strategy for encrypted strategy: %w", err)
	}

	cipher, err := c.SessionCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get session cipher for encrypted strategy: %w", err)
	}

	apiClient, err := c.APIClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get api client for encrypted strategy: %w", err)
	}

	executor, err := c.RetryExecutor()
	if err != nil {
		return nil, fmt.Errorf("failed to get retry executor for encrypted strategy: %w", err)
	}

	return strategy.NewEncryptedStrategy(
		plain,
		cipher,
		c.EncryptionState(),
		apiClient,
		executor,
		c.Logger(),
	), nil
}

// initTokenizationUseCase creates the operation engine with metrics instrumentation.
func (c *Container) initTokenizationUseCase() (tokenizationUseCase.TokenizationUseCase, error) {
	plain, err := c.PlainStrategy()
	if err != nil {
		return nil, fmt.Errorf("failed to get plain strategy for tokenization use case: %w", err)
	}

	encrypted, err := c.EncryptedStrategy()
	if err != nil {
		return nil, fmt.Errorf("failed to get encrypted strategy for tokenization use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for tokenization use case: %w", err)
	}

	useCase := tokenizationUseCase.NewTokenizationUseCase(c.TokenCache(), plain, encrypted, c.Logger())
	return tokenizationUseCase.NewTokenizationUseCaseWithMetrics(useCase, businessMetrics), nil
}
