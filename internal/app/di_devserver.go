package app

import (
	"database/sql"
	"encoding/base64"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/tokenizer/internal/crypto/domain"
	"github.com/allisson/tokenizer/internal/database"
	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
	devHTTP "github.com/allisson/tokenizer/internal/devserver/http"
	devRepository "github.com/allisson/tokenizer/internal/devserver/repository"
	devService "github.com/allisson/tokenizer/internal/devserver/service"
	devUseCase "github.com/allisson/tokenizer/internal/devserver/usecase"
	httpServer "github.com/allisson/tokenizer/internal/http"
)

// DBDriverMemory keeps dev server tokens in process memory.
const DBDriverMemory = "memory"

// DevSecretService returns the Argon2id client secret hasher.
func (c *Container) DevSecretService() devService.SecretService {
	c.devSecretServiceInit.Do(func() {
		c.devSecretService = devService.NewSecretService()
	})
	return c.devSecretService
}

// DevClientRepository returns the repository of clients parsed from DEV_SERVER_CLIENTS.
func (c *Container) DevClientRepository() (devUseCase.ClientRepository, error) {
	var err error
	c.devClientRepositoryInit.Do(func() {
		c.devClientRepository, err = c.initDevClientRepository()
		if err != nil {
			c.setInitError("devClientRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("devClientRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.devClientRepository, nil
}

// DevAccessTokenRepository returns the in-memory bearer token store.
func (c *Container) DevAccessTokenRepository() devUseCase.AccessTokenRepository {
	c.devAccessTokenRepoInit.Do(func() {
		c.devAccessTokenRepo = devRepository.NewMemoryAccessTokenRepository()
	})
	return c.devAccessTokenRepo
}

// DevTokenRepository returns the token store selected by DB_DRIVER.
func (c *Container) DevTokenRepository() (devUseCase.TokenRepository, error) {
	var err error
	c.devTokenRepositoryInit.Do(func() {
		c.devTokenRepository, err = c.initDevTokenRepository()
		if err != nil {
			c.setInitError("devTokenRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("devTokenRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.devTokenRepository, nil
}

// DevTxManager returns a SQL transaction manager, or a pass-through one for the memory store.
func (c *Container) DevTxManager() (database.TxManager, error) {
	var err error
	c.devTxManagerInit.Do(func() {
		c.devTxManager, err = c.initDevTxManager()
		if err != nil {
			c.setInitError("devTxManager", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("devTxManager"); storedErr != nil {
		return nil, storedErr
	}
	return c.devTxManager, nil
}

// ValueProtector returns the at-rest protector built from DEV_SERVER_STORAGE_KEY.
func (c *Container) ValueProtector() (devUseCase.ValueProtector, error) {
	var err error
	c.valueProtectorInit.Do(func() {
		c.valueProtector, err = c.initValueProtector()
		if err != nil {
			c.setInitError("valueProtector", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("valueProtector"); storedErr != nil {
		return nil, storedErr
	}
	return c.valueProtector, nil
}

// TokenGenerator returns the generator selected by DEV_SERVER_TOKEN_FORMAT.
func (c *Container) TokenGenerator() (devService.TokenGenerator, error) {
	var err error
	c.tokenGeneratorInit.Do(func() {
		c.tokenGenerator, err = devService.NewTokenGenerator(devDomain.FormatType(c.config.DevServerTokenFormat))
		if err != nil {
			c.setInitError("tokenGenerator", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenGenerator"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenGenerator, nil
}

// DevAuthUseCase returns the dev server auth use case.
func (c *Container) DevAuthUseCase() (devUseCase.AuthUseCase, error) {
	var err error
	c.devAuthUseCaseInit.Do(func() {
		c.devAuthUseCase, err = c.initDevAuthUseCase()
		if err != nil {
			c.setInitError("devAuthUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("devAuthUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.devAuthUseCase, nil
}

// DevTokenizationUseCase returns the dev server tokenization use case.
func (c *Container) DevTokenizationUseCase() (devUseCase.TokenizationUseCase, error) {
	var err error
	c.devTokenizationUseCaseInit.Do(func() {
		c.devTokenizationUseCase, err = c.initDevTokenizationUseCase()
		if err != nil {
			c.setInitError("devTokenizationUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("devTokenizationUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.devTokenizationUseCase, nil
}

// DevTokenHandler returns the OAuth token endpoint handler.
func (c *Container) DevTokenHandler() (*devHTTP.TokenHandler, error) {
	var err error
	c.devTokenHandlerInit.Do(func() {
		var authUseCase devUseCase.AuthUseCase
		authUseCase, err = c.DevAuthUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get auth use case for token handler: %w", err)
			c.setInitError("devTokenHandler", err)
			return
		}
		c.devTokenHandler = devHTTP.NewTokenHandler(authUseCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("devTokenHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.devTokenHandler, nil
}

// DevTokenizationHandler returns the tokenization endpoints handler.
func (c *Container) DevTokenizationHandler() (*devHTTP.TokenizationHandler, error) {
	var err error
	c.devTokenizationHandlerInit.Do(func() {
		var useCase devUseCase.TokenizationUseCase
		useCase, err = c.DevTokenizationUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get tokenization use case for tokenization handler: %w", err)
			c.setInitError("devTokenizationHandler", err)
			return
		}
		c.devTokenizationHandler = devHTTP.NewTokenizationHandler(
			useCase,
			c.EnvelopeService(),
			c.config.DevServerRejectEncryption,
			c.Logger(),
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("devTokenizationHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.devTokenizationHandler, nil
}

// HTTPServer returns the dev server with its router configured.
func (c *Container) HTTPServer() (*httpServer.Server, error) {
	var err error
	c.devServerInit.Do(func() {
		c.devServer, err = c.initHTTPServer()
		if err != nil {
			c.setInitError("httpServer", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("httpServer"); storedErr != nil {
		return nil, storedErr
	}
	return c.devServer, nil
}

// initDevClientRepository parses DEV_SERVER_CLIENTS and hashes every secret.
func (c *Container) initDevClientRepository() (devUseCase.ClientRepository, error) {
	clients, err := devService.ParseClients(c.config.DevServerClients, c.DevSecretService())
	if err != nil {
		return nil, fmt.Errorf("failed to parse dev server clients: %w", err)
	}
	return devRepository.NewMemoryClientRepository(clients), nil
}

// initDevTokenRepository selects the token store based on the database driver.
func (c *Container) initDevTokenRepository() (devUseCase.TokenRepository, error) {
	if c.config.DBDriver == DBDriverMemory {
		return devRepository.NewMemoryTokenRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return devRepository.NewMySQLTokenRepository(db), nil
	case "postgres":
		return devRepository.NewPostgreSQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initDevTxManager returns the SQL transaction manager unless tokens live in memory.
func (c *Container) initDevTxManager() (database.TxManager, error) {
	if c.config.DBDriver == DBDriverMemory {
		return database.NewNoopTxManager(), nil
	}
	return c.TxManager()
}

// initValueProtector decodes the storage key, or generates an ephemeral one when
// none is configured.
func (c *Container) initValueProtector() (devUseCase.ValueProtector, error) {
	var key []byte
	if c.config.DevServerStorageKey == "" {
		generated, err := cryptoDomain.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate storage key: %w", err)
		}
		key = generated
		if c.config.DBDriver != DBDriverMemory {
			c.Logger().Warn("DEV_SERVER_STORAGE_KEY is empty, stored values will not survive a restart",
				slog.String("db_driver", c.config.DBDriver))
		}
	} else {
		decoded, err := base64.StdEncoding.DecodeString(c.config.DevServerStorageKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode storage key: %w", err)
		}
		key = decoded
	}
	defer cryptoDomain.Zero(key)

	protector, err := devService.NewValueProtector(key, cryptoDomain.AESGCM, c.AEADManager())
	if err != nil {
		return nil, fmt.Errorf("failed to create value protector: %w", err)
	}
	return protector, nil
}

// initDevAuthUseCase creates the auth use case with metrics instrumentation.
func (c *Container) initDevAuthUseCase() (devUseCase.AuthUseCase, error) {
	clientRepo, err := c.DevClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for auth use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
	}

	useCase := devUseCase.NewAuthUseCase(
		clientRepo,
		c.DevAccessTokenRepository(),
		c.DevSecretService(),
		devService.NewTokenService(),
		c.config.DevServerTokenExpiration,
		c.Logger(),
	)
	return devUseCase.NewAuthUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initDevTokenizationUseCase creates the tokenization use case with metrics instrumentation.
func (c *Container) initDevTokenizationUseCase() (devUseCase.TokenizationUseCase, error) {
	txManager, err := c.DevTxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for tokenization use case: %w", err)
	}

	tokenRepo, err := c.DevTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for tokenization use case: %w", err)
	}

	protector, err := c.ValueProtector()
	if err != nil {
		return nil, fmt.Errorf("failed to get value protector for tokenization use case: %w", err)
	}

	generator, err := c.TokenGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to get token generator for tokenization use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for tokenization use case: %w", err)
	}

	useCase := devUseCase.NewTokenizationUseCase(
		txManager,
		tokenRepo,
		protector,
		generator,
		c.config.DevServerTokenLength,
		c.Logger(),
	)
	return devUseCase.NewTokenizationUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initHTTPServer creates the dev server and registers every route.
func (c *Container) initHTTPServer() (*httpServer.Server, error) {
	tokenHandler, err := c.DevTokenHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get token handler for http server: %w", err)
	}

	tokenizationHandler, err := c.DevTokenizationHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenization handler for http server: %w", err)
	}

	authUseCase, err := c.DevAuthUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth use case for http server: %w", err)
	}

	meterProvider, err := c.MeterProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get meter provider for http server: %w", err)
	}

	var db *sql.DB
	if c.config.DBDriver != DBDriverMemory {
		if db, err = c.DB(); err != nil {
			return nil, fmt.Errorf("failed to get database for http server: %w", err)
		}
	}

	server := httpServer.NewServer(db, c.config.DevServerHost, c.config.DevServerPort, c.Logger())
	server.SetupRouter(c.ctx, c.config, tokenHandler, tokenizationHandler, authUseCase, meterProvider)

	return server, nil
}
