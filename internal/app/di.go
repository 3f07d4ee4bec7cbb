// Package app provides the dependency injection container that assembles the SDK
// client stack and the dev server from configuration.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"

	authService "github.com/allisson/tokenizer/internal/auth/service"
	authUseCase "github.com/allisson/tokenizer/internal/auth/usecase"
	"github.com/allisson/tokenizer/internal/cache"
	"github.com/allisson/tokenizer/internal/config"
	cryptoService "github.com/allisson/tokenizer/internal/crypto/service"
	"github.com/allisson/tokenizer/internal/database"
	devHTTP "github.com/allisson/tokenizer/internal/devserver/http"
	devService "github.com/allisson/tokenizer/internal/devserver/service"
	devUseCase "github.com/allisson/tokenizer/internal/devserver/usecase"
	httpServer "github.com/allisson/tokenizer/internal/http"
	"github.com/allisson/tokenizer/internal/metrics"
	"github.com/allisson/tokenizer/internal/remote"
	"github.com/allisson/tokenizer/internal/retry"
	"github.com/allisson/tokenizer/internal/tokenization/strategy"
	tokenizationUseCase "github.com/allisson/tokenizer/internal/tokenization/usecase"
)

// Option customizes a Container before any component is built.
type Option func(*Container)

// WithLogger replaces the logger built from LOG_LEVEL.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
			c.loggerInit.Do(func() {})
		}
	}
}

// WithHTTPClient replaces the HTTP client used for remote calls. Its transport
// is still wrapped with metrics instrumentation when metrics are enabled.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.baseHTTPClient = client
	}
}

// WithMeterProvider records metrics on an external meter provider instead of
// the built-in Prometheus provider.
func WithMeterProvider(meterProvider metric.MeterProvider) Option {
	return func(c *Container) {
		c.externalMeterProvider = meterProvider
	}
}

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Lifetime of background work started by components
	ctx    context.Context
	cancel context.CancelFunc

	// Infrastructure
	logger                *slog.Logger
	baseHTTPClient        *http.Client
	externalMeterProvider metric.MeterProvider
	metricsProvider       *metrics.Provider
	meterProvider         metric.MeterProvider
	businessMetrics       metrics.BusinessMetrics
	httpClient            *http.Client
	limiter               *rate.Limiter
	db                    *sql.DB
	txManager             database.TxManager
	metricsServer         *httpServer.MetricsServer

	// Remote clients
	apiClient  *remote.Client
	authClient *remote.Client

	// Auth
	secretKeeper      authService.SecretKeeper
	tokenClient       authService.TokenClient
	credentialUseCase authUseCase.CredentialUseCase

	// Crypto
	aeadManager     cryptoService.AEADManager
	sessionCipher   *cryptoService.SessionCipher
	envelopeService *cryptoService.EnvelopeService

	// Tokenization
	tokenCache          *cache.TokenCache
	retryExecutor       *retry.Executor
	encryptionState     *strategy.EncryptionState
	plainStrategy       *strategy.PlainStrategy
	encryptedStrategy   *strategy.EncryptedStrategy
	tokenizationUseCase tokenizationUseCase.TokenizationUseCase

	// Dev server
	devSecretService       devService.SecretService
	devTokenRepository     devUseCase.TokenRepository
	devAccessTokenRepo     devUseCase.AccessTokenRepository
	devClientRepository    devUseCase.ClientRepository
	devTxManager           database.TxManager
	valueProtector         devUseCase.ValueProtector
	tokenGenerator         devService.TokenGenerator
	devAuthUseCase         devUseCase.AuthUseCase
	devTokenizationUseCase devUseCase.TokenizationUseCase
	devTokenHandler        *devHTTP.TokenHandler
	devTokenizationHandler *devHTTP.TokenizationHandler
	devServer              *httpServer.Server

	// Initialization flags and mutex for thread-safety
	mu                         sync.Mutex
	loggerInit                 sync.Once
	meterProviderInit          sync.Once
	businessMetricsInit        sync.Once
	httpClientInit             sync.Once
	limiterInit                sync.Once
	dbInit                     sync.Once
	txManagerInit              sync.Once
	metricsServerInit          sync.Once
	apiClientInit              sync.Once
	authClientInit             sync.Once
	secretKeeperInit           sync.Once
	tokenClientInit            sync.Once
	credentialUseCaseInit      sync.Once
	aeadManagerInit            sync.Once
	sessionCipherInit          sync.Once
	envelopeServiceInit        sync.Once
	tokenCacheInit             sync.Once
	retryExecutorInit          sync.Once
	encryptionStateInit        sync.Once
	plainStrategyInit          sync.Once
	encryptedStrategyInit      sync.Once
	tokenizationUseCaseInit    sync.Once
	devSecretServiceInit       sync.Once
	devTokenRepositoryInit     sync.Once
	devAccessTokenRepoInit     sync.Once
	devClientRepositoryInit    sync.Once
	devTxManagerInit           sync.Once
	valueProtectorInit         sync.Once
	tokenGeneratorInit         sync.Once
	devAuthUseCaseInit         sync.Once
	devTokenizationUseCaseInit sync.Once
	devTokenHandlerInit        sync.Once
	devTokenizationHandlerInit sync.Once
	devServerInit              sync.Once
	initErrors                 map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config, opts ...Option) *Container {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Container{
		config:     cfg,
		ctx:        ctx,
		cancel:     cancel,
		initErrors: make(map[string]error),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MeterProvider returns the meter provider metrics are recorded on, or nil when
// metrics are disabled.
func (c *Container) MeterProvider() (metric.MeterProvider, error) {
	var err error
	c.meterProviderInit.Do(func() {
		c.meterProvider, err = c.initMeterProvider()
		if err != nil {
			c.setInitError("meterProvider", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("meterProvider"); storedErr != nil {
		return nil, storedErr
	}
	return c.meterProvider, nil
}

// MetricsProvider returns the built-in Prometheus provider, or nil when metrics
// are disabled or an external meter provider was supplied.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	if _, err := c.MeterProvider(); err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It is a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.setInitError("businessMetrics", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("businessMetrics"); storedErr != nil {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPClient returns the HTTP client shared by the remote clients.
func (c *Container) HTTPClient() (*http.Client, error) {
	var err error
	c.httpClientInit.Do(func() {
		c.httpClient, err = c.initHTTPClient()
		if err != nil {
			c.setInitError("httpClient", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("httpClient"); storedErr != nil {
		return nil, storedErr
	}
	return c.httpClient, nil
}

// RateLimiter returns the client-side limiter shared by every outgoing request,
// or nil when throttling is disabled.
func (c *Container) RateLimiter() *rate.Limiter {
	c.limiterInit.Do(func() {
		if c.config.RateLimitEnabled {
			c.limiter = rate.NewLimiter(rate.Limit(c.config.RateLimitRequestsPerSec), c.config.RateLimitBurst)
		}
	})
	return c.limiter
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.setInitError("db", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("db"); storedErr != nil {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.setInitError("txManager", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("txManager"); storedErr != nil {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsServer returns the Prometheus metrics server.
func (c *Container) MetricsServer() (*httpServer.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.setInitError("metricsServer", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("metricsServer"); storedErr != nil {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.devServer != nil {
		if err := c.devServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

func (c *Container) setInitError(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErrors[name] = err
}

func (c *Container) initError(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[name]
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initMeterProvider prefers an external meter provider and otherwise builds the
// Prometheus provider when metrics are enabled.
func (c *Container) initMeterProvider() (metric.MeterProvider, error) {
	if c.externalMeterProvider != nil {
		return c.externalMeterProvider, nil
	}
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	c.metricsProvider = provider
	return provider.MeterProvider(), nil
}

// initBusinessMetrics creates business metrics on the meter provider, or a no-op recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	meterProvider, err := c.MeterProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get meter provider for business metrics: %w", err)
	}
	if meterProvider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(meterProvider, c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPClient builds the shared HTTP client with the configured timeout and
// an instrumented transport when metrics are enabled.
func (c *Container) initHTTPClient() (*http.Client, error) {
	client := &http.Client{Timeout: c.config.HTTPTimeout}
	if c.baseHTTPClient != nil {
		copied := *c.baseHTTPClient
		client = &copied
		if client.Timeout == 0 {
			client.Timeout = c.config.HTTPTimeout
		}
	}

	meterProvider, err := c.MeterProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get meter provider for http client: %w", err)
	}
	if meterProvider != nil {
		client.Transport = metrics.NewInstrumentedTransport(client.Transport, meterProvider, c.config.MetricsNamespace)
	}

	return client, nil
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(c.ctx, database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initMetricsServer creates the metrics server exposing the Prometheus provider.
func (c *Container) initMetricsServer() (*httpServer.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("metrics server requires METRICS_ENABLED")
	}
	return httpServer.NewMetricsServer(
		c.config.DevServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider.Handler(),
	), nil
}
