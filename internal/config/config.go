// Package config provides SDK and dev server configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	customValidation "github.com/allisson/tokenizer/internal/validation"
)

// Config holds all configuration recognized by the SDK, the CLI and the dev server.
type Config struct {
	// ClientID is the client identifier sent in the client-credentials grant.
	ClientID string
	// ClientSecret is the client secret sent in the client-credentials grant.
	// When ClientSecretKeeperURI is set it holds the keeper ciphertext (base64).
	ClientSecret string
	// ClientSecretKeeperURI is an optional gocloud.dev/secrets URL used to open ClientSecret.
	ClientSecretKeeperURI string

	// APIBaseURL is the base URL of the remote tokenization API.
	APIBaseURL string
	// AuthBaseURL is the base URL of the remote authentication API.
	AuthBaseURL string

	// EnableEncryption turns on encryption over transit for encrypted calls.
	EnableEncryption bool
	// EncryptionAlgorithm is the envelope AEAD ("aes-gcm" or "chacha20-poly1305").
	EncryptionAlgorithm string
	// EnableCache turns on the in-memory token cache.
	EnableCache bool

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// RetryMaxAttempts is the maximum number of attempts for a remote call.
	RetryMaxAttempts int
	// RetryInitialDelay is the base delay of the exponential backoff.
	RetryInitialDelay time.Duration
	// RetryMaxDelay caps a single backoff delay.
	RetryMaxDelay time.Duration
	// HTTPTimeout bounds a single HTTP request.
	HTTPTimeout time.Duration

	// RateLimitEnabled throttles outgoing requests on the client side.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the steady outgoing request rate.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the outgoing burst size.
	RateLimitBurst int

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// DevServerHost is the host address the dev server binds to.
	DevServerHost string
	// DevServerPort is the port the dev server listens on.
	DevServerPort int
	// DevServerClients is a comma-separated list of "client_id:client_secret" pairs.
	DevServerClients string
	// DevServerTokenExpiration is the lifetime of issued bearer tokens.
	DevServerTokenExpiration time.Duration
	// DevServerTokenFormat selects the token generator ("uuid", "numeric", "luhn-preserving", "alphanumeric").
	DevServerTokenFormat string
	// DevServerTokenLength is the length of generated tokens for the non-UUID formats.
	DevServerTokenLength int
	// DevServerStorageKey is the base64 256-bit key protecting stored values.
	// An empty key makes the dev server generate an ephemeral one at startup.
	DevServerStorageKey string
	// DevServerRejectEncryption makes the dev server answer every encrypted request with 419.
	DevServerRejectEncryption bool
	// DevServerRateLimitEnabled enables per-client rate limiting on the dev server.
	DevServerRateLimitEnabled bool
	// DevServerRateLimitRequestsPerSec is the per-client rate on the dev server.
	DevServerRateLimitRequestsPerSec float64
	// DevServerRateLimitBurst is the per-client burst on the dev server.
	DevServerRateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled on the dev server.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// DBDriver selects the dev server token store ("memory", "postgres", "mysql").
	DBDriver string
	// DBConnectionString is the connection string for the database.
	DBConnectionString string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		// Client credentials
		ClientID:              env.GetString("CLIENT_ID", ""),
		ClientSecret:          env.GetString("CLIENT_SECRET", ""),
		ClientSecretKeeperURI: env.GetString("CLIENT_SECRET_KEEPER_URI", ""),

		// Remote endpoints
		APIBaseURL:  env.GetString("API_BASE_URL", "http://localhost:8080"),
		AuthBaseURL: env.GetString("AUTH_BASE_URL", "http://localhost:8080"),

		// Encryption over transit and cache
		EnableEncryption:    env.GetBool("ENABLE_ENCRYPTION", true),
		EncryptionAlgorithm: env.GetString("ENCRYPTION_ALGORITHM", "aes-gcm"),
		EnableCache:         env.GetBool("ENABLE_CACHE", true),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Retry
		RetryMaxAttempts:  env.GetInt("RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay: env.GetDuration("RETRY_INITIAL_DELAY_MS", 200, time.Millisecond),
		RetryMaxDelay:     env.GetDuration("RETRY_MAX_DELAY_MS", 5000, time.Millisecond),
		HTTPTimeout:       env.GetDuration("HTTP_TIMEOUT_SECONDS", 30, time.Second),

		// Client-side throttling
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", false),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 50.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 100),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "tokenizer"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// Dev server
		DevServerHost:    env.GetString("DEV_SERVER_HOST", "0.0.0.0"),
		DevServerPort:    env.GetInt("DEV_SERVER_PORT", 8080),
		DevServerClients: env.GetString("DEV_SERVER_CLIENTS", ""),
		DevServerTokenExpiration: env.GetDuration(
			"DEV_SERVER_TOKEN_EXPIRATION_SECONDS",
			3600,
			time.Second,
		),
		DevServerTokenFormat:             env.GetString("DEV_SERVER_TOKEN_FORMAT", "uuid"),
		DevServerTokenLength:             env.GetInt("DEV_SERVER_TOKEN_LENGTH", 16),
		DevServerStorageKey:              env.GetString("DEV_SERVER_STORAGE_KEY", ""),
		DevServerRejectEncryption:        env.GetBool("DEV_SERVER_REJECT_ENCRYPTION", false),
		DevServerRateLimitEnabled:        env.GetBool("DEV_SERVER_RATE_LIMIT_ENABLED", true),
		DevServerRateLimitRequestsPerSec: env.GetFloat64("DEV_SERVER_RATE_LIMIT_REQUESTS_PER_SEC", 100.0),
		DevServerRateLimitBurst:          env.GetInt("DEV_SERVER_RATE_LIMIT_BURST", 200),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Database (dev server token store)
		DBDriver:             env.GetString("DB_DRIVER", "memory"),
		DBConnectionString:   env.GetString("DB_CONNECTION_STRING", ""),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 25),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),
	}
}

// Validate checks the settings the SDK client needs before it can talk to the remote service.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.ClientID, validation.Required, customValidation.NotBlank),
		validation.Field(&c.ClientSecret, validation.Required, customValidation.NotBlank),
		validation.Field(&c.APIBaseURL, validation.Required, customValidation.HTTPURL),
		validation.Field(&c.AuthBaseURL, validation.Required, customValidation.HTTPURL),
		validation.Field(&c.EncryptionAlgorithm,
			validation.When(c.EnableEncryption,
				validation.Required,
				validation.In("aes-gcm", "chacha20-poly1305"),
			),
		),
		validation.Field(&c.RetryMaxAttempts, validation.Required, validation.Min(1)),
		validation.Field(&c.RetryInitialDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.RetryMaxDelay, validation.Min(c.RetryInitialDelay)),
		validation.Field(&c.RateLimitRequestsPerSec,
			validation.When(c.RateLimitEnabled, validation.Required, validation.Min(0.001)),
		),
		validation.Field(&c.RateLimitBurst,
			validation.When(c.RateLimitEnabled, validation.Required, validation.Min(1)),
		),
	)
	return customValidation.WrapValidationError(err)
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
