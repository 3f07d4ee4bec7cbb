package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/tokenizer/internal/app"
	"github.com/allisson/tokenizer/internal/config"
	devUseCase "github.com/allisson/tokenizer/internal/devserver/usecase"
	httpServer "github.com/allisson/tokenizer/internal/http"
)

// purgeInterval is how often expired bearer tokens are removed from the dev server.
const purgeInterval = time.Minute

// RunDevServer starts the local tokenization server with graceful shutdown support.
// Blocks until receiving SIGINT/SIGTERM or encountering a fatal error.
func RunDevServer(ctx context.Context, version string) error {
	cfg := config.Load()

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info(
		"starting dev server",
		slog.String("version", version),
		slog.String("db_driver", cfg.DBDriver),
		slog.Bool("reject_encryption", cfg.DevServerRejectEncryption),
	)

	defer closeContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	var metricsServer *httpServer.MetricsServer
	if cfg.MetricsEnabled {
		metricsServer, err = container.MetricsServer()
		if err != nil {
			return fmt.Errorf("failed to initialize metrics server: %w", err)
		}
	}

	authUseCase, err := container.DevAuthUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize auth use case: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go purgeExpiredTokens(ctx, authUseCase, logger, purgeInterval)

	serverErr := make(chan error, 2)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErr <- fmt.Errorf("api server error: %w", err)
		}
	}()

	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	var shutdownErrors []error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("server error, initiating shutdown", slog.Any("error", err))
		shutdownErrors = append(shutdownErrors, err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		shutdownErrors = append(shutdownErrors, fmt.Errorf("api server shutdown: %w", err))
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// purgeExpiredTokens removes expired bearer tokens every interval until ctx is done.
func purgeExpiredTokens(
	ctx context.Context,
	authUseCase devUseCase.AuthUseCase,
	logger *slog.Logger,
	interval time.Duration,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := authUseCase.PurgeExpired(ctx)
			if err != nil {
				logger.Error("failed to purge expired tokens", slog.Any("error", err))
				continue
			}
			if removed > 0 {
				logger.Debug("purged expired tokens", slog.Int64("removed", removed))
			}
		}
	}
}
