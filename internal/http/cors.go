package http

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/allisson/tokenizer/internal/remote"
)

// createCORSMiddleware returns nil when CORS is disabled or no usable origin is
// configured. The SDK is not a browser, so CORS only matters for browser
// tooling pointed at the dev server.
//
// allowOriginsStr is a comma-separated list of origins; "*" allows any origin.
// Entries that are not absolute http(s) origins are dropped with a warning.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	config := cors.Config{
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{
			"Authorization",
			"Content-Type",
			remote.HeaderEncrypted,
			remote.HeaderEncryptionAlgorithm,
			remote.HeaderRequestID,
		},
		ExposeHeaders: []string{
			remote.HeaderRequestID,
			remote.HeaderEncrypted,
			remote.HeaderEncryptionAlgorithm,
			"Retry-After",
		},
		MaxAge: 12 * time.Hour,
	}

	origins := parseOrigins(allowOriginsStr, logger)
	switch {
	case len(origins) == 0:
		logger.Warn("CORS enabled but no valid origins configured - CORS will not be applied")
		return nil
	case len(origins) == 1 && origins[0] == "*":
		config.AllowAllOrigins = true
	default:
		config.AllowOrigins = origins
	}

	logger.Info("CORS enabled",
		slog.Int("origin_count", len(origins)),
		slog.Any("origins", origins))

	return cors.New(config)
}

// parseOrigins splits and trims a comma-separated origin list. A lone "*"
// wins over any other entry.
func parseOrigins(originsStr string, logger *slog.Logger) []string {
	if strings.TrimSpace(originsStr) == "" {
		return nil
	}

	parts := strings.Split(originsStr, ",")
	origins := make([]string, 0, len(parts))

	for _, part := range parts {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		if origin == "" {
			continue
		}
		if origin == "*" {
			return []string{"*"}
		}
		if !isHTTPOrigin(origin) {
			logger.Warn("ignoring invalid CORS origin", slog.String("origin", origin))
			continue
		}
		origins = append(origins, origin)
	}

	return origins
}

func isHTTPOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && u.Path == ""
}
