package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/inference-frontend/internal/platform/logging"
)

// DefaultSkipPrefixes are probe and scrape paths that Logging ignores.
var DefaultSkipPrefixes = []string{"/v2/health/", "/metrics"}

// ContextLogger returns middleware that stores logger in the request
// context so later middleware can enrich it.
func ContextLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	}
}

// Logging returns middleware that logs HTTP requests.
// It logs:
//   - Request start: method, path, client_ip
//   - Request completion: status, latency, bytes written
//
// Paths starting with any of skipPrefixes are not logged; nil means
// DefaultSkipPrefixes.
func Logging(logger *slog.Logger, skipPrefixes []string) gin.HandlerFunc {
	if skipPrefixes == nil {
		skipPrefixes = DefaultSkipPrefixes
	}

	return func(c *gin.Context) {
		if hasAnyPrefix(c.Request.URL.Path, skipPrefixes) {
			c.Next()
			return
		}

		start := time.Now()

		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}

		// Enriched with request_id and forwarded headers by earlier middleware
		ctxLogger := logging.FromContextOr(c.Request.Context(), logger)

		ctxLogger.Debug("request started",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}

		ctxLogger.Log(c.Request.Context(), level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int64("latency_ms", latency.Milliseconds()),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
