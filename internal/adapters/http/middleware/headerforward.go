package middleware

import (
	"log/slog"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/inference-frontend/internal/platform/logging"
)

// HeaderForward selects request headers whose lower-case names match
// pattern. Selected headers are added to the request logger and stored in
// the request context (see ForwardedHeadersFromContext). A nil pattern
// disables forwarding.
func HeaderForward(pattern *regexp.Regexp) gin.HandlerFunc {
	if pattern == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		forwarded := selectHeaders(c.Request.Header, pattern)
		if len(forwarded) > 0 {
			names := make([]string, 0, len(forwarded))
			for name := range forwarded {
				names = append(names, name)
			}

			slices.Sort(names)

			attrs := make([]slog.Attr, len(names))
			for i, name := range names {
				attrs[i] = slog.String(name, forwarded[name])
			}

			ctx := ContextWithForwardedHeaders(c.Request.Context(), forwarded)
			ctx = logging.WithAttrs(ctx, attrs...)
			c.Request = c.Request.WithContext(ctx)

			logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "forwarding headers",
				slog.Int("count", len(forwarded)))
		}

		c.Next()
	}
}

func selectHeaders(h http.Header, pattern *regexp.Regexp) map[string]string {
	var out map[string]string

	for name, values := range h {
		lower := strings.ToLower(name)
		if !pattern.MatchString(lower) {
			continue
		}

		if out == nil {
			out = make(map[string]string)
		}

		out[lower] = strings.Join(values, ",")
	}

	return out
}

func canonical(name string) string {
	return http.CanonicalHeaderKey(name)
}
