package logging

import (
	"context"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/m-mizutani/masq"
)

var (
	jwtPattern       = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
	bearerPattern    = regexp.MustCompile(`(?i)^bearer\s+.+$`)
	basicAuthPattern = regexp.MustCompile(`(?i)^basic\s+.+$`)
)

// sensitiveFields are attribute keys whose values are always masked. Header
// names appear lowercased because header forwarding logs them that way.
var sensitiveFields = []string{
	"password", "secret", "token", "credential", "credentials",
	"apiKey", "apikey", "api_key", "x-api-key",
	"accessToken", "access_token", "refreshToken", "refresh_token",
	"authorization", "proxy-authorization", "auth", "bearer",
	"cookie", "set-cookie", "session",
	"privateKey", "private_key", "secretKey", "secret_key",
}

// DefaultRedactOptions returns the masq options applied to every handler.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(sensitiveFields)+5)
	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	return append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(basicAuthPattern),
	)
}

// RedactFields masks additional attribute keys, such as the headers that
// carry restricted API credentials. Names are lowercased to match forwarded
// header attrs.
func RedactFields(names ...string) []masq.Option {
	opts := make([]masq.Option, 0, len(names))
	for _, name := range names {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			opts = append(opts, masq.WithFieldName(name))
		}
	}

	return opts
}

// NewReplaceAttr returns a slog ReplaceAttr that applies DefaultRedactOptions
// followed by opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}

// RedactHandler applies a ReplaceAttr function in front of a handler that
// has no ReplaceAttr hook of its own, such as the charm pretty handler.
type RedactHandler struct {
	next    slog.Handler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
}

// NewRedactHandler wraps next so every record and WithAttrs attr passes
// through replace first.
func NewRedactHandler(next slog.Handler, replace func(groups []string, a slog.Attr) slog.Attr) *RedactHandler {
	return &RedactHandler{next: next, replace: replace}
}

// Enabled defers to the wrapped handler.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle rebuilds r with redacted attrs and hands it on.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redact(h.groups, a))
		return true
	})

	return h.next.Handle(ctx, out)
}

// WithAttrs redacts attrs before the wrapped handler stores them.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redact(h.groups, a)
	}

	return &RedactHandler{next: h.next.WithAttrs(redacted), replace: h.replace, groups: h.groups}
}

// WithGroup opens name on the wrapped handler and tracks it for replace.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &RedactHandler{
		next:    h.next.WithGroup(name),
		replace: h.replace,
		groups:  append(slices.Clip(h.groups), name),
	}
}

// redact mirrors the built-in handlers: groups are walked member by member
// and replace never sees the group attr itself.
func (h *RedactHandler) redact(groups []string, a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() != slog.KindGroup {
		return h.replace(groups, a)
	}

	members := a.Value.Group()
	inner := groups
	if a.Key != "" {
		inner = append(slices.Clip(groups), a.Key)
	}

	out := make([]slog.Attr, len(members))
	for i, m := range members {
		out[i] = h.redact(inner, m)
	}

	return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
}
