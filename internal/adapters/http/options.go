package http

import (
	"fmt"
	"net"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jsamuelsen/inference-frontend/internal/adapters/http/dto"
	"github.com/jsamuelsen/inference-frontend/internal/domain"
)

// Option defaults.
const (
	DefaultAddress           = "0.0.0.0"
	DefaultPort              = 8001
	DefaultThreadCount       = 8
	DefaultShutdownTimeoutMS = 5000
)

// Options configures one HTTP frontend. It is decoded from the
// configuration map handed to the factory; unknown keys are ignored.
type Options struct {
	Address              string `json:"address"                validate:"required,ip|hostname"`
	Port                 int    `json:"port"                   validate:"min=0,max=65535"`
	ReusePort            bool   `json:"reuse_port"`
	ThreadCount          int    `json:"thread_count"           validate:"gte=0"`
	HeaderForwardPattern string `json:"header_forward_pattern" validate:"regexp"`
	ShutdownTimeoutMS    int    `json:"shutdown_timeout_ms"    validate:"gte=0"`

	forward *regexp.Regexp
}

// DefaultOptions returns the options used for absent keys.
func DefaultOptions() Options {
	return Options{
		Address:           DefaultAddress,
		Port:              DefaultPort,
		ThreadCount:       DefaultThreadCount,
		ShutdownTimeoutMS: DefaultShutdownTimeoutMS,
	}
}

// ParseOptions decodes and validates m. Values of the wrong kind, values out
// of range and invalid patterns are reported as one InvalidArgumentError.
// Strings holding a number or boolean are accepted for int and bool keys, as
// produced by environment variables.
func ParseOptions(m domain.ConfigMap) (Options, error) {
	opts := DefaultOptions()

	var err error

	if opts.Address, err = m.String("address", opts.Address); err != nil {
		return Options{}, err
	}

	if opts.Port, err = intOption(m, "port", opts.Port); err != nil {
		return Options{}, err
	}

	if opts.ReusePort, err = boolOption(m, "reuse_port", opts.ReusePort); err != nil {
		return Options{}, err
	}

	if opts.ThreadCount, err = intOption(m, "thread_count", opts.ThreadCount); err != nil {
		return Options{}, err
	}

	if opts.HeaderForwardPattern, err = m.String("header_forward_pattern", ""); err != nil {
		return Options{}, err
	}

	if opts.ShutdownTimeoutMS, err = intOption(m, "shutdown_timeout_ms", opts.ShutdownTimeoutMS); err != nil {
		return Options{}, err
	}

	if err := dto.Validate(&opts); err != nil {
		return Options{}, invalidOptions(err)
	}

	if opts.HeaderForwardPattern != "" {
		opts.forward = regexp.MustCompile(opts.HeaderForwardPattern)
	}

	return opts, nil
}

// Addr returns the host:port the server listens on.
func (o Options) Addr() string {
	return net.JoinHostPort(o.Address, strconv.Itoa(o.Port))
}

// ShutdownTimeout returns the graceful shutdown budget.
func (o Options) ShutdownTimeout() time.Duration {
	return time.Duration(o.ShutdownTimeoutMS) * time.Millisecond
}

// ForwardPattern returns the compiled header_forward_pattern, nil if unset.
func (o Options) ForwardPattern() *regexp.Regexp {
	return o.forward
}

func intOption(m domain.ConfigMap, key string, def int) (int, error) {
	if v, ok := m.Lookup(key); ok {
		if s, isString := v.AsString(); isString {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return def, domain.NewInvalidArgumentError(fmt.Sprintf("config key %q: %q is not an integer", key, s))
			}

			return n, nil
		}
	}

	n, err := m.Int(key, int64(def))

	return int(n), err
}

func boolOption(m domain.ConfigMap, key string, def bool) (bool, error) {
	if v, ok := m.Lookup(key); ok {
		if s, isString := v.AsString(); isString {
			b, err := strconv.ParseBool(strings.TrimSpace(s))
			if err != nil {
				return def, domain.NewInvalidArgumentError(fmt.Sprintf("config key %q: %q is not a boolean", key, s))
			}

			return b, nil
		}
	}

	return m.Bool(key, def)
}

// invalidOptions flattens field errors into one sorted message.
func invalidOptions(err error) error {
	fields := dto.ValidationErrors(err)
	if len(fields) == 0 {
		return domain.NewInvalidArgumentError("invalid HTTP frontend options: " + err.Error())
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}

	slices.Sort(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + " " + fields[name]
	}

	return domain.NewInvalidArgumentError("invalid HTTP frontend options: " + strings.Join(parts, "; "))
}
