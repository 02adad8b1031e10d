// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jsamuelsen/inference-frontend/internal/domain"
)

// Default configuration values.
const (
	// DefaultFrontendKind is the only frontend the host binary ships.
	DefaultFrontendKind = "http"

	// DefaultStopTimeout bounds how long the host waits for StopService.
	DefaultStopTimeout = 10 * time.Second

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Engine    EngineConfig    `koanf:"engine"`
	Frontend  FrontendConfig  `koanf:"frontend"  validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,hostname_port"`
	Insecure     bool    `koanf:"insecure"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// EngineConfig configures the in-process engine the host owns.
type EngineConfig struct {
	// Ready is the engine's initial readiness.
	Ready bool `koanf:"ready"`
}

// FrontendConfig selects and configures the frontend service.
type FrontendConfig struct {
	Kind        string        `koanf:"kind"         validate:"required,oneof=http"`
	StopTimeout time.Duration `koanf:"stop_timeout" validate:"required,min=1s"`

	// HTTP is handed to the frontend factory as-is. Its keys are validated
	// by the frontend, not here.
	HTTP map[string]any `koanf:"http"`

	// Restricted holds rules of the form "<categories>:<key>=<value>".
	Restricted []string `koanf:"restricted" validate:"dive,required"`
}

// FrontendMap converts the raw frontend section into the map the factory
// consumes.
func (c *Config) FrontendMap() (domain.ConfigMap, error) {
	m, err := domain.ConfigMapFromAny(c.Frontend.HTTP)
	if err != nil {
		return nil, fmt.Errorf("frontend.http: %w", err)
	}

	return m, nil
}

// RestrictedFeatures parses frontend.restricted into a feature set.
func (c *Config) RestrictedFeatures() (domain.RestrictedFeatures, error) {
	var rules []domain.RestrictedRule

	for _, raw := range c.Frontend.Restricted {
		parsed, err := domain.ParseRestrictedRules(raw)
		if err != nil {
			return domain.RestrictedFeatures{}, fmt.Errorf("frontend.restricted: %w", err)
		}

		rules = append(rules, parsed...)
	}

	features, err := domain.NewRestrictedFeatures(rules...)
	if err != nil {
		return domain.RestrictedFeatures{}, fmt.Errorf("frontend.restricted: %w", err)
	}

	return features, nil
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "inference-frontend",
		"app.version":     "dev",
		"app.environment": "local",

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/frontend.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.insecure":      true,
		"telemetry.service_name":  "inference-frontend",
		"telemetry.sampling_rate": 1.0,

		"engine.ready": true,

		"frontend.kind":         DefaultFrontendKind,
		"frontend.stop_timeout": "10s",
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load base config file if it exists
	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	// 3. Load profile config file if it exists
	if profile != "" {
		profilePath := fmt.Sprintf("configs/%s.yaml", profile)

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	// 4. Load environment variables with APP_ prefix
	err = k.Load(env.Provider("APP_", ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKey maps an APP_ variable to a koanf key. Keys with a default are
// matched exactly, so APP_FRONTEND_STOP_TIMEOUT yields frontend.stop_timeout.
// Frontend options have no defaults here and keep their underscores:
// APP_FRONTEND_HTTP_THREAD_COUNT yields frontend.http.thread_count.
// Anything else splits on every underscore.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "APP_"))

	if key, ok := knownEnvKeys[s]; ok {
		return key
	}

	if rest, ok := strings.CutPrefix(s, "frontend_http_"); ok {
		return "frontend.http." + rest
	}

	return strings.ReplaceAll(s, "_", ".")
}

// knownEnvKeys indexes every default key by its env spelling.
var knownEnvKeys = func() map[string]string {
	d := defaults()
	m := make(map[string]string, len(d))

	for key := range d {
		m[strings.ReplaceAll(key, ".", "_")] = key
	}

	return m
}()

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
