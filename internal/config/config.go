// Package config carries environment-driven configuration for the
// server and CLI entry points, using a functional-options constructor
// in the style the wider pack uses for this kind of service config.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds every knob the entry points need: the HTTP port, the
// extrema cache's window and capacity, the Newton/slack epsilons, and
// where the bundled CSV station corpus lives. CORS origins are not
// here; internal/http reads CORS_ALLOWED_ORIGINS directly.
type Config struct {
	Environment string
	LogLevel    zerolog.Level

	HTTPPort string

	DataDir string

	CacheWindowDays int
	CacheCapacity   int

	SlackEpsilon  float64
	NewtonEpsilon float64
}

// Option configures a Config.
type Option func(*Config)

// WithEnvironment sets the deployment environment ("local",
// "development", "production").
func WithEnvironment(env string) Option {
	return func(c *Config) { c.Environment = env }
}

// WithLogLevel parses level and sets it, falling back to info on a
// parse failure.
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			parsed = zerolog.InfoLevel
		}
		c.LogLevel = parsed
	}
}

// WithHTTPPort sets the listen port.
func WithHTTPPort(port string) Option {
	return func(c *Config) { c.HTTPPort = port }
}

// WithDataDir sets the CSV station corpus directory.
func WithDataDir(dir string) Option {
	return func(c *Config) { c.DataDir = dir }
}

// WithCacheWindowDays sets the extrema cache's rolling window size.
func WithCacheWindowDays(days int) Option {
	return func(c *Config) { c.CacheWindowDays = days }
}

// WithCacheCapacity sets the extrema cache's LRU capacity.
func WithCacheCapacity(capacity int) Option {
	return func(c *Config) { c.CacheCapacity = capacity }
}

// WithSlackEpsilon sets the engine's slack-rate threshold.
func WithSlackEpsilon(eps float64) Option {
	return func(c *Config) { c.SlackEpsilon = eps }
}

// WithNewtonEpsilon sets the engine's Newton convergence threshold.
func WithNewtonEpsilon(eps float64) Option {
	return func(c *Config) { c.NewtonEpsilon = eps }
}

// New builds a Config from defaults, applying opts in order.
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:     "production",
		LogLevel:        zerolog.InfoLevel,
		HTTPPort:        "8080",
		DataDir:         "./testdata/stations",
		CacheWindowDays: 7,
		CacheCapacity:   512,
		SlackEpsilon:    0.05,
		NewtonEpsilon:   1e-3,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// InitializeLogging configures the global zerolog logger: console
// output in local/development environments, structured JSON otherwise.
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(c.LogLevel)

	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

// LoadFromEnv builds a Config from environment variables, falling
// back to New's defaults for anything unset or unparseable.
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPPort(getEnvOrDefault("HTTP_PORT", "8080")),
		WithDataDir(getEnvOrDefault("DATA_DIR", "./testdata/stations")),
		WithCacheWindowDays(getIntEnvOrDefault("CACHE_WINDOW_DAYS", 7)),
		WithCacheCapacity(getIntEnvOrDefault("CACHE_CAPACITY", 512)),
		WithSlackEpsilon(getFloatEnvOrDefault("SLACK_EPSILON", 0.05)),
		WithNewtonEpsilon(getFloatEnvOrDefault("NEWTON_EPSILON", 1e-3)),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnvOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
