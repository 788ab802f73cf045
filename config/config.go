// Package config holds the service configuration, loaded from the
// environment and adjustable through functional options.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/teodorv/medcycle/utils"
)

// Config is the full service configuration. Every field has an
// environment binding; defaults describe a local development setup.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080" validate:"required"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	// LLM settings.
	Provider    string        `env:"LLM_PROVIDER" envDefault:"google" validate:"required"`
	Model       string        `env:"LLM_MODEL" envDefault:"gemini-2.0-flash" validate:"required"`
	MaxTokens   int           `env:"LLM_MAX_TOKENS" envDefault:"1024" validate:"min=1"`
	Timeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	MaxAttempts int           `env:"LLM_MAX_ATTEMPTS" envDefault:"3" validate:"min=1"`
	RetryDelay  time.Duration `env:"LLM_RETRY_DELAY" envDefault:"2s"`
	APIKeys     map[string]string

	// Remote lookup settings.
	GeocodeEndpoint  string        `env:"GEOCODE_ENDPOINT" envDefault:"https://nominatim.openstreetmap.org/search"`
	OverpassEndpoint string        `env:"OVERPASS_ENDPOINT" envDefault:"https://overpass-api.de/api/interpreter"`
	SearchRadiusKm   float64       `env:"SEARCH_RADIUS_KM" envDefault:"15" validate:"gt=0"`
	CacheTTL         time.Duration `env:"CACHE_TTL" envDefault:"1h"`

	// Chat session settings.
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"1h"`
	SweepInterval      time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1h"`
	MemoryTokens       int           `env:"CHAT_MEMORY_TOKENS" envDefault:"4000" validate:"min=1"`

	LogLevel utils.LogLevel `env:"LOG_LEVEL" envDefault:"WARN"`
}

var validate = validator.New()

// Load reads the configuration from the environment. API keys are picked
// up from any *_API_KEY variable, keyed by the lowercased provider name.
func Load() (*Config, error) {
	cfg := &Config{
		APIKeys: make(map[string]string),
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	loadAPIKeys(cfg)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func loadAPIKeys(cfg *Config) {
	for _, envVar := range os.Environ() {
		key, value, found := strings.Cut(envVar, "=")
		if found && strings.HasSuffix(strings.ToUpper(key), "_API_KEY") {
			provider := strings.TrimSuffix(strings.ToUpper(key), "_API_KEY")
			cfg.APIKeys[strings.ToLower(provider)] = value
		}
	}
}

// Option mutates a Config.
type Option func(*Config)

// New builds a Config with defaults suitable for tests, then applies opts.
func New(opts ...Option) *Config {
	cfg := &Config{
		Port:               "8080",
		Provider:           "google",
		Model:              "gemini-2.0-flash",
		MaxTokens:          1024,
		Timeout:            30 * time.Second,
		MaxAttempts:        3,
		RetryDelay:         2 * time.Second,
		APIKeys:            make(map[string]string),
		GeocodeEndpoint:    "https://nominatim.openstreetmap.org/search",
		OverpassEndpoint:   "https://overpass-api.de/api/interpreter",
		SearchRadiusKm:     15,
		CacheTTL:           time.Hour,
		SessionIdleTimeout: time.Hour,
		SweepInterval:      time.Hour,
		MemoryTokens:       4000,
		LogLevel:           utils.LogLevelWarn,
	}
	ApplyOptions(cfg, opts...)
	return cfg
}

// ApplyOptions applies opts to cfg in order.
func ApplyOptions(cfg *Config, opts ...Option) {
	for _, opt := range opts {
		opt(cfg)
	}
}

func SetProvider(provider string) Option {
	return func(c *Config) { c.Provider = provider }
}

func SetModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

func SetAPIKey(apiKey string) Option {
	return func(c *Config) {
		if c.APIKeys == nil {
			c.APIKeys = make(map[string]string)
		}
		c.APIKeys[c.Provider] = apiKey
	}
}

func SetMaxAttempts(maxAttempts int) Option {
	return func(c *Config) { c.MaxAttempts = maxAttempts }
}

func SetRetryDelay(retryDelay time.Duration) Option {
	return func(c *Config) { c.RetryDelay = retryDelay }
}

func SetTimeout(timeout time.Duration) Option {
	return func(c *Config) { c.Timeout = timeout }
}

func SetCacheTTL(ttl time.Duration) Option {
	return func(c *Config) { c.CacheTTL = ttl }
}

func SetSearchRadiusKm(radius float64) Option {
	return func(c *Config) { c.SearchRadiusKm = radius }
}

func SetLogLevel(level utils.LogLevel) Option {
	return func(c *Config) { c.LogLevel = level }
}
