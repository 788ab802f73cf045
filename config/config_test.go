package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teodorv/medcycle/utils"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "google", cfg.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 15.0, cfg.SearchRadiusKm)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, time.Hour, cfg.SessionIdleTimeout)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, 4000, cfg.MemoryTokens)
	assert.Equal(t, utils.LogLevelWarn, cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_MODEL", "gpt-4o")
	t.Setenv("LLM_MAX_ATTEMPTS", "5")
	t.Setenv("LLM_RETRY_DELAY", "500ms")
	t.Setenv("SEARCH_RADIUS_KM", "25")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 25.0, cfg.SearchRadiusKm)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, utils.LogLevelDebug, cfg.LogLevel)
}

func TestLoadPicksUpAPIKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-openai")
	t.Setenv("GOOGLE_API_KEY", "test-google")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test-openai", cfg.APIKeys["openai"])
	assert.Equal(t, "test-google", cfg.APIKeys["google"])
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("LLM_MAX_ATTEMPTS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse environment")
}

func TestNewAppliesOptions(t *testing.T) {
	cfg := New(
		SetProvider("mock"),
		SetModel("test-model"),
		SetAPIKey("key-123"),
		SetMaxAttempts(7),
		SetRetryDelay(100*time.Millisecond),
		SetTimeout(5*time.Second),
		SetCacheTTL(10*time.Minute),
		SetSearchRadiusKm(5),
		SetLogLevel(utils.LogLevelError),
	)

	assert.Equal(t, "mock", cfg.Provider)
	assert.Equal(t, "test-model", cfg.Model)
	assert.Equal(t, "key-123", cfg.APIKeys["mock"])
	assert.Equal(t, 7, cfg.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 5.0, cfg.SearchRadiusKm)
	assert.Equal(t, utils.LogLevelError, cfg.LogLevel)
}
