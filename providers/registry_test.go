package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryRegistersAllKnownProviders(t *testing.T) {
	registry := NewRegistry()

	for _, name := range []string{"google", "openai", "mock"} {
		provider, err := registry.Get(name, "key", "model", nil)
		require.NoError(t, err, name)
		assert.Equal(t, name, provider.Name())
	}
}

func TestNewRegistryWithSubset(t *testing.T) {
	registry := NewRegistry("mock")

	_, err := registry.Get("mock", "key", "model", nil)
	require.NoError(t, err)

	_, err = registry.Get("google", "key", "model", nil)
	assert.Error(t, err)
}

func TestGetUnknownProvider(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Get("nonexistent", "key", "model", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestRegisterCustomProvider(t *testing.T) {
	registry := NewRegistry("mock")
	registry.Register("custom", NewMockProvider)

	provider, err := registry.Get("custom", "key", "model", nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", provider.Name())
}
