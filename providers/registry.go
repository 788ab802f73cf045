package providers

import (
	"fmt"
	"sync"
)

// Registry manages the registration and retrieval of completion providers.
// It is safe for concurrent use.
type Registry struct {
	providers map[string]Constructor
	mutex     sync.RWMutex
}

// NewRegistry creates a registry with the given providers. With no names,
// all known providers are registered.
func NewRegistry(providerNames ...string) *Registry {
	registry := &Registry{
		providers: make(map[string]Constructor),
	}

	known := knownProviders()
	if len(providerNames) == 0 {
		for name, constructor := range known {
			registry.providers[name] = constructor
		}
	} else {
		for _, name := range providerNames {
			if constructor, ok := known[name]; ok {
				registry.providers[name] = constructor
			}
		}
	}

	return registry
}

func knownProviders() map[string]Constructor {
	return map[string]Constructor{
		"google": NewGeminiProvider,
		"openai": NewOpenAIProvider,
		"mock":   NewMockProvider,
	}
}

// Register adds a provider constructor under name, replacing any previous
// registration.
func (r *Registry) Register(name string, constructor Constructor) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.providers[name] = constructor
}

// Get constructs the named provider.
func (r *Registry) Get(name, apiKey, model string, extraHeaders map[string]string) (Provider, error) {
	r.mutex.RLock()
	constructor, ok := r.providers[name]
	r.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return constructor(apiKey, model, extraHeaders), nil
}
