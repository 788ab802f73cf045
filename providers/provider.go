// Package providers implements the generative-language provider interface
// and its concrete implementations. The service ships with Google's
// Generative Language API (Gemini) and OpenAI-compatible endpoints, plus a
// mock provider for tests.
package providers

import (
	"github.com/teodorv/medcycle/config"
	"github.com/teodorv/medcycle/utils"
)

// Provider is the interface every completion backend must implement.
// PrepareRequest and ParseResponse translate between a plain prompt string
// and the provider's wire format; the HTTP exchange itself lives in the
// llm package.
type Provider interface {
	// Core identification and configuration
	Name() string
	Endpoint() string
	Headers() map[string]string
	SetExtraHeaders(extraHeaders map[string]string)
	SetDefaultOptions(cfg *config.Config)
	SetOption(key string, value any)
	SetLogger(logger utils.Logger)

	// Request preparation
	PrepareRequest(prompt string, options map[string]any) ([]byte, error)
	PrepareRequestWithSchema(prompt string, options map[string]any, schema any) ([]byte, error)

	// Response handling
	ParseResponse(body []byte) (string, error)

	// Capability checks
	SupportsJSONSchema() bool
}

// Constructor creates a new provider instance. Each provider implementation
// registers a function of this type.
type Constructor func(apiKey, model string, extraHeaders map[string]string) Provider
