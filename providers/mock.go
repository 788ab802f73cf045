package providers

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/teodorv/medcycle/config"
	"github.com/teodorv/medcycle/utils"
)

// MockProvider implements Provider for tests. Responses are served from a
// configurable queue; when the queue is exhausted the default response text
// is returned.
type MockProvider struct {
	mu           sync.Mutex
	endpoint     string
	model        string
	extraHeaders map[string]string
	options      map[string]any
	logger       utils.Logger

	responseText string
	responses    []string
	currentIndex int
	err          error
}

// NewMockProvider creates a mock provider instance for testing.
func NewMockProvider(apiKey, model string, extraHeaders map[string]string) Provider {
	if extraHeaders == nil {
		extraHeaders = make(map[string]string)
	}
	return &MockProvider{
		endpoint:     "http://mock.invalid/generate",
		model:        model,
		extraHeaders: extraHeaders,
		options:      make(map[string]any),
		logger:       utils.NewMockLogger(),
		responseText: "mock response",
	}
}

// SetEndpoint points the provider at a test server.
func (p *MockProvider) SetEndpoint(endpoint string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endpoint = endpoint
}

// SetMockResponse configures the default response text.
func (p *MockProvider) SetMockResponse(response string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responseText = response
}

// SetResponses configures a queue of responses returned in sequence.
func (p *MockProvider) SetResponses(responses ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = responses
	p.currentIndex = 0
}

// SetMockError makes ParseResponse fail with msg; empty msg clears it.
func (p *MockProvider) SetMockError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if msg == "" {
		p.err = nil
		return
	}
	p.err = errors.New(msg)
}

func (p *MockProvider) Name() string     { return "mock" }
func (p *MockProvider) Endpoint() string { return p.endpoint }

func (p *MockProvider) Headers() map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	for k, v := range p.extraHeaders {
		headers[k] = v
	}
	return headers
}

func (p *MockProvider) SetExtraHeaders(headers map[string]string) { p.extraHeaders = headers }
func (p *MockProvider) SetLogger(logger utils.Logger)             { p.logger = logger }
func (p *MockProvider) SetOption(key string, value any)           { p.options[key] = value }
func (p *MockProvider) SetDefaultOptions(cfg *config.Config)      {}
func (p *MockProvider) SupportsJSONSchema() bool                  { return true }

func (p *MockProvider) PrepareRequest(prompt string, options map[string]any) ([]byte, error) {
	body := map[string]any{
		"model":  p.model,
		"prompt": prompt,
	}
	for k, v := range options {
		body[k] = v
	}
	return json.Marshal(body)
}

func (p *MockProvider) PrepareRequestWithSchema(prompt string, options map[string]any, schema any) ([]byte, error) {
	return p.PrepareRequest(prompt, options)
}

func (p *MockProvider) ParseResponse(body []byte) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return "", p.err
	}
	if len(p.responses) == 0 {
		return p.responseText, nil
	}
	if p.currentIndex >= len(p.responses) {
		return "", errors.New("mock responses exhausted")
	}
	response := p.responses[p.currentIndex]
	p.currentIndex++
	return response, nil
}
