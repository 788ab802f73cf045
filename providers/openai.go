package providers

import (
	"encoding/json"
	"fmt"

	"github.com/teodorv/medcycle/config"
	"github.com/teodorv/medcycle/utils"
)

// OpenAIProvider implements Provider for the OpenAI chat completions API
// and compatible endpoints.
type OpenAIProvider struct {
	apiKey       string
	model        string
	extraHeaders map[string]string
	options      map[string]any
	logger       utils.Logger
}

// NewOpenAIProvider creates an OpenAI provider for the given model.
func NewOpenAIProvider(apiKey, model string, extraHeaders map[string]string) Provider {
	provider := &OpenAIProvider{
		apiKey:       apiKey,
		model:        model,
		extraHeaders: make(map[string]string),
		options:      make(map[string]any),
		logger:       utils.NewLogger(utils.LogLevelInfo),
	}
	for k, v := range extraHeaders {
		provider.extraHeaders[k] = v
	}
	return provider
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Endpoint() string {
	return "https://api.openai.com/v1/chat/completions"
}

func (p *OpenAIProvider) Headers() map[string]string {
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + p.apiKey,
	}
	for k, v := range p.extraHeaders {
		headers[k] = v
	}
	return headers
}

func (p *OpenAIProvider) SetExtraHeaders(extraHeaders map[string]string) {
	p.extraHeaders = extraHeaders
}

func (p *OpenAIProvider) SetLogger(logger utils.Logger) {
	p.logger = logger
}

func (p *OpenAIProvider) SetOption(key string, value any) {
	p.options[key] = value
}

func (p *OpenAIProvider) SetDefaultOptions(cfg *config.Config) {
	p.SetOption("max_tokens", cfg.MaxTokens)
}

func (p *OpenAIProvider) SupportsJSONSchema() bool {
	return true
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (p *OpenAIProvider) requestBody(prompt string, options map[string]any) map[string]any {
	body := map[string]any{
		"model": p.model,
		"messages": []openAIMessage{
			{Role: "user", Content: prompt},
		},
	}
	for k, v := range p.options {
		body[k] = v
	}
	for k, v := range options {
		body[k] = v
	}
	return body
}

func (p *OpenAIProvider) PrepareRequest(prompt string, options map[string]any) ([]byte, error) {
	return json.Marshal(p.requestBody(prompt, options))
}

// PrepareRequestWithSchema constrains the output via response_format with
// a JSON schema, per the structured-outputs API.
func (p *OpenAIProvider) PrepareRequestWithSchema(prompt string, options map[string]any, schema any) ([]byte, error) {
	body := p.requestBody(prompt, options)
	body["response_format"] = map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   "response",
			"schema": schema,
		},
	}
	return json.Marshal(body)
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (p *OpenAIProvider) ParseResponse(body []byte) (string, error) {
	var resp openAIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse openai response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("openai error %s: %s", resp.Error.Type, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty openai response")
	}
	return resp.Choices[0].Message.Content, nil
}
