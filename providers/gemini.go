package providers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/teodorv/medcycle/config"
	"github.com/teodorv/medcycle/utils"
)

// GeminiProvider implements Provider for Google's Generative Language API.
// It supports plain completions and schema-constrained JSON output via the
// generationConfig.responseSchema mechanism.
type GeminiProvider struct {
	apiKey       string
	model        string
	extraHeaders map[string]string
	options      map[string]any
	logger       utils.Logger
}

// NewGeminiProvider creates a Gemini provider for the given model, e.g.
// "gemini-2.0-flash". The model may be passed with or without the
// "models/" resource prefix.
func NewGeminiProvider(apiKey, model string, extraHeaders map[string]string) Provider {
	provider := &GeminiProvider{
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

func (p *GeminiProvider) Name() string {
	return "google"
}

// Endpoint returns the generateContent URL for the configured model.
func (p *GeminiProvider) Endpoint() string {
	modelName := p.model
	if !strings.HasPrefix(modelName, "models/") {
		modelName = "models/" + modelName
	}
	return fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/%s:generateContent", modelName)
}

func (p *GeminiProvider) Headers() map[string]string {
	headers := map[string]string{
		"Content-Type":   "application/json",
		"x-goog-api-key": p.apiKey,
	}
	for k, v := range p.extraHeaders {
		headers[k] = v
	}
	return headers
}

func (p *GeminiProvider) SetExtraHeaders(extraHeaders map[string]string) {
	p.extraHeaders = extraHeaders
}

func (p *GeminiProvider) SetLogger(logger utils.Logger) {
	p.logger = logger
}

func (p *GeminiProvider) SetOption(key string, value any) {
	p.options[key] = value
}

func (p *GeminiProvider) SetDefaultOptions(cfg *config.Config) {
	p.SetOption("max_tokens", cfg.MaxTokens)
}

func (p *GeminiProvider) SupportsJSONSchema() bool {
	return true
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig map[string]any  `json:"generationConfig,omitempty"`
}

// PrepareRequest builds the generateContent request body for a plain
// text completion.
func (p *GeminiProvider) PrepareRequest(prompt string, options map[string]any) ([]byte, error) {
	req := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: p.generationConfig(options),
	}
	return json.Marshal(req)
}

// PrepareRequestWithSchema builds a request that constrains the model
// output to JSON matching schema.
func (p *GeminiProvider) PrepareRequestWithSchema(prompt string, options map[string]any, schema any) ([]byte, error) {
	genConfig := p.generationConfig(options)
	genConfig["responseMimeType"] = "application/json"
	genConfig["responseSchema"] = schema

	req := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: genConfig,
	}
	return json.Marshal(req)
}

func (p *GeminiProvider) generationConfig(options map[string]any) map[string]any {
	genConfig := make(map[string]any)
	merged := make(map[string]any, len(p.options)+len(options))
	for k, v := range p.options {
		merged[k] = v
	}
	for k, v := range options {
		merged[k] = v
	}
	for k, v := range merged {
		switch k {
		case "temperature":
			genConfig["temperature"] = v
		case "max_tokens":
			genConfig["maxOutputTokens"] = v
		case "top_p":
			genConfig["topP"] = v
		}
	}
	return genConfig
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ParseResponse extracts the completion text from a generateContent
// response body.
func (p *GeminiProvider) ParseResponse(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse gemini response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("gemini error %s: %s", resp.Error.Status, resp.Error.Message)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty gemini response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
