// Package llm provides the completion client used by the chat and
// recommendation flows. It speaks to any registered provider over HTTP,
// retries rate-limited calls with exponential backoff, and supports
// schema-constrained JSON output.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/teodorv/medcycle/config"
	"github.com/teodorv/medcycle/providers"
	"github.com/teodorv/medcycle/retry"
	"github.com/teodorv/medcycle/utils"
)

// LLM is the completion interface consumed by the rest of the service.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateWithSchema(ctx context.Context, prompt string, schema any) (string, error)
	SetOption(key string, value any)
	GetLogger() utils.Logger
	SupportsJSONSchema() bool
}

// Client implements LLM against a providers.Provider.
type Client struct {
	Provider    providers.Provider
	Options     map[string]any
	MaxAttempts int
	RetryDelay  time.Duration

	client *http.Client
	logger utils.Logger
}

// NewClient builds a Client for the provider named in cfg.
func NewClient(cfg *config.Config, logger utils.Logger, registry *providers.Registry) (*Client, error) {
	provider, err := registry.Get(cfg.Provider, cfg.APIKeys[cfg.Provider], cfg.Model, nil)
	if err != nil {
		return nil, err
	}

	provider.SetDefaultOptions(cfg)
	provider.SetLogger(logger)

	return &Client{
		Provider:    provider,
		Options:     make(map[string]any),
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  cfg.RetryDelay,
		client:      &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
	}, nil
}

func (l *Client) SetOption(key string, value any) {
	l.Options[key] = value
	l.logger.Debug("option set", "key", key, "value", value)
}

func (l *Client) GetLogger() utils.Logger {
	return l.logger
}

func (l *Client) SupportsJSONSchema() bool {
	return l.Provider.SupportsJSONSchema()
}

// Generate produces a completion for prompt. Rate-limited attempts are
// retried sequentially with exponential backoff; any other failure is
// returned as an *LLMError after the first attempt.
func (l *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return retry.Do(ctx, func(ctx context.Context) (string, error) {
		body, err := l.Provider.PrepareRequest(prompt, l.Options)
		if err != nil {
			return "", NewLLMError(ErrorTypeRequest, "failed to prepare request", err)
		}
		return l.exchange(ctx, body)
	}, retry.WithMaxAttempts(l.MaxAttempts), retry.WithInitialDelay(l.RetryDelay))
}

// GenerateWithSchema produces a completion constrained to JSON matching
// schema (as produced by GenerateJSONSchema).
func (l *Client) GenerateWithSchema(ctx context.Context, prompt string, schema any) (string, error) {
	return retry.Do(ctx, func(ctx context.Context) (string, error) {
		body, err := l.Provider.PrepareRequestWithSchema(prompt, l.Options, schema)
		if err != nil {
			return "", NewLLMError(ErrorTypeRequest, "failed to prepare request", err)
		}
		return l.exchange(ctx, body)
	}, retry.WithMaxAttempts(l.MaxAttempts), retry.WithInitialDelay(l.RetryDelay))
}

// exchange performs one HTTP round trip against the provider endpoint.
func (l *Client) exchange(ctx context.Context, reqBody []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.Provider.Endpoint(), bytes.NewReader(reqBody))
	if err != nil {
		return "", NewLLMError(ErrorTypeRequest, "failed to create request", err)
	}
	for k, v := range l.Provider.Headers() {
		req.Header.Set(k, v)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", NewLLMError(ErrorTypeRequest, "failed to send request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewLLMError(ErrorTypeResponse, "failed to read response body", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		l.logger.Warn("provider rate limited", "provider", l.Provider.Name())
		return "", NewLLMError(ErrorTypeRateLimit, "Too Many Requests", nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", NewLLMError(ErrorTypeAuthentication, fmt.Sprintf("status code %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		l.logger.Error("provider API error", "provider", l.Provider.Name(), "status", resp.StatusCode, "body", string(body))
		return "", NewLLMError(ErrorTypeAPI, fmt.Sprintf("API error: status code %d", resp.StatusCode), nil)
	}

	result, err := l.Provider.ParseResponse(body)
	if err != nil {
		return "", NewLLMError(ErrorTypeResponse, "failed to parse response", err)
	}
	l.logger.Debug("generated text", "provider", l.Provider.Name(), "length", len(result))
	return result, nil
}
