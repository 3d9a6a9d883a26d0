// Package groq implements the lumen.ChatProvider interface for Groq's
// OpenAI-compatible chat completion API, including its vision-capable models.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	lumen "github.com/lumenlabs/lumen-llm-go"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// Provider implements lumen.ChatProvider for Groq.
//
// The adapter is bound to one model, checked against an injected allow-list
// catalog at construction. The API key is carried verbatim into the
// Authorization header and never logged.
type Provider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	catalog    *lumen.ModelCatalog
}

// Option configures a Provider.
type Option func(*Provider)

// WithModel selects the model; it must be in the catalog's allow-list.
func WithModel(model string) Option {
	return func(p *Provider) { p.model = model }
}

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(p *Provider) { p.baseURL = url }
}

// WithHTTPClient overrides the HTTP client, e.g. to adjust timeouts.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.httpClient = client }
}

// WithCatalog replaces the embedded model allow-list, e.g. with a fake set in
// tests or a newer catalog than the one shipped with the library.
func WithCatalog(catalog *lumen.ModelCatalog) Option {
	return func(p *Provider) { p.catalog = catalog }
}

// New creates a Groq provider with the given API key. Construction fails fast
// with no network call: an empty key or a model outside the allow-list is
// rejected immediately.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, lumen.ErrInvalidAPIKey
	}

	p := &Provider{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.catalog == nil {
		catalog, err := lumen.DefaultCatalog(lumen.ProviderGroq)
		if err != nil {
			return nil, err
		}
		p.catalog = catalog
	}
	if p.model == "" {
		p.model = p.catalog.DefaultModel
	}
	if !p.catalog.Allows(p.model) {
		return nil, &lumen.ModelError{
			Model:    p.model,
			Provider: p.Name().String(),
			Reason:   "model not in the Groq allow-list",
			Err:      lumen.ErrInvalidModel,
		}
	}

	return p, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() lumen.ProviderID {
	return lumen.ProviderGroq
}

// Model returns the model this adapter was constructed with.
func (p *Provider) Model() string {
	return p.model
}

// Predict generates a complete response and appends exactly one assistant
// message to the conversation. On any error the conversation is unmodified.
func (p *Provider) Predict(ctx context.Context, conv *lumen.Conversation, opts *lumen.GenerateOptions) error {
	if err := lumen.ValidateGenerateOptions(opts); err != nil {
		return err
	}

	payload := buildChatCompletionRequest(p.model, conv, opts)

	httpReq, err := p.buildHTTPRequest(ctx, payload)
	if err != nil {
		return err
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return &lumen.ProviderError{
			Provider:  p.Name().String(),
			Message:   err.Error(),
			Retryable: true,
			Err:       lumen.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return p.handleErrorResponse(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("groq: failed to read response body: %w", err)
	}

	message, err := parseChatCompletionResponse(body)
	if err != nil {
		return err
	}

	conv.AddMessage(message)
	return nil
}

// buildHTTPRequest creates an HTTP request for the Groq API.
func (p *Provider) buildHTTPRequest(ctx context.Context, payload *chatCompletionRequest) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("groq: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	return httpReq, nil
}

// handleErrorResponse maps non-success HTTP statuses to library errors.
func (p *Provider) handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	// Try to parse structured error
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	message := string(body)
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &lumen.ProviderError{
			Provider:   p.Name().String(),
			StatusCode: resp.StatusCode,
			Message:    message,
			Retryable:  false,
			Err:        lumen.ErrInvalidAPIKey,
		}
	case http.StatusTooManyRequests:
		return &lumen.ProviderError{
			Provider:   p.Name().String(),
			StatusCode: resp.StatusCode,
			Message:    message,
			Retryable:  true,
			Err:        lumen.ErrRateLimited,
		}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &lumen.ProviderError{
			Provider:   p.Name().String(),
			StatusCode: resp.StatusCode,
			Message:    message,
			Retryable:  false,
			Err:        lumen.ErrInvalidRequest,
		}
	default:
		return &lumen.ProviderError{
			Provider:   p.Name().String(),
			StatusCode: resp.StatusCode,
			Message:    message,
			Retryable:  resp.StatusCode >= 500,
			Err:        lumen.ErrProviderUnavailable,
		}
	}
}
