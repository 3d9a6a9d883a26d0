// Package voyage implements the lumen.Embedder interface for Voyage AI's
// text embedding API.
package voyage

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

const defaultBaseURL = "https://api.voyageai.com/v1"

// Provider implements lumen.Embedder for Voyage AI.
type Provider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	catalog    *lumen.ModelCatalog
}

// Option configures a Provider.
type Option func(*Provider)

// WithModel selects the embedding model; it must be in the catalog's allow-list.
func WithModel(model string) Option {
	return func(p *Provider) { p.model = model }
}

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(p *Provider) { p.baseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.httpClient = client }
}

// WithCatalog replaces the embedded model allow-list.
func WithCatalog(catalog *lumen.ModelCatalog) Option {
	return func(p *Provider) { p.catalog = catalog }
}

// New creates a Voyage provider. Construction fails fast with no network
// call: an empty key or a model outside the allow-list is rejected
// immediately.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, lumen.ErrInvalidAPIKey
	}

	p := &Provider{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.catalog == nil {
		catalog, err := lumen.DefaultCatalog(lumen.ProviderVoyage)
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
			Reason:   "model not in the Voyage allow-list",
			Err:      lumen.ErrInvalidModel,
		}
	}

	return p, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() lumen.ProviderID {
	return lumen.ProviderVoyage
}

// Model returns the embedding model this adapter was constructed with.
func (p *Provider) Model() string {
	return p.model
}

// embeddingRequest is the wire payload for /embeddings.
type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

// embeddingResponse is the wire shape of an embeddings response.
type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Model string          `json:"model"`
	Usage json.RawMessage `json:"usage"`
}

// Embed transforms texts into embeddings, one vector per input, in input
// order. An empty input yields (nil, nil) without a network call.
func (p *Provider) Embed(ctx context.Context, texts []string) ([]lumen.Vector, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(&embeddingRequest{Input: texts, Model: p.model})
	if err != nil {
		return nil, fmt.Errorf("voyage: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &lumen.ProviderError{
			Provider:  p.Name().String(),
			Message:   err.Error(),
			Retryable: true,
			Err:       lumen.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleErrorResponse(resp)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("voyage: failed to read response body: %w", err)
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &lumen.ResponseError{
			Provider: p.Name().String(),
			Reason:   "response is not valid JSON: " + err.Error(),
			Err:      lumen.ErrMalformedResponse,
		}
	}
	if len(parsed.Data) != len(texts) {
		return nil, &lumen.ResponseError{
			Provider: p.Name().String(),
			Reason:   fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(parsed.Data)),
			Err:      lumen.ErrMalformedResponse,
		}
	}

	vectors := make([]lumen.Vector, len(parsed.Data))
	for i, item := range parsed.Data {
		vectors[i] = lumen.Vector(item.Embedding)
	}
	return vectors, nil
}

// handleErrorResponse maps non-success HTTP statuses to library errors.
func (p *Provider) handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Detail string `json:"detail"`
	}
	message := string(body)
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
		message = errResp.Detail
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
