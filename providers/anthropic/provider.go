// Package anthropic implements the lumen.ChatProvider interface over the
// official Anthropic SDK.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	lumen "github.com/lumenlabs/lumen-llm-go"
)

// Provider implements lumen.ChatProvider for Anthropic (Claude) models.
type Provider struct {
	client  *anthropic.Client
	model   string
	catalog *lumen.ModelCatalog
}

// Option configures a Provider.
type Option func(*Provider)

// WithModel selects the model; it must be in the catalog's allow-list.
func WithModel(model string) Option {
	return func(p *Provider) { p.model = model }
}

// WithCatalog replaces the embedded model allow-list.
func WithCatalog(catalog *lumen.ModelCatalog) Option {
	return func(p *Provider) { p.catalog = catalog }
}

// New creates an Anthropic provider with the given API key. Construction
// fails fast with no network call on an empty key or a model outside the
// allow-list.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, lumen.ErrInvalidAPIKey
	}

	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}

	if p.catalog == nil {
		catalog, err := lumen.DefaultCatalog(lumen.ProviderAnthropic)
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
			Reason:   "model not in the Anthropic allow-list",
			Err:      lumen.ErrInvalidModel,
		}
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	p.client = &client

	return p, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() lumen.ProviderID {
	return lumen.ProviderAnthropic
}

// Model returns the model this adapter was constructed with.
func (p *Provider) Model() string {
	return p.model
}

// Predict generates a complete response from Claude and appends exactly one
// assistant message to the conversation.
func (p *Provider) Predict(ctx context.Context, conv *lumen.Conversation, opts *lumen.GenerateOptions) error {
	if err := lumen.ValidateGenerateOptions(opts); err != nil {
		return err
	}

	params := buildMessageParams(p.model, conv, opts)

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return &lumen.ProviderError{
			Provider:  p.Name().String(),
			Message:   err.Error(),
			Retryable: true,
			Err:       lumen.ErrProviderUnavailable,
		}
	}

	text := extractText(message)
	conv.AddMessage(lumen.Message{
		Role:    lumen.RoleAssistant,
		Content: text,
		Usage:   usageFromMessage(message),
	})
	return nil
}

// Stream generates a streaming response from Claude. Text deltas are emitted
// as they arrive and the reassembled message is committed to the conversation
// exactly once when the SDK stream ends cleanly; a stream error or ctx
// cancellation commits nothing.
func (p *Provider) Stream(ctx context.Context, conv *lumen.Conversation, opts *lumen.GenerateOptions) (<-chan lumen.StreamEvent, error) {
	if err := lumen.ValidateGenerateOptions(opts); err != nil {
		return nil, err
	}

	params := buildMessageParams(p.model, conv, opts)

	events := make(chan lumen.StreamEvent, 10) // Buffered to prevent blocking

	go func() {
		defer close(events)

		stream := p.client.Messages.NewStreaming(ctx, params)
		session := lumen.NewStreamSession(conv)

		// Accumulator for final message metadata
		message := anthropic.Message{}

		for stream.Next() {
			event := stream.Current()

			if err := message.Accumulate(event); err != nil {
				sendEvent(ctx, events, lumen.StreamEvent{
					Error: fmt.Errorf("anthropic: failed to accumulate message: %w", err),
				})
				return
			}

			delta, ok := textDelta(event)
			if !ok {
				continue
			}

			session.Append(delta)

			fragment := delta
			select {
			case <-ctx.Done():
				// Consumer abandoned the stream; no commit
				sendEvent(ctx, events, lumen.StreamEvent{Error: ctx.Err()})
				return
			case events <- lumen.StreamEvent{Delta: &fragment}:
			}
		}

		if err := stream.Err(); err != nil {
			sendEvent(ctx, events, lumen.StreamEvent{
				Error: fmt.Errorf("anthropic: streaming error: %w", err),
			})
			return
		}

		usage := &lumen.UsageData{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
			TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
		}
		session.Commit(usage)

		sendEvent(ctx, events, lumen.StreamEvent{
			Metadata: &lumen.StreamMetadata{
				Model:      string(message.Model),
				Usage:      usage,
				StopReason: string(message.StopReason),
			},
		})
	}()

	return events, nil
}

// sendEvent delivers an event unless the consumer's ctx is already done.
func sendEvent(ctx context.Context, events chan<- lumen.StreamEvent, event lumen.StreamEvent) {
	select {
	case events <- event:
	case <-ctx.Done():
	}
}

// textDelta extracts the text fragment from a streaming event, if it carries
// one. Only content_block_delta events with a text_delta contribute to the
// reassembled message; everything else (message_start, block boundaries,
// message_delta, message_stop) is control traffic.
func textDelta(event anthropic.MessageStreamEventUnion) (string, bool) {
	e, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
	if !ok {
		return "", false
	}
	if e.Delta.Type != "text_delta" {
		return "", false
	}
	return e.Delta.Text, true
}

// extractText flattens a completed message's text content blocks.
func extractText(message *anthropic.Message) string {
	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text
}

// usageFromMessage converts SDK usage counters to the library schema.
func usageFromMessage(message *anthropic.Message) *lumen.UsageData {
	return &lumen.UsageData{
		PromptTokens:     int(message.Usage.InputTokens),
		CompletionTokens: int(message.Usage.OutputTokens),
		TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}
}
