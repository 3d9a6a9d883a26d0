// Package lorem is a mock chat provider that generates lorem ipsum text.
// Used for testing and development without requiring real API keys.
package lorem

import (
	"context"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	lumen "github.com/lumenlabs/lumen-llm-go"
)

// DefaultModel is used when no model is selected.
const DefaultModel = "lorem-fast"

// Provider implements lumen.ChatProvider with generated lorem ipsum text.
type Provider struct {
	generator *loremgen.Lorem
	model     string
}

// Option configures a Provider.
type Option func(*Provider)

// WithModel selects the mock model. Any identifier with the "lorem-" prefix
// is accepted; "lorem-slow" streams slower, "lorem-fast" faster.
func WithModel(model string) Option {
	return func(p *Provider) { p.model = model }
}

// New creates a lorem ipsum provider.
func New(opts ...Option) (*Provider, error) {
	p := &Provider{
		generator: loremgen.New(),
		model:     DefaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}

	if !strings.HasPrefix(p.model, "lorem-") {
		return nil, &lumen.ModelError{
			Model:    p.model,
			Provider: p.Name().String(),
			Reason:   "model not supported by Lorem provider (must start with 'lorem-')",
			Err:      lumen.ErrInvalidModel,
		}
	}

	return p, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() lumen.ProviderID {
	return lumen.ProviderLorem
}

// Model returns the mock model identifier.
func (p *Provider) Model() string {
	return p.model
}

// streamDelay returns the delay between words based on the model name.
func (p *Provider) streamDelay() time.Duration {
	switch {
	case strings.Contains(p.model, "slow"):
		return 500 * time.Millisecond
	case strings.Contains(p.model, "fast"):
		return time.Millisecond
	default:
		return 100 * time.Millisecond
	}
}

// generateWords produces approximately targetWords words of lorem ipsum.
func (p *Provider) generateWords(targetWords int) string {
	var sb strings.Builder
	wordCount := 0
	for wordCount < targetWords {
		sentence := p.generator.Sentence(5, 15)
		sb.WriteString(sentence)
		sb.WriteString(" ")
		wordCount += len(strings.Fields(sentence))
	}
	return strings.TrimSpace(sb.String())
}

// estimateTokens estimates the prompt token count for a conversation.
// Uses word count as a rough approximation.
func estimateTokens(conv *lumen.Conversation) int {
	total := 0
	for _, msg := range conv.History() {
		total += len(strings.Fields(msg.Text()))
	}
	return total
}

// Predict appends one generated assistant message with synthetic usage.
func (p *Provider) Predict(ctx context.Context, conv *lumen.Conversation, opts *lumen.GenerateOptions) error {
	if err := lumen.ValidateGenerateOptions(opts); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Rough estimate: 1 token per word
	text := p.generateWords(opts.GetMaxTokens())
	prompt := estimateTokens(conv)
	completion := len(strings.Fields(text))

	conv.AddMessage(lumen.Message{
		Role:    lumen.RoleAssistant,
		Content: text,
		Usage: &lumen.UsageData{
			PromptTokens:     prompt,
			CompletionTokens: completion,
			TotalTokens:      prompt + completion,
		},
	})
	return nil
}

// Stream emits generated text word by word through a stream session, so the
// mock exercises the same commit semantics as the HTTP adapters: one final
// message on clean end, nothing on cancellation.
func (p *Provider) Stream(ctx context.Context, conv *lumen.Conversation, opts *lumen.GenerateOptions) (<-chan lumen.StreamEvent, error) {
	if err := lumen.ValidateGenerateOptions(opts); err != nil {
		return nil, err
	}

	text := p.generateWords(opts.GetMaxTokens())
	words := strings.Fields(text)
	delay := p.streamDelay()

	events := make(chan lumen.StreamEvent, 10)

	go func() {
		defer close(events)

		session := lumen.NewStreamSession(conv)
		prompt := estimateTokens(conv)

		for i, word := range words {
			delta := word
			if i < len(words)-1 {
				delta += " "
			}

			session.Append(delta)

			fragment := delta
			select {
			case <-ctx.Done():
				// Consumer abandoned the stream; no commit
				select {
				case events <- lumen.StreamEvent{Error: ctx.Err()}:
				default:
				}
				return
			case events <- lumen.StreamEvent{Delta: &fragment}:
			}

			time.Sleep(delay)
		}

		usage := &lumen.UsageData{
			PromptTokens:     prompt,
			CompletionTokens: len(words),
			TotalTokens:      prompt + len(words),
		}
		session.Commit(usage)

		events <- lumen.StreamEvent{
			Metadata: &lumen.StreamMetadata{
				Model:      p.model,
				Usage:      usage,
				StopReason: "end_turn",
			},
		}
	}()

	return events, nil
}
