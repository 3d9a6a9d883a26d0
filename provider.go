package lumen

import (
	"context"
)

// ChatProvider is the interface implemented by chat-completion adapters.
// Each adapter wraps one upstream HTTP API and is bound to a single model
// chosen (and allow-list checked) at construction time.
//
// Types used by this interface:
//   - Conversation, Message: defined in conversation.go and types.go
//   - GenerateOptions: defined in options.go
//   - StreamEvent: defined in streaming.go
type ChatProvider interface {
	// Predict generates a complete response (blocking) and appends exactly one
	// assistant message to the conversation. On any error the conversation is
	// left unmodified.
	Predict(ctx context.Context, conv *Conversation, opts *GenerateOptions) error

	// Stream generates a streaming response. It returns a channel that emits
	// StreamEvent values as text fragments arrive; the channel is closed when
	// streaming completes or fails. On clean completion exactly one assistant
	// message, holding the concatenation of all emitted fragments, is appended
	// to the conversation; a cancelled or failed stream appends nothing.
	//
	// Usage:
	//   events, err := provider.Stream(ctx, conv, opts)
	//   if err != nil { return err }
	//   for event := range events {
	//     if event.Error != nil { handle error }
	//     if event.Delta != nil { render fragment }
	//     if event.Metadata != nil { streaming complete }
	//   }
	Stream(ctx context.Context, conv *Conversation, opts *GenerateOptions) (<-chan StreamEvent, error)

	// Name returns the provider identifier (e.g., "groq", "anthropic", "lorem")
	Name() ProviderID

	// Model returns the model identifier this adapter was constructed with.
	Model() string
}

// Vector is a single embedding.
type Vector []float64

// Embedder is the interface implemented by text-embedding adapters.
type Embedder interface {
	// Embed transforms texts into embeddings, one vector per input, in input
	// order. An empty input yields (nil, nil) without a network call.
	Embed(ctx context.Context, texts []string) ([]Vector, error)

	// Name returns the provider identifier (e.g., "voyage")
	Name() ProviderID

	// Model returns the model identifier this adapter was constructed with.
	Model() string
}
