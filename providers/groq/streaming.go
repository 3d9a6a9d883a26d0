package groq

import (
	"context"
	"net/http"

	lumen "github.com/lumenlabs/lumen-llm-go"
)

// Stream generates a streaming response from Groq.
// Returns a channel that emits lumen.StreamEvent as deltas arrive; on clean
// stream end exactly one assistant message holding the reassembled text is
// appended to the conversation. A transport failure or ctx cancellation
// mid-stream aborts without appending anything.
func (p *Provider) Stream(ctx context.Context, conv *lumen.Conversation, opts *lumen.GenerateOptions) (<-chan lumen.StreamEvent, error) {
	if err := lumen.ValidateGenerateOptions(opts); err != nil {
		return nil, err
	}

	payload := buildChatCompletionRequest(p.model, conv, opts)
	payload.Stream = true

	httpReq, err := p.buildHTTPRequest(ctx, payload)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &lumen.ProviderError{
			Provider:  p.Name().String(),
			Message:   err.Error(),
			Retryable: true,
			Err:       lumen.ErrProviderUnavailable,
		}
	}

	// Check for immediate errors before handing off to the reassembler
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, p.handleErrorResponse(resp)
	}

	events := make(chan lumen.StreamEvent, 10) // Buffered to prevent blocking

	go func() {
		defer close(events)
		defer resp.Body.Close()

		session := lumen.NewStreamSession(conv)
		if err := lumen.Reassemble(ctx, session, resp.Body, decodeChunkDelta, events); err != nil {
			select {
			case events <- lumen.StreamEvent{Error: err}:
			case <-ctx.Done():
			}
			return
		}

		metadata := &lumen.StreamMetadata{Model: p.model}
		select {
		case events <- lumen.StreamEvent{Metadata: metadata}:
		case <-ctx.Done():
		}
	}()

	return events, nil
}
