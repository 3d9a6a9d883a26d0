package groq

import (
	"encoding/json"

	lumen "github.com/lumenlabs/lumen-llm-go"
)

// chatCompletionRequest is the wire payload for /chat/completions.
type chatCompletionRequest struct {
	Model          string           `json:"model"`
	Messages       []map[string]any `json:"messages"`
	Temperature    float64          `json:"temperature"`
	MaxTokens      int              `json:"max_tokens"`
	TopP           float64          `json:"top_p"`
	Stop           []string         `json:"stop"`
	Stream         bool             `json:"stream,omitempty"`
	ResponseFormat *responseFormat  `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"` // "json_object"
}

// chatCompletionResponse is the wire shape of a unary completion response.
type chatCompletionResponse struct {
	ID      string          `json:"id"`
	Model   string          `json:"model"`
	Choices []choice        `json:"choices"`
	Usage   json.RawMessage `json:"usage"`
}

type choice struct {
	Index        int             `json:"index"`
	Message      responseMessage `json:"message"`
	FinishReason *string         `json:"finish_reason"`
}

type responseMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

// chatCompletionChunk is the wire shape of one streaming SSE frame.
type chatCompletionChunk struct {
	ID      string        `json:"id"`
	Model   string        `json:"model"`
	Choices []chunkChoice `json:"choices"`
}

type chunkChoice struct {
	Index        int        `json:"index"`
	Delta        chunkDelta `json:"delta"`
	FinishReason *string    `json:"finish_reason"`
}

type chunkDelta struct {
	Role    *string `json:"role,omitempty"`
	Content *string `json:"content,omitempty"`
}

// buildChatCompletionRequest constructs the wire payload from conversation
// history and generation options. Shared by Predict and Stream.
func buildChatCompletionRequest(model string, conv *lumen.Conversation, opts *lumen.GenerateOptions) *chatCompletionRequest {
	payload := &chatCompletionRequest{
		Model:       model,
		Messages:    lumen.FormatMessages(conv.History()),
		Temperature: opts.GetTemperature(),
		MaxTokens:   opts.GetMaxTokens(),
		TopP:        opts.GetTopP(),
		Stop:        opts.GetStop(),
	}
	if opts.JSONModeEnabled() {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	return payload
}

// parseChatCompletionResponse extracts the single completion message from a
// unary response document. Usage metadata goes through strict validation; a
// malformed document or invalid usage fails the operation so the caller's
// conversation stays unmodified.
func parseChatCompletionResponse(body []byte) (lumen.Message, error) {
	var resp chatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return lumen.Message{}, &lumen.ResponseError{
			Provider: lumen.ProviderGroq.String(),
			Reason:   "response is not valid JSON: " + err.Error(),
			Err:      lumen.ErrMalformedResponse,
		}
	}

	if len(resp.Choices) == 0 {
		return lumen.Message{}, &lumen.ResponseError{
			Provider: lumen.ProviderGroq.String(),
			Reason:   "response has no choices",
			Err:      lumen.ErrMalformedResponse,
		}
	}
	if resp.Choices[0].Message.Content == nil {
		return lumen.Message{}, &lumen.ResponseError{
			Provider: lumen.ProviderGroq.String(),
			Reason:   "choice 0 has no message content",
			Err:      lumen.ErrMalformedResponse,
		}
	}

	usage, err := lumen.ParseUsage(resp.Usage)
	if err != nil {
		return lumen.Message{}, err
	}

	return lumen.Message{
		Role:    lumen.RoleAssistant,
		Content: *resp.Choices[0].Message.Content,
		Usage:   usage,
	}, nil
}

// decodeChunkDelta is the lumen.DeltaDecoder for Groq's streaming frames.
// Anything that is not a well-formed chunk carrying a content delta is
// dropped: error payloads, keep-alive fragments and partially delivered JSON
// all fall through the same way.
func decodeChunkDelta(payload []byte) (string, bool) {
	var chunk chatCompletionChunk
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return "", false
	}
	if len(chunk.Choices) == 0 {
		return "", false
	}
	content := chunk.Choices[0].Delta.Content
	if content == nil {
		return "", false
	}
	return *content, true
}
