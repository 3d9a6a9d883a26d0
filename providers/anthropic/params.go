package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"

	lumen "github.com/lumenlabs/lumen-llm-go"
)

// buildMessageParams constructs Anthropic API parameters from conversation
// history and generation options. Shared by Predict and Stream.
//
// A leading system message becomes the system parameter. Message content is
// flattened to its text: Anthropic's block schema differs from the
// OpenAI-style pass-through blocks this library carries, so non-text blocks
// are skipped rather than reinterpreted. JSONMode has no Anthropic
// counterpart and is ignored.
func buildMessageParams(model string, conv *lumen.Conversation, opts *lumen.GenerateOptions) anthropic.MessageNewParams {
	var messages []anthropic.MessageParam
	var system string

	for _, msg := range conv.History() {
		switch msg.Role {
		case lumen.RoleSystem:
			system = msg.Text()
		case lumen.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Text())))
		case lumen.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Text())))
		}
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		Messages:    messages,
		MaxTokens:   int64(opts.GetMaxTokens()),
		Temperature: anthropic.Float(opts.GetTemperature()),
		TopP:        anthropic.Float(opts.GetTopP()),
	}

	if stop := opts.GetStop(); len(stop) > 0 {
		params.StopSequences = stop
	}

	if system != "" {
		params.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: system,
			},
		}
	}

	return params
}
