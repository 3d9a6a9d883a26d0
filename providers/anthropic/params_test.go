package anthropic

import (
	"testing"

	lumen "github.com/lumenlabs/lumen-llm-go"
)

func intPtr(i int) *int             { return &i }
func float64Ptr(f float64) *float64 { return &f }

func TestBuildMessageParams(t *testing.T) {
	conv := lumen.NewConversation(
		lumen.Message{Role: lumen.RoleSystem, Content: "You are terse."},
		lumen.Message{Role: lumen.RoleUser, Content: "hello"},
		lumen.Message{Role: lumen.RoleAssistant, Content: "hi"},
		lumen.Message{Role: lumen.RoleUser, Content: "continue"},
	)

	params := buildMessageParams("claude-haiku-4-5-20251001", conv, nil)

	if string(params.Model) != "claude-haiku-4-5-20251001" {
		t.Errorf("model = %q", params.Model)
	}

	// System context rides the dedicated parameter, not the message list
	if len(params.System) != 1 || params.System[0].Text != "You are terse." {
		t.Errorf("system = %+v", params.System)
	}
	if len(params.Messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(params.Messages))
	}
	if params.Messages[0].Role != "user" || params.Messages[1].Role != "assistant" || params.Messages[2].Role != "user" {
		t.Errorf("roles = %v %v %v", params.Messages[0].Role, params.Messages[1].Role, params.Messages[2].Role)
	}

	// Defaults fill unset options
	if params.MaxTokens != int64(lumen.DefaultMaxTokens) {
		t.Errorf("max tokens = %d, want default", params.MaxTokens)
	}
	if params.Temperature.Value != lumen.DefaultTemperature {
		t.Errorf("temperature = %v, want default", params.Temperature.Value)
	}
	if len(params.StopSequences) != 0 {
		t.Errorf("stop sequences = %v, want none", params.StopSequences)
	}
}

func TestBuildMessageParams_ExplicitOptions(t *testing.T) {
	conv := lumen.NewConversation(lumen.Message{Role: lumen.RoleUser, Content: "hi"})
	opts := &lumen.GenerateOptions{
		MaxTokens:   intPtr(2048),
		Temperature: float64Ptr(0.1),
		TopP:        float64Ptr(0.8),
		Stop:        []string{"###"},
	}

	params := buildMessageParams("claude-haiku-4-5-20251001", conv, opts)

	if params.MaxTokens != 2048 {
		t.Errorf("max tokens = %d", params.MaxTokens)
	}
	if params.Temperature.Value != 0.1 {
		t.Errorf("temperature = %v", params.Temperature.Value)
	}
	if params.TopP.Value != 0.8 {
		t.Errorf("top_p = %v", params.TopP.Value)
	}
	if len(params.StopSequences) != 1 || params.StopSequences[0] != "###" {
		t.Errorf("stop sequences = %v", params.StopSequences)
	}
	if len(params.System) != 0 {
		t.Errorf("system = %+v, want none", params.System)
	}
}

func TestBuildMessageParams_BlockContentFlattened(t *testing.T) {
	conv := lumen.NewConversation(lumen.Message{
		Role: lumen.RoleUser,
		Content: []lumen.ContentBlock{
			lumen.TextBlock("what is "),
			lumen.ImageURLBlock("https://example.com/x.png"),
			lumen.TextBlock("this?"),
		},
	})

	params := buildMessageParams("claude-haiku-4-5-20251001", conv, nil)

	if len(params.Messages) != 1 {
		t.Fatalf("got %d messages", len(params.Messages))
	}
	blocks := params.Messages[0].Content
	if len(blocks) != 1 {
		t.Fatalf("got %d content blocks, want 1", len(blocks))
	}
	if got := blocks[0].OfText.Text; got != "what is this?" {
		t.Errorf("text = %q", got)
	}
}
