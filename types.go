package lumen

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content block type constants
const (
	BlockTypeText     = "text"
	BlockTypeImageURL = "image_url"
)

// ContentBlock is a typed content block in a multimodal message, keyed by a
// "type" discriminator. Blocks are carried through to the wire verbatim:
// adapters never reinterpret or validate their fields, so a malformed block
// surfaces as an upstream provider error rather than a local one.
type ContentBlock map[string]any

// Type returns the block's discriminator tag, or "" if unset.
func (b ContentBlock) Type() string {
	t, _ := b["type"].(string)
	return t
}

// TextBlock builds a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{"type": BlockTypeText, "text": text}
}

// ImageURLBlock builds an image-reference content block.
func ImageURLBlock(url string) ContentBlock {
	return ContentBlock{"type": BlockTypeImageURL, "image_url": map[string]any{"url": url}}
}

// Message is a single entry in a conversation. Content is either a plain
// string or an ordered []ContentBlock. Messages are immutable once appended.
type Message struct {
	// Role is "system", "user" or "assistant"
	Role string `json:"role"`

	// Name optionally identifies the participant; omitted from the wire when nil
	Name *string `json:"name,omitempty"`

	// Content is a string or []ContentBlock
	Content any `json:"content"`

	// Usage carries validated token accounting for assistant messages, when
	// the provider reported it
	Usage *UsageData `json:"usage,omitempty"`
}

// Text returns the message content as a string. Block-list content is
// flattened to the concatenation of its text blocks.
func (m Message) Text() string {
	switch content := m.Content.(type) {
	case string:
		return content
	case []ContentBlock:
		var out string
		for _, block := range content {
			if block.Type() == BlockTypeText {
				if text, ok := block["text"].(string); ok {
					out += text
				}
			}
		}
		return out
	default:
		return ""
	}
}

// FormatMessages maps conversation history into the wire shape expected by
// OpenAI-style chat completion APIs: one record per message carrying only
// role, optional name, and content, with nil optionals omitted entirely
// (never serialized as null). Block-list content passes through with each
// block's discriminator tag preserved and existing fields merged in.
//
// This is a pure transform with no side effects and no block validation.
func FormatMessages(history []Message) []map[string]any {
	formatted := make([]map[string]any, 0, len(history))
	for _, msg := range history {
		record := map[string]any{
			"role": msg.Role,
		}
		if msg.Name != nil {
			record["name"] = *msg.Name
		}

		switch content := msg.Content.(type) {
		case []ContentBlock:
			blocks := make([]map[string]any, 0, len(content))
			for _, block := range content {
				item := map[string]any{"type": block.Type()}
				for k, v := range block {
					item[k] = v
				}
				blocks = append(blocks, item)
			}
			record["content"] = blocks
		default:
			record["content"] = content
		}

		formatted = append(formatted, record)
	}
	return formatted
}
