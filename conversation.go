package lumen

// Conversation is an ordered, append-only sequence of role-tagged messages.
// A conversation is owned by exactly one logical operation at a time; adapters
// mutate it in place by appending exactly one message per completed call and
// never reorder or delete existing messages.
//
// Conversation is not safe for concurrent use. The batch runner in batch.go
// relies on conversations never being aliased across concurrently-running
// items.
type Conversation struct {
	messages []Message
}

// NewConversation creates a conversation seeded with the given messages.
func NewConversation(messages ...Message) *Conversation {
	c := &Conversation{}
	c.messages = append(c.messages, messages...)
	return c
}

// History returns the ordered message sequence. The returned slice is the
// conversation's backing store; callers must treat it as read-only.
func (c *Conversation) History() []Message {
	return c.messages
}

// AddMessage appends a message to the conversation.
func (c *Conversation) AddMessage(m Message) {
	c.messages = append(c.messages, m)
}

// Len returns the number of messages in the conversation.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// LastMessage returns the most recently appended message.
// The second return value is false for an empty conversation.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// SetSystem installs content as the conversation's system context. A plain
// string is coerced into a system message; an existing leading system message
// is replaced rather than duplicated.
func (c *Conversation) SetSystem(content string) {
	sys := Message{Role: RoleSystem, Content: content}
	if len(c.messages) > 0 && c.messages[0].Role == RoleSystem {
		c.messages[0] = sys
		return
	}
	c.messages = append([]Message{sys}, c.messages...)
}
