package lumen

import (
	"bytes"
	"encoding/json"
)

// UsageData is the normalized token accounting reported by a provider for a
// single completed call.
type UsageData struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// usageWire mirrors UsageData with pointer fields so absent and zero-valued
// counts can be told apart during validation.
type usageWire struct {
	PromptTokens     *int `json:"prompt_tokens"`
	CompletionTokens *int `json:"completion_tokens"`
	TotalTokens      *int `json:"total_tokens"`
}

// ParseUsage validates raw usage metadata from a provider response.
//
// The validation policy is strict and fails closed: if the provider sent a
// usage object, all three token counts must be present and non-negative, and
// any violation fails the whole operation with a ValidationError. The one
// documented lenient case is a wholly absent usage object (empty or null
// raw), which yields (nil, nil): the appended message simply carries no
// usage. Unknown extra fields are ignored; providers attach timing and
// queueing metadata we have no schema for.
func ParseUsage(raw json.RawMessage) (*UsageData, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var wire usageWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &ValidationError{
			Field:  "usage",
			Value:  string(raw),
			Reason: "usage is not a valid JSON object",
			Err:    ErrInvalidUsage,
		}
	}

	fields := []struct {
		name  string
		value *int
	}{
		{"prompt_tokens", wire.PromptTokens},
		{"completion_tokens", wire.CompletionTokens},
		{"total_tokens", wire.TotalTokens},
	}
	for _, f := range fields {
		if f.value == nil {
			return nil, &ValidationError{
				Field:  f.name,
				Value:  nil,
				Reason: "required usage field is missing",
				Err:    ErrInvalidUsage,
			}
		}
		if *f.value < 0 {
			return nil, &ValidationError{
				Field:  f.name,
				Value:  *f.value,
				Reason: "token count must be non-negative",
				Err:    ErrInvalidUsage,
			}
		}
	}

	return &UsageData{
		PromptTokens:     *wire.PromptTokens,
		CompletionTokens: *wire.CompletionTokens,
		TotalTokens:      *wire.TotalTokens,
	}, nil
}
