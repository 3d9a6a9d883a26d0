package lumen

// StreamEvent represents a single event in a streaming response.
// Each event contains either a text fragment, final metadata, or an error.
type StreamEvent struct {
	// Delta contains an incremental text fragment (nil if metadata/error)
	Delta *string

	// Metadata contains final response data when streaming completes (nil until end)
	Metadata *StreamMetadata

	// Error contains any error that occurred during streaming (nil if successful)
	Error error
}

// StreamMetadata contains completion information sent when streaming finishes.
// This is sent as the final event before the channel closes.
type StreamMetadata struct {
	// Model is the model that was used
	Model string

	// Usage carries validated token accounting, when the provider reported it
	// during streaming (many providers do not)
	Usage *UsageData

	// StopReason indicates why generation stopped, when known
	StopReason string
}
