package lumen

// ProviderID represents a unique provider identifier.
// Using a typed constant prevents typos and provides compile-time safety.
type ProviderID string

// Known provider identifiers
const (
	// ProviderGroq is Groq's OpenAI-compatible chat completion API
	ProviderGroq ProviderID = "groq"

	// ProviderAnthropic is Anthropic's Claude API
	ProviderAnthropic ProviderID = "anthropic"

	// ProviderVoyage is Voyage AI's text embedding API
	ProviderVoyage ProviderID = "voyage"

	// ProviderLorem is the mock Lorem provider for testing
	ProviderLorem ProviderID = "lorem"
)

// String returns the string representation of the provider ID
func (p ProviderID) String() string {
	return string(p)
}

// IsValid returns true if the provider ID is a known provider
func (p ProviderID) IsValid() bool {
	switch p {
	case ProviderGroq, ProviderAnthropic, ProviderVoyage, ProviderLorem:
		return true
	default:
		return false
	}
}
