package lumen

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
var (
	// ErrInvalidModel indicates the requested model is not in the provider's allow-list.
	ErrInvalidModel = errors.New("lumen: invalid or unsupported model")

	// ErrInvalidAPIKey indicates the API key is missing, malformed, or unauthorized.
	ErrInvalidAPIKey = errors.New("lumen: invalid API key")

	// ErrRateLimited indicates the provider's rate limit has been exceeded.
	ErrRateLimited = errors.New("lumen: rate limit exceeded")

	// ErrInvalidRequest indicates the request parameters are invalid.
	ErrInvalidRequest = errors.New("lumen: invalid request")

	// ErrProviderUnavailable indicates the provider service is down or unreachable.
	ErrProviderUnavailable = errors.New("lumen: provider unavailable")

	// ErrMalformedResponse indicates the provider returned a document missing
	// the fields this library expects.
	ErrMalformedResponse = errors.New("lumen: malformed provider response")

	// ErrInvalidUsage indicates token-usage metadata failed validation.
	ErrInvalidUsage = errors.New("lumen: invalid usage data")
)

// ModelError represents a configuration error raised at construction time,
// before any network call is made.
type ModelError struct {
	Model    string // The model that was requested
	Provider string // The provider name
	Reason   string // Human-readable explanation
	Err      error  // Wrapped error (usually ErrInvalidModel)
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model '%s' for provider '%s': %s (%v)", e.Model, e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("model '%s' for provider '%s': %s", e.Model, e.Provider, e.Reason)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// ValidationError represents an error in parameter or usage-data validation.
type ValidationError struct {
	Field  string // The field that failed validation
	Value  any    // The invalid value
	Reason string // Human-readable explanation
	Err    error  // Wrapped error (ErrInvalidRequest or ErrInvalidUsage)
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed for '%s' (value: %v): %s (%v)", e.Field, e.Value, e.Reason, e.Err)
	}
	return fmt.Sprintf("validation failed for '%s' (value: %v): %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ProviderError represents a transport-level error from the provider API:
// a network failure or a non-success HTTP status.
type ProviderError struct {
	Provider   string // The provider name
	StatusCode int    // HTTP status code (if applicable)
	Message    string // Error message from provider
	Retryable  bool   // Whether this error is potentially retryable
	Err        error  // Wrapped sentinel error (ErrRateLimited, ErrProviderUnavailable, etc.)
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider '%s' error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider '%s' error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ResponseError represents a successful HTTP exchange whose body is missing
// the fields this library expects. The conversation is left unmodified.
type ResponseError struct {
	Provider string // The provider name
	Reason   string // What was missing or malformed
	Err      error  // Wrapped error (usually ErrMalformedResponse)
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("provider '%s' response: %s", e.Provider, e.Reason)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error is potentially retryable.
// Returns true for rate limits, temporary unavailability, network errors, etc.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Check for ProviderError with Retryable flag
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}

	// Rate limits are always retryable
	if errors.Is(err, ErrRateLimited) {
		return true
	}

	// Provider unavailable is retryable
	if errors.Is(err, ErrProviderUnavailable) {
		return true
	}

	return false
}

// IsInvalidRequest checks if an error indicates invalid request parameters.
// These errors are not retryable and require request changes.
func IsInvalidRequest(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrInvalidRequest) {
		return true
	}

	if errors.Is(err, ErrInvalidModel) {
		return true
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return true
	}

	return false
}

// IsAuthError checks if an error is related to authentication.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrInvalidAPIKey) {
		return true
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		// HTTP 401/403 indicate auth issues
		return providerErr.StatusCode == 401 || providerErr.StatusCode == 403
	}

	return false
}
