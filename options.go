package lumen

// Default generation parameters applied when the caller leaves a field unset.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 256
	DefaultTopP        = 1.0
)

// GenerateOptions holds the generation parameters for a single completion
// request. All fields are optional pointers to distinguish "not set" from
// "set to zero value"; adapters substitute the documented defaults.
type GenerateOptions struct {
	// Temperature controls randomness (0.0-2.0)
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens sets the maximum number of tokens to generate
	MaxTokens *int `json:"max_tokens,omitempty"`

	// TopP (nucleus sampling) - cumulative probability cutoff (0.0-1.0)
	TopP *float64 `json:"top_p,omitempty"`

	// Stop sequences - generation stops if any of these are generated
	Stop []string `json:"stop,omitempty"`

	// JSONMode requests a JSON-object response format from the provider
	JSONMode *bool `json:"json_mode,omitempty"`
}

// ValidateGenerateOptions validates generation parameters.
func ValidateGenerateOptions(opts *GenerateOptions) error {
	if opts == nil {
		return nil // nil options is valid, defaults apply
	}

	if opts.Temperature != nil {
		if *opts.Temperature < 0.0 || *opts.Temperature > 2.0 {
			return &ValidationError{
				Field:  "temperature",
				Value:  *opts.Temperature,
				Reason: "must be between 0.0 and 2.0",
				Err:    ErrInvalidRequest,
			}
		}
	}

	if opts.TopP != nil {
		if *opts.TopP < 0.0 || *opts.TopP > 1.0 {
			return &ValidationError{
				Field:  "top_p",
				Value:  *opts.TopP,
				Reason: "must be between 0.0 and 1.0",
				Err:    ErrInvalidRequest,
			}
		}
	}

	if opts.MaxTokens != nil {
		if *opts.MaxTokens < 1 {
			return &ValidationError{
				Field:  "max_tokens",
				Value:  *opts.MaxTokens,
				Reason: "must be positive",
				Err:    ErrInvalidRequest,
			}
		}
	}

	return nil
}

// GetTemperature returns temperature with default fallback.
func (o *GenerateOptions) GetTemperature() float64 {
	if o != nil && o.Temperature != nil {
		return *o.Temperature
	}
	return DefaultTemperature
}

// GetMaxTokens returns max_tokens with default fallback.
func (o *GenerateOptions) GetMaxTokens() int {
	if o != nil && o.MaxTokens != nil {
		return *o.MaxTokens
	}
	return DefaultMaxTokens
}

// GetTopP returns top_p with default fallback.
func (o *GenerateOptions) GetTopP() float64 {
	if o != nil && o.TopP != nil {
		return *o.TopP
	}
	return DefaultTopP
}

// GetStop returns the stop sequences, never nil.
func (o *GenerateOptions) GetStop() []string {
	if o == nil || o.Stop == nil {
		return []string{}
	}
	return o.Stop
}

// JSONModeEnabled reports whether JSON response format was requested.
func (o *GenerateOptions) JSONModeEnabled() bool {
	return o != nil && o.JSONMode != nil && *o.JSONMode
}
