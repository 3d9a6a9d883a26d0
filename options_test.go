package lumen

import (
	"errors"
	"testing"
)

func TestValidateGenerateOptions(t *testing.T) {
	tests := []struct {
		name      string
		opts      *GenerateOptions
		wantErr   bool
		wantField string
	}{
		{
			name: "nil options valid",
			opts: nil,
		},
		{
			name: "empty options valid",
			opts: &GenerateOptions{},
		},
		{
			name: "all fields in range",
			opts: &GenerateOptions{
				Temperature: float64Ptr(1.2),
				MaxTokens:   intPtr(1024),
				TopP:        float64Ptr(0.9),
				Stop:        []string{"END"},
			},
		},
		{
			name: "boundary values valid",
			opts: &GenerateOptions{
				Temperature: float64Ptr(2.0),
				MaxTokens:   intPtr(1),
				TopP:        float64Ptr(0.0),
			},
		},
		{
			name:      "temperature too high",
			opts:      &GenerateOptions{Temperature: float64Ptr(2.1)},
			wantErr:   true,
			wantField: "temperature",
		},
		{
			name:      "temperature negative",
			opts:      &GenerateOptions{Temperature: float64Ptr(-0.1)},
			wantErr:   true,
			wantField: "temperature",
		},
		{
			name:      "top_p too high",
			opts:      &GenerateOptions{TopP: float64Ptr(1.5)},
			wantErr:   true,
			wantField: "top_p",
		},
		{
			name:      "max_tokens zero",
			opts:      &GenerateOptions{MaxTokens: intPtr(0)},
			wantErr:   true,
			wantField: "max_tokens",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGenerateOptions(tt.opts)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got %v", err)
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if validationErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, validationErr.Field)
			}
		})
	}
}

func TestGenerateOptions_Defaults(t *testing.T) {
	var opts *GenerateOptions

	if got := opts.GetTemperature(); got != DefaultTemperature {
		t.Errorf("GetTemperature() = %v, want %v", got, DefaultTemperature)
	}
	if got := opts.GetMaxTokens(); got != DefaultMaxTokens {
		t.Errorf("GetMaxTokens() = %v, want %v", got, DefaultMaxTokens)
	}
	if got := opts.GetTopP(); got != DefaultTopP {
		t.Errorf("GetTopP() = %v, want %v", got, DefaultTopP)
	}
	if got := opts.GetStop(); got == nil || len(got) != 0 {
		t.Errorf("GetStop() = %v, want empty non-nil slice", got)
	}
	if opts.JSONModeEnabled() {
		t.Error("JSONModeEnabled() = true for nil options")
	}
}

func TestGenerateOptions_ExplicitValuesWin(t *testing.T) {
	opts := &GenerateOptions{
		Temperature: float64Ptr(0.0),
		MaxTokens:   intPtr(5),
		TopP:        float64Ptr(0.5),
		JSONMode:    boolPtr(true),
	}

	if got := opts.GetTemperature(); got != 0.0 {
		t.Errorf("explicit zero temperature lost: got %v", got)
	}
	if got := opts.GetMaxTokens(); got != 5 {
		t.Errorf("GetMaxTokens() = %v, want 5", got)
	}
	if got := opts.GetTopP(); got != 0.5 {
		t.Errorf("GetTopP() = %v, want 0.5", got)
	}
	if !opts.JSONModeEnabled() {
		t.Error("JSONModeEnabled() = false with JSONMode set")
	}
}
