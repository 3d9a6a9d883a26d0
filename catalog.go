package lumen

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed config/models/groq.yaml
var groqModelsYAML []byte

//go:embed config/models/anthropic.yaml
var anthropicModelsYAML []byte

//go:embed config/models/voyage.yaml
var voyageModelsYAML []byte

// Catalog Philosophy:
//
// A ModelCatalog is the allow-list of model identifiers an adapter will accept
// at construction time, plus informational metadata (context windows, vision
// support, embedding dimensions) for UX purposes.
//
// Catalogs are immutable values injected into adapter constructors, not
// process-wide registries: tests construct adapters against fake catalogs and
// library users can override the embedded defaults by:
//  1. Calling LoadCatalogFile() with custom YAML
//  2. Building a ModelCatalog literal in code
//
// The embedded defaults may lag behind what providers actually serve; the
// provider API remains the source of truth for everything beyond the
// allow-list check.

// ModelCatalog is the set of permitted model identifiers for one provider.
type ModelCatalog struct {
	Provider     string               `yaml:"provider"`
	DefaultModel string               `yaml:"default_model"`
	Models       map[string]ModelInfo `yaml:"models"`
}

// ModelInfo carries informational metadata for a catalog entry.
type ModelInfo struct {
	ContextWindow   int  `yaml:"context_window"`
	MaxOutputTokens int  `yaml:"max_output_tokens"`
	Vision          bool `yaml:"vision"`
	// Dimensions is the embedding width, for embedding models only
	Dimensions int `yaml:"dimensions"`
}

// LoadCatalog parses a catalog from YAML.
func LoadCatalog(data []byte) (*ModelCatalog, error) {
	var catalog ModelCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("lumen: failed to unmarshal model catalog: %w", err)
	}
	if catalog.Provider == "" {
		return nil, fmt.Errorf("lumen: model catalog missing provider")
	}
	if len(catalog.Models) == 0 {
		return nil, fmt.Errorf("lumen: model catalog for '%s' lists no models", catalog.Provider)
	}
	if catalog.DefaultModel != "" && !catalog.Allows(catalog.DefaultModel) {
		return nil, fmt.Errorf("lumen: default model '%s' not listed in catalog for '%s'", catalog.DefaultModel, catalog.Provider)
	}
	return &catalog, nil
}

// LoadCatalogFile loads a catalog from a YAML file, allowing library users to
// override the embedded defaults.
func LoadCatalogFile(path string) (*ModelCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lumen: failed to read model catalog: %w", err)
	}
	return LoadCatalog(data)
}

// DefaultCatalog returns the embedded catalog for a provider. Each call
// parses a fresh copy so callers can never mutate shared state.
func DefaultCatalog(provider ProviderID) (*ModelCatalog, error) {
	var data []byte
	switch provider {
	case ProviderGroq:
		data = groqModelsYAML
	case ProviderAnthropic:
		data = anthropicModelsYAML
	case ProviderVoyage:
		data = voyageModelsYAML
	default:
		return nil, fmt.Errorf("lumen: no embedded catalog for provider '%s'", provider)
	}
	return LoadCatalog(data)
}

// Allows reports whether the model identifier is in the allow-list.
func (c *ModelCatalog) Allows(model string) bool {
	_, ok := c.Models[model]
	return ok
}

// Info returns the metadata for a catalog entry.
func (c *ModelCatalog) Info(model string) (ModelInfo, bool) {
	info, ok := c.Models[model]
	return info, ok
}

// ModelNames returns the allow-listed identifiers in sorted order.
func (c *ModelCatalog) ModelNames() []string {
	names := make([]string, 0, len(c.Models))
	for name := range c.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
