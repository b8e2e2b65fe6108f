// Package storage loads and saves widget data bundles: the two prompt
// versions plus the precomputed diffs between them.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pstuifzand/prompt-diff/internal/diff"
	"github.com/pstuifzand/prompt-diff/internal/model"
	"gopkg.in/yaml.v3"
)

// WidgetData is everything the viewer needs to show one prompt diff
type WidgetData struct {
	IR             *model.IR                   `json:"ir,omitempty" yaml:"ir,omitempty"`
	PriorPromptIR  *model.IR                   `json:"prior_prompt_ir,omitempty" yaml:"prior_prompt_ir,omitempty"`
	StructuredDiff *diff.StructuredDiffPayload `json:"structured_diff,omitempty" yaml:"structured_diff,omitempty"`
	RenderedDiff   *diff.RenderedDiffPayload   `json:"rendered_diff,omitempty" yaml:"rendered_diff,omitempty"`
}

// DiffInputs returns the payloads for diff.NewState
func (w *WidgetData) DiffInputs() diff.Inputs {
	if w == nil {
		return diff.Inputs{}
	}
	return diff.Inputs{Structured: w.StructuredDiff, Rendered: w.RenderedDiff}
}

// Format is the on-disk encoding of a bundle
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks the encoding from the file extension. Anything that
// is not .yaml or .yml is read as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// BundleStore handles bundle file persistence
type BundleStore struct {
	FilePath string
}

// NewBundleStore creates a new store for the given file path
func NewBundleStore(filePath string) *BundleStore {
	return &BundleStore{
		FilePath: filePath,
	}
}

// Load reads the bundle. A missing file yields empty widget data, which the
// viewer shows as "no diff available".
func (s *BundleStore) Load() (*WidgetData, error) {
	data, err := os.ReadFile(s.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &WidgetData{}, nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return Decode(data, FormatForPath(s.FilePath))
}

// Save writes the bundle, creating the directory if needed
func (s *BundleStore) Save(widget *WidgetData) error {
	dir := filepath.Dir(s.FilePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := Encode(widget, FormatForPath(s.FilePath))
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.FilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// FileExists checks if the bundle file exists
func (s *BundleStore) FileExists() bool {
	_, err := os.Stat(s.FilePath)
	return err == nil
}

// Decode parses bundle data in the given format
func Decode(data []byte, format Format) (*WidgetData, error) {
	var widget WidgetData
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &widget); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &widget); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}
	return &widget, nil
}

// Encode serializes bundle data in the given format
func Encode(widget *WidgetData, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(widget)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(widget, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return data, nil
	}
}
