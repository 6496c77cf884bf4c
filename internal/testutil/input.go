package testutil

import (
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var contextJSON = jsoniter.Config{UseNumber: true}.Froze()

// TestInput represents a parsed test input file.
type TestInput struct {
	Context  map[string]any // JSON context variables
	Settings *TestSettings  // Optional $settings from context
	Template string         // Template source after ---
}

// TestSettings represents the $settings field in test inputs.
type TestSettings struct {
	Markers   [2]string `json:"markers"`
	Undefined string    `json:"undefined"`
	Parse     string    `json:"parse"`
}

// HasMarkers returns true if custom markers are configured.
func (s *TestSettings) HasMarkers() bool {
	return s != nil && (s.Markers[0] != "" || s.Markers[1] != "")
}

// ParseTestInputFile reads and parses a test input file.
func ParseTestInputFile(path string) (*TestInput, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTestInput(string(content))
}

// ParseTestInput parses test input content.
// Format: JSON context\n---\ntemplate
//
// Numbers in the context are kept as json.Number so integers and floats
// stay distinct.
func ParseTestInput(content string) (*TestInput, error) {
	input := &TestInput{
		Context: make(map[string]any),
	}

	parts := strings.SplitN(content, "\n---\n", 2)

	if strings.TrimSpace(parts[0]) != "" {
		if err := contextJSON.UnmarshalFromString(parts[0], &input.Context); err != nil {
			return nil, err
		}

		if settingsRaw, ok := input.Context["$settings"]; ok {
			settingsJSON, err := contextJSON.Marshal(settingsRaw)
			if err != nil {
				return nil, err
			}
			input.Settings = &TestSettings{}
			if err := contextJSON.Unmarshal(settingsJSON, input.Settings); err != nil {
				return nil, err
			}
			delete(input.Context, "$settings")
		}
	}

	if len(parts) == 2 {
		input.Template = parts[1]
	}

	return input, nil
}

// GlobTestInputs finds all test input files matching a pattern.
func GlobTestInputs(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}
