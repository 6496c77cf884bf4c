// Package datafile decodes render data from JSON, YAML and dotenv files.
//
// Every format is normalized to a value.Value tree. JSON and YAML numbers
// keep their integer or float nature, so `1` renders as `1` and `1.0` as
// `1.0`.
package datafile

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/simpletemplate/simpletemplate-go/value"
	"sigs.k8s.io/yaml"
)

// Format identifies the encoding of a data file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatDotenv
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatDotenv:
		return "dotenv"
	default:
		return "unknown"
	}
}

var dataJSON = jsoniter.Config{UseNumber: true}.Froze()

// ParseFormat maps a format name as given on the command line.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "env", "dotenv":
		return FormatDotenv, nil
	}
	return FormatJSON, errors.Errorf("unknown data format %q", name)
}

// FormatFromPath guesses the format from the file extension. Files named
// `.env` or `*.env` are dotenv, `*.yaml` and `*.yml` are YAML, and anything
// else is read as JSON.
func FormatFromPath(path string) Format {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case base == ".env" || strings.HasSuffix(base, ".env"):
		return FormatDotenv
	case strings.HasSuffix(base, ".yaml") || strings.HasSuffix(base, ".yml"):
		return FormatYAML
	}
	return FormatJSON
}

// Load reads and decodes the file at path, picking the format from its
// extension.
func Load(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Undefined(), errors.Wrapf(err, "failed to read data file %s", path)
	}
	v, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return value.Undefined(), errors.Wrapf(err, "failed to decode %s", path)
	}
	return v, nil
}

// Read decodes everything r yields as the given format.
func Read(r io.Reader, format Format) (value.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return value.Undefined(), errors.Wrap(err, "failed to read data")
	}
	return Decode(data, format)
}

// Decode converts raw bytes in the given format into a value tree.
func Decode(data []byte, format Format) (value.Value, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	case FormatDotenv:
		return decodeDotenv(data)
	}
	return value.Undefined(), errors.Errorf("unsupported data format %s", format)
}

func decodeJSON(data []byte) (value.Value, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return value.FromMap(nil), nil
	}
	var raw any
	if err := dataJSON.Unmarshal(data, &raw); err != nil {
		return value.Undefined(), errors.Wrap(err, "invalid JSON")
	}
	return value.FromAny(raw), nil
}

// decodeYAML goes through JSON so that YAML and JSON inputs produce the same
// tree, including map keys that YAML would otherwise allow to be non-strings.
func decodeYAML(data []byte) (value.Value, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return value.Undefined(), errors.Wrap(err, "invalid YAML")
	}
	if string(jsonData) == "null" {
		return value.FromMap(nil), nil
	}
	return decodeJSON(jsonData)
}

func decodeDotenv(data []byte) (value.Value, error) {
	env, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return value.Undefined(), errors.Wrap(err, "invalid dotenv data")
	}
	return value.FromAny(env), nil
}

// ParseOverride splits a `key=value` assignment. The value is always a
// string; an empty value is allowed.
func ParseOverride(s string) (string, value.Value, error) {
	key, val, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", value.Undefined(), errors.Errorf("invalid override %q: expected key=value", s)
	}
	return key, value.FromString(val), nil
}

// Overrides turns a list of `key=value` assignments into a map value. Later
// assignments of the same key win.
func Overrides(assignments []string) (value.Value, error) {
	m := make(map[string]value.Value, len(assignments))
	for _, a := range assignments {
		k, v, err := ParseOverride(a)
		if err != nil {
			return value.Undefined(), err
		}
		m[k] = v
	}
	return value.FromMap(m), nil
}
