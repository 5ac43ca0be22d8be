package theme

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Extension is the file extension of theme files, without the dot.
const Extension = "toml"

// Format identifies a theme serialisation.
type Format string

// Supported formats. TOML is the native on-disk format; JSON and YAML are
// accepted for import and export.
const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks a format from a file extension. Unknown extensions
// return false.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "toml":
		return FormatTOML, true
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// ParseFormat parses a format name as used in configuration and flags.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "toml":
		return FormatTOML, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown theme format %q (want toml, json or yaml)", s)
	}
}

// Encode serialises a theme after validating it.
func Encode(t *Theme, format Format) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil theme", ErrInvalidFormat)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	switch format {
	case FormatTOML, "":
		return toml.Marshal(t)
	case FormatJSON:
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(t)
	default:
		return nil, fmt.Errorf("unknown theme format %q", format)
	}
}

// Decode parses and validates a theme. Unknown keys, wrong value types and
// malformed colours all yield ErrInvalidFormat.
func Decode(data []byte, format Format) (*Theme, error) {
	var t Theme
	var err error

	switch format {
	case FormatTOML, "":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&t)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&t)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&t)
		if errors.Is(err, io.EOF) {
			// Empty YAML documents decode to an empty theme.
			err = nil
		}
	default:
		return nil, fmt.Errorf("unknown theme format %q", format)
	}

	if err != nil {
		return nil, invalidFormat(err)
	}
	if err := t.Validate(); err != nil {
		return nil, invalidFormat(err)
	}
	return &t, nil
}

func invalidFormat(err error) error {
	if errors.Is(err, ErrInvalidFormat) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
}
