// Package output provides output formatters for theme listings.
package output

import (
	"io"

	"github.com/jmylchreest/syntheme/internal/theme"
)

// Formatter formats themes for output.
type Formatter interface {
	// Format writes formatted themes to the writer.
	Format(w io.Writer, infos []theme.ThemeInfo) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatDmenu FormatType = "dmenu"
	FormatJSON  FormatType = "json"
	FormatPlain FormatType = "plain"
	FormatNames FormatType = "names"
)

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatPlain:
		return NewPlainFormatter(opts)
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatNames:
		fallthrough
	default:
		return NewNamesFormatter()
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template       string // Custom template for dmenu/plain format
	ShowIndex      bool   // Show 1-based index prefix
	ShowTime       bool   // Show relative modification time
	ShowProvenance bool   // Show provenance label
	ShowPath       bool   // Show user file path
	Separator      string // Field separator for dmenu format
}

// DefaultFormatterOptions returns sensible defaults for dmenu output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:      true,
		ShowTime:       true,
		ShowProvenance: true,
		Separator:      " | ",
	}
}
