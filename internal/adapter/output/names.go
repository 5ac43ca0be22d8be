package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/syntheme/internal/theme"
)

// NamesFormatter outputs just the theme names, one per line.
// Useful for piping to other commands (e.g., xargs syntheme export).
type NamesFormatter struct{}

// NewNamesFormatter creates a new names formatter.
func NewNamesFormatter() *NamesFormatter {
	return &NamesFormatter{}
}

// Format writes theme names to the writer, one per line.
func (f *NamesFormatter) Format(w io.Writer, infos []theme.ThemeInfo) error {
	for _, info := range infos {
		if _, err := fmt.Fprintln(w, info.Name); err != nil {
			return err
		}
	}
	return nil
}
