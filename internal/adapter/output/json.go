package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/syntheme/internal/theme"
)

// JSONFormatter formats themes as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// jsonTheme is the JSON form of a theme listing.
type jsonTheme struct {
	Index      int    `json:"index,omitempty"`
	Name       string `json:"name"`
	Provenance string `json:"provenance"`
	Path       string `json:"path,omitempty"`
	Modified   int64  `json:"modified,omitempty"`
}

func toJSON(index int, info *theme.ThemeInfo) jsonTheme {
	j := jsonTheme{
		Name:       info.Name,
		Provenance: info.Provenance.String(),
		Path:       info.Path,
	}
	if index > 0 {
		j.Index = index
	}
	if !info.ModTime.IsZero() {
		j.Modified = info.ModTime.Unix()
	}
	return j
}

// Format writes themes as a JSON array.
func (f *JSONFormatter) Format(w io.Writer, infos []theme.ThemeInfo) error {
	out := make([]jsonTheme, 0, len(infos))
	for i := range infos {
		index := 0
		if f.opts.ShowIndex {
			index = i + 1
		}
		out = append(out, toJSON(index, &infos[i]))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// FormatSingle writes a single theme listing as JSON.
func (f *JSONFormatter) FormatSingle(w io.Writer, info *theme.ThemeInfo) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(toJSON(0, info))
}
