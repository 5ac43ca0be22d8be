package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/syntheme/internal/theme"
)

// DmenuFormatter formats themes for dmenu/rofi/fuzzel.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	f := &DmenuFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("dmenu").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes themes in dmenu format (one per line).
func (f *DmenuFormatter) Format(w io.Writer, infos []theme.ThemeInfo) error {
	for i, info := range infos {
		line := f.formatLine(i+1, &info)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatLine formats a single theme line.
func (f *DmenuFormatter) formatLine(index int, info *theme.ThemeInfo) string {
	// Use custom template if available
	if f.template != nil {
		var buf strings.Builder
		if err := f.template.Execute(&buf, newTemplateData(index, info)); err == nil {
			return buf.String()
		}
	}

	// Default format: index | name | provenance | modified
	var parts []string
	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	if f.opts.ShowIndex {
		parts = append(parts, fmt.Sprintf("%d", index))
	}

	parts = append(parts, info.Name)

	if f.opts.ShowProvenance {
		parts = append(parts, info.Provenance.String())
	}

	if f.opts.ShowTime && !info.ModTime.IsZero() {
		parts = append(parts, relativeTime(info.ModTime))
	}

	if f.opts.ShowPath && info.Path != "" {
		parts = append(parts, info.Path)
	}

	return strings.Join(parts, sep)
}

// templateData provides data for custom templates.
type templateData struct {
	Index        int
	Theme        *theme.ThemeInfo
	Provenance   string
	RelativeTime string
}

func newTemplateData(index int, info *theme.ThemeInfo) templateData {
	return templateData{
		Index:        index,
		Theme:        info,
		Provenance:   info.Provenance.String(),
		RelativeTime: relativeTime(info.ModTime),
	}
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			if maxLen <= 0 || len(s) <= maxLen {
				return s
			}
			if maxLen <= 3 {
				return s[:maxLen]
			}
			return s[:maxLen-3] + "..."
		},
		"reltime": relativeTime,
		"provenanceIcon": func(p theme.Provenance) string {
			switch p {
			case theme.ProvenanceCustomized:
				return "*"
			case theme.ProvenanceUser:
				return "+"
			default:
				return "-"
			}
		},
	}
}

// relativeTime returns a human-readable relative time, or "-" for themes
// without a user file.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}
