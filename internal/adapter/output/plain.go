package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/jmylchreest/syntheme/internal/theme"
)

// PlainFormatter formats themes as plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes themes as plain text.
func (f *PlainFormatter) Format(w io.Writer, infos []theme.ThemeInfo) error {
	for i, info := range infos {
		if err := f.formatTheme(w, i+1, &info); err != nil {
			return err
		}
	}
	return nil
}

// formatTheme formats a single theme.
func (f *PlainFormatter) formatTheme(w io.Writer, index int, info *theme.ThemeInfo) error {
	// Use custom template if available
	if f.template != nil {
		return f.template.Execute(w, newTemplateData(index, info))
	}

	// Default format
	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", index))
	}

	sb.WriteString(info.Name)

	var details []string
	if f.opts.ShowProvenance {
		details = append(details, info.Provenance.String())
	}
	if f.opts.ShowTime && !info.ModTime.IsZero() {
		details = append(details, "modified "+relativeTime(info.ModTime))
	}
	if len(details) > 0 {
		sb.WriteString(" (" + strings.Join(details, ", ") + ")")
	}

	sb.WriteString("\n")

	if f.opts.ShowPath && info.Path != "" {
		sb.WriteString("    " + info.Path + "\n")
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}

// FormatField outputs a specific field from a theme listing.
func FormatField(info *theme.ThemeInfo, field string) string {
	switch strings.ToLower(field) {
	case "name":
		return info.Name
	case "provenance", "source":
		return info.Provenance.String()
	case "path", "file":
		return info.Path
	case "modified", "mtime":
		return relativeTime(info.ModTime)
	case "all", "full":
		return fmt.Sprintf("%s\n%s\n%s", info.Name, info.Provenance, info.Path)
	default:
		return info.Name
	}
}
