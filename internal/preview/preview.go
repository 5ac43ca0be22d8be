// Package preview renders themes in the terminal with lipgloss.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/syntheme/internal/theme"
)

// kind is the syntax category of a sample span.
type kind int

const (
	plain kind = iota
	keyword
	command
	typ
	attribute
	variable
	value
	number
	str
	char
	comment
)

type span struct {
	text string
	kind kind
}

// sample is a short program touching every syntax category.
var sample = [][]span{
	{{"// greet says hello a few times.", comment}},
	{{"@inline", attribute}},
	{{"func", keyword}, {" greet(", plain}, {"name", variable}, {" ", plain}, {"string", typ}, {") ", plain}, {"bool", typ}, {" {", plain}},
	{{"\t", plain}, {"for", keyword}, {" ", plain}, {"i", variable}, {" := ", plain}, {"0", number}, {"; ", plain}, {"i", variable}, {" < ", plain}, {"3", number}, {"; ", plain}, {"i", variable}, {"++ {", plain}},
	{{"\t\t", plain}, {"println", command}, {"(", plain}, {`"hello, "`, str}, {", ", plain}, {"name", variable}, {", ", plain}, {"'!'", char}, {")", plain}},
	{{"\t}", plain}},
	{{"\t", plain}, {"return", keyword}, {" ", plain}, {"true", value}, {"  ", plain}},
	{{"}", plain}},
}

// Sample positions for the decorations.
const (
	highlightLine = 4
	cursorLine    = 4
	selectionLine = 2
	selectionSpan = 3 // "name"
)

// Options controls rendering.
type Options struct {
	// Palette resolves system colours. Defaults to theme.DefaultSystemPalette.
	Palette theme.SystemPalette
	// Width pads every line to this many cells. Zero uses the longest line.
	Width int
	// ShowInvisibles draws leading tabs and trailing spaces in the
	// invisibles colour.
	ShowInvisibles bool
}

// renderer resolves a theme's colours once per render.
type renderer struct {
	t  *theme.Theme
	p  theme.SystemPalette
	bg colorful.Color
}

func newRenderer(t *theme.Theme, opts Options) renderer {
	if opts.Palette == nil {
		opts.Palette = theme.DefaultSystemPalette()
	}

	// Unset colours fall back to the default theme so previews stay legible.
	filled := t.Clone()
	filled.Fill(theme.DefaultTheme())

	bg := filled.Background.Resolve(opts.Palette)
	return renderer{t: filled, p: opts.Palette, bg: bg.RGB.Clamped()}
}

// composite resolves c and blends it over under when translucent.
func (r renderer) composite(c *theme.Color, under colorful.Color) colorful.Color {
	resolved := c.Resolve(r.p)
	if resolved.Alpha < 1 {
		return under.BlendRgb(resolved.RGB, resolved.Alpha).Clamped()
	}
	return resolved.RGB.Clamped()
}

func hexColor(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Clamped().Hex())
}

func (r renderer) colorFor(k kind) *theme.Color {
	switch k {
	case keyword:
		return r.t.Keywords
	case command:
		return r.t.Commands
	case typ:
		return r.t.Types
	case attribute:
		return r.t.Attributes
	case variable:
		return r.t.Variables
	case value:
		return r.t.Values
	case number:
		return r.t.Numbers
	case str:
		return r.t.Strings
	case char:
		return r.t.Characters
	case comment:
		return r.t.Comments
	default:
		return r.t.Text
	}
}

// Render returns the sample program drawn in t's colours.
func Render(t *theme.Theme, opts Options) string {
	r := newRenderer(t, opts)

	width := opts.Width
	if width <= 0 {
		for _, line := range sample {
			width = max(width, lineWidth(line))
		}
		width += 2
	}

	selection := r.t.EffectiveSelection(r.p)
	lineRGB := r.composite(r.t.LineHighlight, r.bg)

	lines := make([]string, 0, len(sample))
	for i, line := range sample {
		under := r.bg
		if i == highlightLine {
			under = lineRGB
		}
		base := lipgloss.NewStyle().Background(hexColor(under))

		var b strings.Builder
		for j, s := range line {
			fg := r.colorFor(s.kind)
			text := strings.ReplaceAll(s.text, "\t", "    ")

			edge := j == 0 || j == len(line)-1
			if opts.ShowInvisibles && edge && strings.TrimSpace(s.text) == "" {
				fg = r.t.Invisibles
				text = strings.NewReplacer("\t", "→   ", " ", "·").Replace(s.text)
			}

			style := base.Foreground(hexColor(r.composite(fg, under)))
			if i == selectionLine && j == selectionSpan {
				style = style.Background(hexColor(r.composite(&selection, under)))
			}
			b.WriteString(style.Render(text))
		}

		if i == cursorLine {
			b.WriteString(base.Foreground(hexColor(r.composite(r.t.InsertionPoint, under))).Render("▏"))
		}

		rendered := b.String()
		if pad := width - lipgloss.Width(rendered); pad > 0 {
			rendered += base.Render(strings.Repeat(" ", pad))
		}
		lines = append(lines, rendered)
	}

	return strings.Join(lines, "\n")
}

func lineWidth(line []span) int {
	w := 0
	for _, s := range line {
		w += lipgloss.Width(strings.ReplaceAll(s.text, "\t", "    "))
	}
	return w
}

// Swatches returns one row per colour key: a colour block, the key and its
// stored value. Unset keys are listed as "unset".
func Swatches(t *theme.Theme, p theme.SystemPalette) string {
	if p == nil {
		p = theme.DefaultSystemPalette()
	}

	keyWidth := 0
	for _, e := range t.Colors() {
		keyWidth = max(keyWidth, len(e.Key))
	}

	keyStyle := lipgloss.NewStyle().Width(keyWidth + 2)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var rows []string
	for _, e := range t.Colors() {
		if e.Color == nil {
			rows = append(rows, "    "+keyStyle.Render(e.Key)+dim.Render("unset"))
			continue
		}

		resolved := e.Color.Resolve(p)
		block := lipgloss.NewStyle().
			Background(lipgloss.Color(resolved.RGB.Clamped().Hex())).
			Render("  ")

		val := e.Color.Hex()
		if e.Color.IsSystem() {
			val = fmt.Sprintf("%s %s", val, dim.Render("("+resolved.Hex()+")"))
		}
		rows = append(rows, " "+block+" "+keyStyle.Render(e.Key)+val)
	}

	flag := "false"
	if t.UsesSystemSelectionColor {
		flag = "true"
	}
	rows = append(rows, "    "+keyStyle.Render(theme.KeyUsesSystemSelectionColor)+flag)

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
