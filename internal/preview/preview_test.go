package preview

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/syntheme/internal/theme"
)

func TestRender_ContainsSample(t *testing.T) {
	out := Render(theme.DefaultTheme(), Options{})

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, len(sample))
	assert.Contains(t, out, "func")
	assert.Contains(t, out, `"hello, "`)
	assert.Contains(t, out, "▏")
	assert.NotContains(t, out, "\t")
}

func TestRender_PadsToWidth(t *testing.T) {
	out := Render(theme.DefaultTheme(), Options{Width: 60})
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, 60, lipgloss.Width(line))
	}
}

func TestRender_Invisibles(t *testing.T) {
	plain := Render(theme.DefaultTheme(), Options{})
	assert.NotContains(t, plain, "→")

	out := Render(theme.DefaultTheme(), Options{ShowInvisibles: true})
	assert.Contains(t, out, "→")
	assert.Contains(t, out, "··")
}

func TestRender_SparseTheme(t *testing.T) {
	// Unset colours fall back to defaults rather than panicking.
	out := Render(&theme.Theme{Text: theme.MustParseColor("#ff0000")}, Options{})
	assert.Contains(t, out, "greet")
}

func TestComposite(t *testing.T) {
	r := newRenderer(theme.DefaultTheme(), Options{})

	half := theme.MustParseColor("#00000080")
	got := r.composite(half, r.bg)
	assert.Equal(t, "#808080", got.Hex())

	opaque := theme.MustParseColor("#123456")
	assert.Equal(t, "#123456", r.composite(opaque, r.bg).Hex())

	accent := theme.SystemColor("accent")
	assert.Equal(t, "#0a84ff", r.composite(accent, r.bg).Hex())
}

func TestSwatches(t *testing.T) {
	th := &theme.Theme{
		Text:       theme.MustParseColor("#102030"),
		Selection:  theme.SystemColor("accent"),
		Background: theme.MustParseColor("#ffffff80"),
	}

	out := Swatches(th, nil)

	for _, e := range th.Colors() {
		assert.Contains(t, out, e.Key)
	}
	assert.Contains(t, out, "#102030")
	assert.Contains(t, out, "#ffffff80")
	assert.Contains(t, out, "system:accent (#0a84ff)")
	assert.Contains(t, out, "unset")
	assert.Contains(t, out, theme.KeyUsesSystemSelectionColor)
	assert.Len(t, strings.Split(out, "\n"), len(th.Colors())+1)
}
