package desktop

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/syntheme/internal/theme"
)

const (
	portalBusName  = "org.freedesktop.portal.Desktop"
	portalPath     = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	portalReadOne  = "org.freedesktop.portal.Settings.ReadOne"
	portalRead     = "org.freedesktop.portal.Settings.Read"
	appearanceNS   = "org.freedesktop.appearance"
	keyColorScheme = "color-scheme"
	keyAccentColor = "accent-color"

	// Lab blend factors towards the background for derived colours.
	selectionBlend = 0.6
	highlightBlend = 0.88
)

// ColorScheme is the desktop's light/dark preference.
type ColorScheme uint32

// Values defined by the appearance portal.
const (
	ColorSchemeNone ColorScheme = iota
	ColorSchemeDark
	ColorSchemeLight
)

// String returns the scheme name.
func (s ColorScheme) String() string {
	switch s {
	case ColorSchemeDark:
		return "dark"
	case ColorSchemeLight:
		return "light"
	default:
		return "no-preference"
	}
}

// darkPalette mirrors theme.DefaultSystemPalette for dark desktops.
func darkPalette() theme.StaticPalette {
	return theme.StaticPalette{
		"text":       *theme.MustParseColor("#ffffff"),
		"background": *theme.MustParseColor("#1e1e1e"),
		"selection":  *theme.MustParseColor("#3f638b"),
		"accent":     *theme.MustParseColor("#0a84ff"),
		"highlight":  *theme.MustParseColor("#2a2a2a"),
	}
}

// BuildPalette derives the system colours from the desktop's colour scheme
// and, when set, its accent colour. Selection and highlight are tinted
// towards the accent.
func BuildPalette(scheme ColorScheme, accent *colorful.Color) theme.StaticPalette {
	p := theme.DefaultSystemPalette()
	if scheme == ColorSchemeDark {
		p = darkPalette()
	}
	if accent == nil {
		return p
	}

	bg := p["background"].RGB
	p["accent"] = theme.Color{RGB: *accent, Alpha: 1}
	p["selection"] = theme.Color{RGB: accent.BlendLab(bg, selectionBlend).Clamped(), Alpha: 1}
	p["highlight"] = theme.Color{RGB: accent.BlendLab(bg, highlightBlend).Clamped(), Alpha: 1}
	return p
}

// settingsReader reads one appearance setting.
type settingsReader interface {
	Read(ctx context.Context, key string) (dbus.Variant, error)
}

type portalReader struct {
	obj dbus.BusObject
}

// Read tries ReadOne (portal v2) and falls back to the deprecated Read,
// which wraps the value in an extra variant.
func (r portalReader) Read(ctx context.Context, key string) (dbus.Variant, error) {
	var v dbus.Variant
	err := r.obj.CallWithContext(ctx, portalReadOne, 0, appearanceNS, key).Store(&v)
	if err == nil {
		return v, nil
	}
	if err := r.obj.CallWithContext(ctx, portalRead, 0, appearanceNS, key).Store(&v); err != nil {
		return dbus.Variant{}, err
	}
	return v, nil
}

// PortalPalette loads system colours from the XDG desktop portal.
type PortalPalette struct {
	reader settingsReader
	logger *slog.Logger

	palette theme.StaticPalette
	scheme  ColorScheme
}

// NewPortalPalette creates a palette backed by the portal on conn. Call
// Load before use; until then it serves theme.DefaultSystemPalette.
func NewPortalPalette(conn *dbus.Conn, logger *slog.Logger) *PortalPalette {
	return newPortalPalette(portalReader{obj: conn.Object(portalBusName, portalPath)}, logger)
}

func newPortalPalette(r settingsReader, logger *slog.Logger) *PortalPalette {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortalPalette{
		reader:  r,
		logger:  logger,
		palette: theme.DefaultSystemPalette(),
	}
}

// Load reads the colour scheme and accent colour. Missing settings are not
// errors; the palette keeps its defaults for them.
func (p *PortalPalette) Load(ctx context.Context) error {
	scheme := ColorSchemeNone
	v, err := p.reader.Read(ctx, keyColorScheme)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", keyColorScheme, err)
	}
	if s, ok := unwrapVariant(v).(uint32); ok {
		scheme = ColorScheme(s)
	}

	var accent *colorful.Color
	if v, err := p.reader.Read(ctx, keyAccentColor); err != nil {
		// Older portals do not know the key.
		p.logger.Debug("accent color unavailable", "error", err)
	} else if c, ok := parseAccent(v); ok {
		accent = &c
	}

	p.scheme = scheme
	p.palette = BuildPalette(scheme, accent)
	p.logger.Debug("loaded desktop palette", "scheme", scheme.String(), "accent", p.palette["accent"].Hex())
	return nil
}

// Scheme returns the loaded colour scheme.
func (p *PortalPalette) Scheme() ColorScheme {
	return p.scheme
}

// SystemColor implements theme.SystemPalette.
func (p *PortalPalette) SystemColor(name string) (theme.Color, bool) {
	return p.palette.SystemColor(name)
}

// unwrapVariant strips any number of nested variants.
func unwrapVariant(v dbus.Variant) any {
	val := v.Value()
	for {
		inner, ok := val.(dbus.Variant)
		if !ok {
			return val
		}
		val = inner.Value()
	}
}

// parseAccent decodes the portal's (ddd) accent colour. Components outside
// [0, 1] mean the user has not chosen one.
func parseAccent(v dbus.Variant) (colorful.Color, bool) {
	var rgb []float64
	switch val := unwrapVariant(v).(type) {
	case []float64:
		rgb = val
	case []any:
		for _, c := range val {
			f, ok := c.(float64)
			if !ok {
				return colorful.Color{}, false
			}
			rgb = append(rgb, f)
		}
	default:
		return colorful.Color{}, false
	}

	if len(rgb) != 3 {
		return colorful.Color{}, false
	}
	c := colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}
	if !c.IsValid() {
		return colorful.Color{}, false
	}
	return c, true
}
