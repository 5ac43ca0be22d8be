package theme

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// systemPrefix marks a colour that is looked up from the desktop at render time.
const systemPrefix = "system:"

// SystemColorNames lists the system colour references a theme may use.
var SystemColorNames = []string{"text", "background", "selection", "accent", "highlight"}

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Color is a theme colour: either an sRGB value with alpha or a reference to a
// named system colour.
type Color struct {
	RGB    colorful.Color
	Alpha  float64 // 0 (transparent) to 1 (opaque)
	System string  // non-empty for system colour references
}

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa" or "system:<name>".
func ParseColor(s string) (*Color, error) {
	s = strings.TrimSpace(s)

	if name, ok := strings.CutPrefix(s, systemPrefix); ok {
		if !slices.Contains(SystemColorNames, name) {
			return nil, fmt.Errorf("%w: unknown system color %q", ErrInvalidFormat, name)
		}
		return &Color{System: name, Alpha: 1}, nil
	}

	if !hexColorRegex.MatchString(s) {
		return nil, fmt.Errorf("%w: %q is not a hex color", ErrInvalidFormat, s)
	}

	// Expand #rgb so every value goes through the same six-digit path.
	if len(s) == 4 {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}

	rgb, err := colorful.Hex(s[:7])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, s, err)
	}

	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, s, err)
		}
		alpha = float64(a) / 255
	}

	return &Color{RGB: rgb, Alpha: alpha}, nil
}

// MustParseColor is like ParseColor but panics on error.
// Intended for built-in defaults and tests.
func MustParseColor(s string) *Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// SystemColor returns a reference to the named system colour.
func SystemColor(name string) *Color {
	return &Color{System: name, Alpha: 1}
}

// IsSystem reports whether the colour refers to a system colour.
func (c Color) IsSystem() bool {
	return c.System != ""
}

// Validate checks that the colour is representable in a theme file.
func (c Color) Validate() error {
	if c.IsSystem() {
		if !slices.Contains(SystemColorNames, c.System) {
			return fmt.Errorf("%w: unknown system color %q", ErrInvalidFormat, c.System)
		}
		return nil
	}
	if !c.RGB.IsValid() {
		return fmt.Errorf("%w: color components out of range", ErrInvalidFormat)
	}
	if c.Alpha < 0 || c.Alpha > 1 || math.IsNaN(c.Alpha) {
		return fmt.Errorf("%w: alpha %v out of range", ErrInvalidFormat, c.Alpha)
	}
	return nil
}

// Hex returns "#rrggbb" for opaque colours and "#rrggbbaa" otherwise.
// System references return their "system:<name>" form.
func (c Color) Hex() string {
	if c.IsSystem() {
		return systemPrefix + c.System
	}
	hex := c.RGB.Clamped().Hex()
	if a := alpha255(c.Alpha); a != 255 {
		hex += fmt.Sprintf("%02x", a)
	}
	return hex
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// Resolve returns the concrete colour, looking up system references in p.
// Unresolvable references fall back to opaque black.
func (c Color) Resolve(p SystemPalette) Color {
	if !c.IsSystem() {
		return c
	}
	if p != nil {
		if resolved, ok := p.SystemColor(c.System); ok && !resolved.IsSystem() {
			return resolved
		}
	}
	return Color{Alpha: 1}
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

func alpha255(a float64) uint8 {
	return uint8(math.Round(max(0, min(1, a)) * 255))
}

// SystemPalette resolves named system colours, typically from the desktop.
type SystemPalette interface {
	SystemColor(name string) (Color, bool)
}

// StaticPalette is a fixed SystemPalette, used when the desktop offers none.
type StaticPalette map[string]Color

// SystemColor implements SystemPalette.
func (p StaticPalette) SystemColor(name string) (Color, bool) {
	c, ok := p[name]
	return c, ok
}

// DefaultSystemPalette is a neutral light palette.
func DefaultSystemPalette() StaticPalette {
	return StaticPalette{
		"text":       *MustParseColor("#000000"),
		"background": *MustParseColor("#ffffff"),
		"selection":  *MustParseColor("#b3d7ff"),
		"accent":     *MustParseColor("#0a84ff"),
		"highlight":  *MustParseColor("#ececec"),
	}
}
