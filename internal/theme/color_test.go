package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantHex string
		wantErr bool
	}{
		{"six digit", "#1e7f8a", "#1e7f8a", false},
		{"uppercase", "#ABCDEF", "#abcdef", false},
		{"short form", "#fa0", "#ffaa00", false},
		{"opaque alpha collapses", "#102030ff", "#102030", false},
		{"translucent", "#10203080", "#10203080", false},
		{"surrounding space", "  #000000 ", "#000000", false},
		{"system reference", "system:accent", "system:accent", false},
		{"unknown system", "system:chartreuse", "", true},
		{"missing hash", "1e7f8a", "", true},
		{"bad digit", "#12345g", "", true},
		{"wrong length", "#12345", "", true},
		{"named colour", "red", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseColor(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHex, c.Hex())
		})
	}
}

func TestParseColor_Alpha(t *testing.T) {
	c := MustParseColor("#00000080")
	assert.InDelta(t, 128.0/255, c.Alpha, 1e-9)

	c = MustParseColor("#000000")
	assert.Equal(t, 1.0, c.Alpha)
}

func TestColor_TextRoundTrip(t *testing.T) {
	for _, s := range []string{"#000000", "#ffffff", "#7a3e9d", "#ececec40", "system:selection"} {
		c := MustParseColor(s)
		text, err := c.MarshalText()
		require.NoError(t, err)

		var back Color
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, s, back.Hex())
	}
}

func TestColor_Validate(t *testing.T) {
	assert.NoError(t, MustParseColor("#123456").Validate())
	assert.NoError(t, SystemColor("text").Validate())

	bad := Color{System: "nope"}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidFormat)

	badAlpha := *MustParseColor("#123456")
	badAlpha.Alpha = 2
	assert.ErrorIs(t, badAlpha.Validate(), ErrInvalidFormat)

	_, err := badAlpha.MarshalText()
	assert.Error(t, err)
}

func TestColor_Resolve(t *testing.T) {
	palette := StaticPalette{"accent": *MustParseColor("#0a84ff")}

	concrete := MustParseColor("#abcdef")
	assert.Equal(t, "#abcdef", concrete.Resolve(palette).Hex())

	assert.Equal(t, "#0a84ff", SystemColor("accent").Resolve(palette).Hex())

	// Missing references fall back to black.
	assert.Equal(t, "#000000", SystemColor("text").Resolve(palette).Hex())
	assert.Equal(t, "#000000", SystemColor("text").Resolve(nil).Hex())
}

func TestDefaultSystemPalette(t *testing.T) {
	p := DefaultSystemPalette()
	for _, name := range SystemColorNames {
		c, ok := p.SystemColor(name)
		assert.True(t, ok, name)
		assert.False(t, c.IsSystem(), name)
	}
}
