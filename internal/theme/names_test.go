package theme

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "Midnight", "Midnight", false},
		{"spaces kept inside", "Solarized Dark", "Solarized Dark", false},
		{"trimmed", "  Ocean  ", "Ocean", false},
		{"unicode", "Café Noir", "Café Noir", false},
		{"empty", "", "", true},
		{"only space", "   ", "", true},
		{"hidden", ".secret", "", true},
		{"slash", "a/b", "", true},
		{"backslash", `a\b`, "", true},
		{"colon", "a:b", "", true},
		{"control", "a\tb", "", true},
		{"too long", strings.Repeat("x", maxNameLength+1), "", true},
		{"max length", strings.Repeat("x", maxNameLength), strings.Repeat("x", maxNameLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUniqueName(t *testing.T) {
	assert.Equal(t, "Untitled", uniqueName("Untitled", nil))
	assert.Equal(t, "Untitled 2", uniqueName("Untitled", []string{"Untitled"}))
	assert.Equal(t, "Untitled 3", uniqueName("Untitled", []string{"untitled", "Untitled 2"}))
}

func TestCopyName(t *testing.T) {
	assert.Equal(t, "Midnight copy", copyName("Midnight", []string{"Midnight"}))
	assert.Equal(t, "Midnight copy 2", copyName("Midnight", []string{"Midnight", "Midnight copy"}))

	long := strings.Repeat("é", maxNameLength/2)
	got := copyName(long, nil)
	assert.LessOrEqual(t, len(got), maxNameLength)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, copySuffix))
}

func TestSortNames(t *testing.T) {
	names := []string{"untitled 10", "Zebra", "apple", "Untitled 2", "Midnight"}
	sortNames(names)
	assert.Equal(t, []string{"apple", "Midnight", "Untitled 2", "untitled 10", "Zebra"}, names)
}
