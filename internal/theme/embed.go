package theme

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

// EmbeddedThemes contains all bundled theme files.
//
//go:embed themes/*.toml
var EmbeddedThemes embed.FS

// DefaultThemeName is the name of the built-in default theme.
const DefaultThemeName = "Default"

// BundledFS returns the bundled themes as a flat file system of
// "<name>.toml" files.
func BundledFS() fs.FS {
	sub, err := fs.Sub(EmbeddedThemes, "themes")
	if err != nil {
		// Only fails for an invalid path, which "themes" is not.
		panic(err)
	}
	return sub
}

// GetEmbeddedTheme retrieves a bundled theme file by name.
// Returns the raw content and whether it was found.
func GetEmbeddedTheme(name string) ([]byte, bool) {
	data, err := EmbeddedThemes.ReadFile("themes/" + name + "." + Extension)
	if err != nil {
		return nil, false
	}
	return data, true
}

// ListEmbeddedThemes returns names of all embedded themes.
func ListEmbeddedThemes() []string {
	names, _ := listThemeFiles(BundledFS())
	return names
}

// listThemeFiles returns the theme names of the top-level theme files in fsys.
// Hidden files and partials (names starting with "." or "_") are skipped.
func listThemeFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		file := entry.Name()
		if strings.HasPrefix(file, ".") || strings.HasPrefix(file, "_") {
			continue
		}
		if ext := path.Ext(file); ext == "."+Extension {
			names = append(names, strings.TrimSuffix(file, ext))
		}
	}
	return names, nil
}
