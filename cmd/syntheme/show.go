package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/syntheme/internal/preview"
	"github.com/jmylchreest/syntheme/internal/theme"
)

var showOpts struct {
	format     string
	swatches   bool
	invisibles bool
	width      int
	bundled    bool
}

var showCmd = &cobra.Command{
	Use:   "show [name|index]",
	Short: "Preview a theme or print its definition",
	Long: `Render a theme as a highlighted code sample, or print its definition.

The theme may be given by name, by its 1-based index in "syntheme list", or
as a line of "syntheme list --format dmenu" output. Without an argument, the
configured default theme is shown. A user copy of a
bundled theme takes precedence over the bundled original.

Examples:
  # Preview the default theme
  syntheme show

  # Preview with colour swatches
  syntheme show Midnight --swatches

  # Print the definition as YAML
  syntheme show "Solarized Dark" --format yaml

  # Compare a customized theme with its bundled original
  syntheme show Midnight --bundled --format toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVarP(&showOpts.format, "format", "f", "",
		"Print the definition instead of a preview (toml, json, yaml)")
	showCmd.Flags().BoolVar(&showOpts.swatches, "swatches", false,
		"Include a colour swatch table")
	showCmd.Flags().BoolVar(&showOpts.invisibles, "invisibles", false,
		"Render whitespace markers in the preview")
	showCmd.Flags().IntVar(&showOpts.width, "width", 0,
		"Preview width in columns (0 = fit content)")
	showCmd.Flags().BoolVar(&showOpts.bundled, "bundled", false,
		"Show the bundled original, ignoring any user copy")
}

func runShow(cmd *cobra.Command, args []string) error {
	name := getConfig().Themes.Default
	if len(args) > 0 {
		name = resolveName(args[0])
	}

	t, err := loadShowTheme(name, showOpts.bundled)
	if err != nil {
		return err
	}

	if showOpts.format != "" {
		format, err := theme.ParseFormat(showOpts.format)
		if err != nil {
			return err
		}
		data, err := theme.Encode(t, format)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	palette := systemPalette(context.Background())
	fmt.Println(preview.Render(t, preview.Options{
		Palette:        palette,
		Width:          showOpts.width,
		ShowInvisibles: showOpts.invisibles,
	}))
	if showOpts.swatches {
		fmt.Println()
		fmt.Println(preview.Swatches(t, palette))
	}
	return nil
}

// loadShowTheme returns the effective theme for name, or the pristine
// bundled file when bundled is set.
func loadShowTheme(name string, bundled bool) (*theme.Theme, error) {
	if !bundled {
		t, isBundled, err := getManager().ArchivedTheme(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load theme %q: %w", name, err)
		}
		logger.Debug("loaded theme", "name", name, "bundled", isBundled)
		return t, nil
	}

	data, found := theme.GetEmbeddedTheme(name)
	if !found {
		return nil, fmt.Errorf("%w: no bundled theme %q", theme.ErrNotFound, name)
	}
	t, err := theme.Decode(data, theme.FormatTOML)
	if err != nil {
		return nil, fmt.Errorf("bundled theme %q: %w", name, err)
	}
	return t, nil
}
