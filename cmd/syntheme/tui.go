package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/syntheme/internal/tui"
)

var tuiOpts struct {
	noWatch bool
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive theme browser",
	Long: `Launch the interactive terminal user interface for browsing themes.

The TUI provides:
  - List of bundled and user themes with provenance
  - Search by name
  - Highlighted code preview with colour swatches
  - Create, duplicate, rename, remove and restore
  - Copy a theme definition to the clipboard
  - Real-time updates when theme files change

Key bindings:
  j/k, ↑/↓    Navigate list
  enter       Preview theme
  n           New untitled theme
  y           Duplicate theme
  e           Rename user theme
  x           Remove user theme or customization
  R           Restore bundled theme
  c           Copy definition as TOML
  i           Toggle whitespace markers (preview)
  /           Search themes
  r           Rescan themes directory
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().BoolVar(&tuiOpts.noWatch, "no-watch", false,
		"Do not watch the themes directory for changes")
}

func runTUI(cmd *cobra.Command, args []string) error {
	c := getConfig()

	return tui.Run(tui.RunOptions{
		Config:  c,
		Manager: getManager(),
		Palette: systemPalette(context.Background()),
		Watch:   c.Watch.Enabled && !tuiOpts.noWatch,
	})
}
