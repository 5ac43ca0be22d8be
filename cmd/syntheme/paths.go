package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/syntheme/internal/config"
	"github.com/jmylchreest/syntheme/internal/theme"
)

var pathsOpts struct {
	init bool
}

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show configuration and theme locations",
	Long: `Show where syntheme reads its configuration and stores user themes.

With --init, the user themes directory is created and a config file with
the current settings is written if none exists.`,
	Args: cobra.NoArgs,
	RunE: runPaths,
}

func init() {
	rootCmd.AddCommand(pathsCmd)

	pathsCmd.Flags().BoolVar(&pathsOpts.init, "init", false,
		"Create the themes directory and a default config file")
}

func runPaths(cmd *cobra.Command, args []string) error {
	c := getConfig()

	configPath := globalOpts.configPath
	if configPath == "" {
		configPath = config.ConfigPath()
	}

	if pathsOpts.init {
		if err := c.EnsureThemesDir(); err != nil {
			return fmt.Errorf("failed to create themes directory: %w", err)
		}
		if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
			if err := c.Save(configPath); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
		}
	}

	fmt.Printf("config:  %s\n", configPath)
	fmt.Printf("themes:  %s\n", getManager().UserDir())
	fmt.Printf("bundled: %d themes (%s default)\n", len(theme.ListEmbeddedThemes()), theme.DefaultThemeName)
	return nil
}
