package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/syntheme/internal/config"
	"github.com/jmylchreest/syntheme/internal/core"
	"github.com/jmylchreest/syntheme/internal/desktop"
	"github.com/jmylchreest/syntheme/internal/theme"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		themesDir  string
	}
	logger *slog.Logger

	// themeManager is the global manager instance
	themeManager *theme.Manager
)

// portalTimeout bounds the desktop portal lookup so a missing portal does
// not stall the CLI.
const portalTimeout = 2 * time.Second

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "syntheme",
	Short: "Syntax highlighting theme manager",
	Long: `syntheme manages syntax highlighting colour themes for text editors.

Bundled themes ship with the program and are read-only. User themes live in
the user themes directory and shadow bundled themes of the same name, so a
customized bundled theme can always be restored.

Running syntheme without a subcommand launches the interactive TUI.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logging
		setupLogger()

		// Load configuration
		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if globalOpts.themesDir != "" {
			cfg.Themes.Dir = globalOpts.themesDir
		}

		userDir := cfg.ThemesDir()
		if userDir == "" {
			return fmt.Errorf("unable to determine themes directory")
		}

		themeManager, err = theme.NewManager(theme.Options{
			UserDir: userDir,
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize theme manager: %w", err)
		}

		return nil
	},
	// Default to TUI when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}

// execute runs the root command and closes the theme manager afterwards,
// whether or not the command failed, so pending writes are flushed.
func execute() error {
	err := rootCmd.Execute()
	if themeManager != nil {
		if cerr := themeManager.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/syntheme/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.themesDir, "themes-dir", "",
		"User themes directory (default: ~/.config/syntheme/themes)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// getManager returns the global theme manager.
func getManager() *theme.Manager {
	return themeManager
}

// getConfig returns the global config instance.
func getConfig() *config.Config {
	return cfg
}

// systemPalette resolves system colours through the desktop portal when
// enabled, falling back to the built-in palette.
func systemPalette(ctx context.Context) theme.SystemPalette {
	if !getConfig().Desktop.Portal {
		return theme.DefaultSystemPalette()
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		logger.Debug("session bus unavailable, using default palette", "error", err)
		return theme.DefaultSystemPalette()
	}

	ctx, cancel := context.WithTimeout(ctx, portalTimeout)
	defer cancel()

	palette := desktop.NewPortalPalette(conn, logger)
	if err := palette.Load(ctx); err != nil {
		logger.Debug("desktop portal unavailable, using default palette", "error", err)
		return theme.DefaultSystemPalette()
	}
	return palette
}

// waitOp blocks on an async manager operation.
func waitOp(op *theme.Op, ok bool) (string, error) {
	if !ok {
		return "", op.Err()
	}
	return op.Wait()
}

// resolveName maps an index, name or dmenu line to a theme name. Unknown
// arguments are returned unchanged so the manager reports the error.
func resolveName(arg string) string {
	if info := core.Resolve(getManager().ThemeInfos(), arg, ""); info != nil {
		return info.Name
	}
	return arg
}
