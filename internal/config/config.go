// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultTheme         = "Default"
	DefaultWatchDebounce = 250 * time.Millisecond
	DefaultExportFormat  = "toml"
	DefaultSignalPath    = "/io/github/jmylchreest/Syntheme"
)

// Config represents the syntheme configuration.
type Config struct {
	Themes    ThemesConfig    `toml:"themes"`
	Watch     WatchConfig     `toml:"watch"`
	Desktop   DesktopConfig   `toml:"desktop"`
	Export    ExportConfig    `toml:"export"`
	TUI       TUIConfig       `toml:"tui"`
	Clipboard ClipboardConfig `toml:"clipboard"`
}

// ThemesConfig locates user themes and names the active one.
type ThemesConfig struct {
	Dir     string `toml:"dir"`     // Empty = ~/.config/syntheme/themes
	Default string `toml:"default"` // Theme previewed when none is named
}

// WatchConfig controls the user theme directory watcher.
type WatchConfig struct {
	Enabled  bool     `toml:"enabled"`
	Debounce Duration `toml:"debounce"` // e.g. "250ms", "1s", or milliseconds
}

// DesktopConfig controls session-bus integration.
type DesktopConfig struct {
	Signals    bool   `toml:"signals"`     // Broadcast theme changes on the session bus
	SignalPath string `toml:"signal_path"` // Object path the signals are emitted from
	Portal     bool   `toml:"portal"`      // Resolve system colours through the desktop portal
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	Format string `toml:"format"` // toml, json, yaml
}

// TUIConfig holds TUI-specific settings.
type TUIConfig struct {
	ShowHelp    bool `toml:"show_help"`
	ShowPreview bool `toml:"show_preview"`
}

// ClipboardConfig holds clipboard settings (TUI only).
type ClipboardConfig struct {
	Command string `toml:"command"` // Auto-detected if empty
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Themes: ThemesConfig{
			Dir:     "", // ThemesPath()
			Default: DefaultTheme,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: Duration(DefaultWatchDebounce),
		},
		Desktop: DesktopConfig{
			Signals:    true,
			SignalPath: DefaultSignalPath,
			Portal:     true,
		},
		Export: ExportConfig{
			Format: DefaultExportFormat,
		},
		TUI: TUIConfig{
			ShowHelp:    true,
			ShowPreview: true,
		},
		Clipboard: ClipboardConfig{
			Command: "", // Auto-detect
		},
	}
}

// ConfigDir returns the syntheme configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "syntheme")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// ThemesPath returns the default user themes directory.
func ThemesPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "themes")
}

// ThemesDir returns the configured user themes directory, expanding ~ and
// falling back to ThemesPath.
func (c *Config) ThemesDir() string {
	if c.Themes.Dir != "" {
		return expandPath(c.Themes.Dir)
	}
	return ThemesPath()
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// ValidExportFormats returns all valid export format values.
func ValidExportFormats() []string {
	return []string{"toml", "json", "yaml"}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validFormat := false
	for _, f := range ValidExportFormats() {
		if strings.EqualFold(c.Export.Format, f) {
			validFormat = true
			break
		}
	}
	if !validFormat {
		return fmt.Errorf("invalid export format %q, must be one of: %v", c.Export.Format, ValidExportFormats())
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must not be negative, got %s", c.Watch.Debounce.Duration())
	}

	if c.Desktop.Signals && !strings.HasPrefix(c.Desktop.SignalPath, "/") {
		return fmt.Errorf("signal_path must be an absolute object path, got %q", c.Desktop.SignalPath)
	}

	return nil
}

// EnsureThemesDir creates the user themes directory if it doesn't exist.
func (c *Config) EnsureThemesDir() error {
	path := c.ThemesDir()
	if path == "" {
		return errors.New("unable to determine themes directory")
	}
	return os.MkdirAll(path, 0755)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
