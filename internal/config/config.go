// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/uptime-indicator/internal/uptime"
)

// Default configuration values.
const (
	DefaultSource          = uptime.SourceSystem
	DefaultRefreshInterval = 60 * time.Second
	DefaultTemplate        = "{{.Short}} ({{.Full}})"
	DefaultThemeName       = "default"

	// MinRefreshInterval keeps a misconfigured file from spinning the host.
	MinRefreshInterval = time.Second
)

const appDir = "uptime-indicator"

// Config represents the uptime-indicator configuration.
type Config struct {
	Uptime  UptimeConfig  `toml:"uptime"`
	Display DisplayConfig `toml:"display"`
	Popup   PopupConfig   `toml:"popup"`
	Theme   ThemeConfig   `toml:"theme"`
	Output  OutputConfig  `toml:"output"`
	Daemon  DaemonConfig  `toml:"daemon"`
}

// UptimeConfig selects the counter and how often it is re-read.
type UptimeConfig struct {
	Source          string   `toml:"source"`           // system, sysinfo, process
	RefreshInterval Duration `toml:"refresh_interval"` // e.g. "60s", "1m", or 60000
}

// DisplayConfig contains panel placement settings.
type DisplayConfig struct {
	Position string `toml:"position"` // "top-right", "top-left", etc.
	OffsetX  int    `toml:"offset_x"` // Pixels from screen edge
	OffsetY  int    `toml:"offset_y"` // Pixels from screen edge
	Gap      int    `toml:"gap"`      // Pixels between panel and popup
	Monitor  int    `toml:"monitor"`  // 0 = compositor default, 1+ = specific monitor
}

// PopupConfig contains popup behaviour.
type PopupConfig struct {
	CloseOnClick bool `toml:"close_on_click"` // Clicking the popup closes it
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name        string `toml:"name"`         // Theme name without .css extension
	ColorScheme string `toml:"color_scheme"` // "system", "light", or "dark"
}

// OutputConfig holds defaults for the get command.
type OutputConfig struct {
	Format   string `toml:"format"`
	Template string `toml:"template"`
}

// DaemonConfig contains uptime-indicatord behaviour.
type DaemonConfig struct {
	Notifications bool `toml:"notifications"` // Desktop notifications on config reload
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Uptime: UptimeConfig{
			Source:          DefaultSource,
			RefreshInterval: Duration(DefaultRefreshInterval),
		},
		Display: DisplayConfig{
			Position: string(PositionTopRight),
			OffsetX:  10,
			OffsetY:  10,
			Gap:      6,
			Monitor:  0,
		},
		Popup: PopupConfig{
			CloseOnClick: true,
		},
		Theme: ThemeConfig{
			Name:        DefaultThemeName,
			ColorScheme: string(ColorSchemeSystem),
		},
		Output: OutputConfig{
			Format:   string(FormatPlain),
			Template: DefaultTemplate,
		},
		Daemon: DaemonConfig{
			Notifications: true,
		},
	}
}

// ConfigDir returns the configuration directory.
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
	return filepath.Join(configHome, appDir)
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// ThemesDir returns the directory holding user CSS themes.
func ThemesDir() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "themes")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults, then overlay with file contents
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
// Creates parent directories if needed and writes atomically.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(uptime.SourceNames(), c.Uptime.Source) {
		return fmt.Errorf("invalid source %q, must be one of: %v", c.Uptime.Source, uptime.SourceNames())
	}

	if c.Uptime.RefreshInterval.Duration() < MinRefreshInterval {
		return fmt.Errorf("refresh_interval must be at least %s, got %s",
			MinRefreshInterval, c.Uptime.RefreshInterval.Duration())
	}

	if !slices.Contains(ValidPositions(), Position(c.Display.Position)) {
		return fmt.Errorf("invalid position %q, must be one of: %v", c.Display.Position, ValidPositions())
	}

	if c.Display.Monitor < 0 {
		return fmt.Errorf("monitor must be 0 or greater, got %d", c.Display.Monitor)
	}

	if !slices.Contains(ValidColorSchemes(), ColorScheme(c.Theme.ColorScheme)) {
		return fmt.Errorf("invalid color_scheme %q, must be one of: %v", c.Theme.ColorScheme, ValidColorSchemes())
	}

	if !slices.Contains(ValidFormats(), OutputFormat(c.Output.Format)) {
		return fmt.Errorf("invalid output format %q, must be one of: %v", c.Output.Format, ValidFormats())
	}

	return nil
}

// TickInterval returns the refresh interval as a time.Duration.
func (c *Config) TickInterval() time.Duration {
	return c.Uptime.RefreshInterval.Duration()
}
