package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "system", cfg.Uptime.Source)
	assert.Equal(t, 60*time.Second, cfg.TickInterval())
	assert.Equal(t, "top-right", cfg.Display.Position)
	assert.Equal(t, 0, cfg.Display.Monitor)
	assert.True(t, cfg.Popup.CloseOnClick)
	assert.Equal(t, "default", cfg.Theme.Name)
	assert.Equal(t, "system", cfg.Theme.ColorScheme)
	assert.Equal(t, "plain", cfg.Output.Format)
	assert.NotEmpty(t, cfg.Output.Template)
	assert.True(t, cfg.Daemon.Notifications)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[uptime]
source = "process"
refresh_interval = "30s"

[display]
position = "bottom-left"
offset_x = 4
offset_y = 2
monitor = 2

[popup]
close_on_click = false

[theme]
name = "minimal"
color_scheme = "dark"

[output]
format = "json"
template = "{{.Short}}"

[daemon]
notifications = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "process", cfg.Uptime.Source)
	assert.Equal(t, 30*time.Second, cfg.TickInterval())
	assert.Equal(t, "bottom-left", cfg.Display.Position)
	assert.True(t, Position(cfg.Display.Position).IsBottom())
	assert.Equal(t, 4, cfg.Display.OffsetX)
	assert.Equal(t, 2, cfg.Display.OffsetY)
	assert.Equal(t, 2, cfg.Display.Monitor)
	assert.False(t, cfg.Popup.CloseOnClick)
	assert.Equal(t, "minimal", cfg.Theme.Name)
	assert.Equal(t, "dark", cfg.Theme.ColorScheme)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "{{.Short}}", cfg.Output.Template)
	assert.False(t, cfg.Daemon.Notifications)
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[uptime]
refresh_interval = 120000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.TickInterval())
	assert.Equal(t, "system", cfg.Uptime.Source)
	assert.Equal(t, "top-right", cfg.Display.Position)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, os.WriteFile(path, []byte("[uptime]\nrefresh_interval = \"soon\"\n"), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "invalid duration")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown source", func(c *Config) { c.Uptime.Source = "sundial" }, "invalid source"},
		{"interval too small", func(c *Config) { c.Uptime.RefreshInterval = Duration(10 * time.Millisecond) }, "refresh_interval"},
		{"bad position", func(c *Config) { c.Display.Position = "middle" }, "invalid position"},
		{"negative monitor", func(c *Config) { c.Display.Monitor = -1 }, "monitor"},
		{"bad color scheme", func(c *Config) { c.Theme.ColorScheme = "sepia" }, "invalid color_scheme"},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "invalid output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Uptime.Source = "sysinfo"
	cfg.Uptime.RefreshInterval = Duration(90 * time.Second)
	require.NoError(t, cfg.Save(path))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSave_RenameFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	// A non-empty directory in place of the config file makes the rename fail.
	require.NoError(t, os.MkdirAll(filepath.Join(path, "occupied"), 0755))

	err := DefaultConfig().Save(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to replace config file")

	_, statErr := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	assert.Equal(t, "/tmp/xdg/uptime-indicator", ConfigDir())
	assert.Equal(t, "/tmp/xdg/uptime-indicator/config.toml", ConfigPath())
	assert.Equal(t, "/tmp/xdg/uptime-indicator/themes", ThemesDir())
}
