package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/uptime-indicator/internal/config"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestConfigWatcher_ReloadValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "[uptime]\nrefresh_interval = \"30s\"\n")

	w, err := NewConfigWatcher(path, nil)
	require.NoError(t, err)
	w.currentConfig = config.DefaultConfig()

	var got *config.Config
	w.SetReloadCallback(func(c *config.Config) { got = c })
	w.SetErrorCallback(func(err error) { t.Fatalf("unexpected error: %v", err) })

	w.reload()

	require.NotNil(t, got)
	assert.Equal(t, 30*time.Second, got.TickInterval())
	assert.Same(t, got, w.CurrentConfig())
}

func TestConfigWatcher_ReloadInvalidKeepsCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "[uptime]\nsource = \"sundial\"\n")

	w, err := NewConfigWatcher(path, nil)
	require.NoError(t, err)
	initial := config.DefaultConfig()
	w.currentConfig = initial

	var gotErr error
	w.SetReloadCallback(func(*config.Config) { t.Fatal("reload callback must not run") })
	w.SetErrorCallback(func(err error) { gotErr = err })

	w.reload()

	assert.Error(t, gotErr)
	assert.Same(t, initial, w.CurrentConfig())
}

func TestConfigWatcher_ReloadUnchangedIsSilent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "[theme]\nname = \"default\"\n")

	w, err := NewConfigWatcher(path, nil)
	require.NoError(t, err)
	w.currentConfig = config.DefaultConfig()

	called := false
	w.SetReloadCallback(func(*config.Config) { called = true })

	w.reload()
	assert.False(t, called)
}

func TestConfigWatcher_DetectsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	w, err := NewConfigWatcher(path, nil)
	require.NoError(t, err)
	w.SetDebounce(10 * time.Millisecond)

	reloaded := make(chan *config.Config, 1)
	w.SetReloadCallback(func(c *config.Config) {
		select {
		case reloaded <- c:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx, config.DefaultConfig()))
	defer w.Stop()

	writeConfig(t, path, "[display]\nposition = \"bottom-left\"\n")

	select {
	case c := <-reloaded:
		assert.Equal(t, "bottom-left", c.Display.Position)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestConfigWatcher_StartStopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	w, err := NewConfigWatcher(path, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, w.Start(ctx, config.DefaultConfig()))
	require.NoError(t, w.Start(ctx, config.DefaultConfig()))

	w.Stop()
	w.Stop()

	assert.DirExists(t, filepath.Dir(path))
}
