package theme

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	coreglib "github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/uptime-indicator/internal/config"
)

// Loader applies a theme to the default display and keeps it current.
// Methods other than the hot-reload callback must be called from the GTK
// main loop.
type Loader struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	provider  *gtk.CSSProvider
	themesDir string
	theme     *Theme
	watcher   *Watcher
}

// NewLoader creates a loader that looks for user themes in themesDir.
func NewLoader(themesDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger,
		provider:  gtk.NewCSSProvider(),
		themesDir: themesDir,
	}
}

// LoadTheme resolves name and loads it into the provider. When the theme
// cannot be found the default theme is loaded and the error returned.
func (l *Loader) LoadTheme(name string) error {
	t, err := Resolve(name, l.themesDir)
	if err != nil {
		if errors.Is(err, ErrThemeNotFound) {
			l.logger.Warn("theme not found, using default", "theme", name)
		} else {
			l.logger.Warn("failed to load user theme", "theme", name, "error", err)
		}
	}

	l.mu.Lock()
	l.theme = t
	l.mu.Unlock()

	l.provider.LoadFromString(t.CSS)
	l.logger.Debug("loaded theme", "name", t.Name, "path", t.Path)
	return err
}

// Apply installs the provider on display, or the default display when nil.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}

	gtk.StyleContextAddProviderForDisplay(
		display,
		l.provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
	l.logger.Debug("applied theme to display", "name", l.CurrentTheme())
}

// StartHotReload watches the current theme file and reloads the provider
// on change. Bundled themes are not watched.
func (l *Loader) StartHotReload(ctx context.Context) {
	l.StopHotReload()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.theme == nil || l.theme.Bundled() {
		return
	}

	l.watcher = NewWatcher(l.theme, l.logger)
	l.watcher.SetChangeCallback(func(css string) {
		coreglib.IdleAdd(func() {
			l.provider.LoadFromString(css)
			l.logger.Info("hot-reloaded theme", "name", l.CurrentTheme())
		})
	})
	if err := l.watcher.Start(ctx); err != nil {
		l.logger.Warn("failed to start theme watcher", "error", err)
	}
}

// StopHotReload stops watching the theme.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}

// CurrentTheme returns the name of the loaded theme.
func (l *Loader) CurrentTheme() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.theme == nil {
		return ""
	}
	return l.theme.Name
}

// ApplyColorScheme forces libadwaita to the configured scheme.
func ApplyColorScheme(scheme config.ColorScheme) {
	sm := adw.StyleManagerGetDefault()
	switch scheme {
	case config.ColorSchemeLight:
		sm.SetColorScheme(adw.ColorSchemeForceLight)
	case config.ColorSchemeDark:
		sm.SetColorScheme(adw.ColorSchemeForceDark)
	default:
		sm.SetColorScheme(adw.ColorSchemeDefault)
	}
}

// ColorSchemeClass returns "light" or "dark" for the configured scheme,
// asking libadwaita when the scheme follows the system.
func ColorSchemeClass(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	}
	if adw.StyleManagerGetDefault().Dark() {
		return "dark"
	}
	return "light"
}
