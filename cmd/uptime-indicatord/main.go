// Package main is the entry point for the uptime-indicatord panel daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/uptime-indicator/internal/applet"
	"github.com/jmylchreest/uptime-indicator/internal/config"
	"github.com/jmylchreest/uptime-indicator/internal/daemon"
	"github.com/jmylchreest/uptime-indicator/internal/dbus"
	"github.com/jmylchreest/uptime-indicator/internal/display"
	"github.com/jmylchreest/uptime-indicator/internal/theme"
	"github.com/jmylchreest/uptime-indicator/internal/uptime"
)

const (
	appID   = "io.github.jmylchreest.uptime-indicator"
	appName = "uptime-indicatord"

	// toggleTimeout bounds how long a D-Bus toggle waits for the main loop.
	toggleTimeout = 2 * time.Second
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/uptime-indicator/config.toml)")
	flag.Parse()

	if *showVersion {
		fmt.Println(appName, "version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	os.Exit(run(*configPath, logger))
}

func run(configPath string, logger *slog.Logger) int {
	logger.Info("starting "+appName, "version", version)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}

	src, err := uptime.NewSource(cfg.Uptime.Source)
	if err != nil {
		logger.Error("failed to create uptime source", "error", err)
		return 1
	}

	app := adw.NewApplication(appID, 0)

	// Shared state between GTK main loop and signal handlers
	var (
		host          *display.Host
		dbusServer    *dbus.Server
		themeLoader   *theme.Loader
		configWatcher *daemon.ConfigWatcher
		running       atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sent off the GTK main loop; the notification server may be slow.
	notifier := daemon.NewInternalNotifier(func(n daemon.Notification) error {
		go func() {
			sendCtx, sendCancel := context.WithTimeout(ctx, 2*time.Second)
			defer sendCancel()
			_, err := dbus.SendNotification(sendCtx, dbus.DesktopNotification{
				AppName:       appName,
				AppIcon:       n.Level.Icon(),
				Summary:       n.Summary,
				Body:          n.Body,
				Urgency:       n.Level.Urgency(),
				ExpireTimeout: 5000,
			})
			if err != nil {
				logger.Debug("failed to send desktop notification", "error", err)
			}
		}()
		return nil
	}, logger)
	notifier.SetEnabled(cfg.Daemon.Notifications)

	shutdown := func() {
		if !running.Swap(false) {
			return
		}
		if configWatcher != nil {
			configWatcher.Stop()
		}
		if themeLoader != nil {
			themeLoader.StopHotReload()
		}
		if dbusServer != nil {
			_ = dbusServer.Stop()
		}
		if host != nil {
			host.Stop()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
		glib.IdleAdd(func() {
			shutdown()
			app.Quit()
		})
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		theme.ApplyColorScheme(config.ColorScheme(cfg.Theme.ColorScheme))
		themeLoader = theme.NewLoader(config.ThemesDir(), logger)
		if err := themeLoader.LoadTheme(cfg.Theme.Name); err != nil {
			logAvailableThemes(logger)
		}
		themeLoader.Apply(nil)
		themeLoader.StartHotReload(ctx)

		controller := applet.New(applet.Options{
			Source:       src,
			TickInterval: cfg.TickInterval(),
			Logger:       logger,
		})

		host = display.NewHost(&app.Application, controller, cfg, logger)

		dbusServer = dbus.NewServer(logger)
		dbusServer.SetToggleHandler(func() (bool, error) {
			sendCtx, sendCancel := context.WithTimeout(ctx, toggleTimeout)
			defer sendCancel()
			st, err := host.Send(sendCtx, applet.Toggle{})
			if err != nil {
				return false, fmt.Errorf("failed to toggle popup: %w", err)
			}
			return st.PopupOpen, nil
		})
		dbusServer.SetStateFunc(func() dbus.State {
			st := host.State()
			return dbus.State{
				Full:      st.Strings.Full,
				Short:     st.Strings.Short,
				Seconds:   st.Reading.Seconds(),
				OK:        st.OK,
				PopupOpen: st.PopupOpen,
			}
		})
		if err := dbusServer.Start(); err != nil {
			// The panel still works without the bus; only toggle and
			// status --follow need it.
			logger.Warn("failed to start D-Bus server", "error", err)
		}

		host.SetRefreshCallback(func(st display.State) {
			if err := dbusServer.EmitUptimeChanged(st.Strings.Short, st.Strings.Full); err != nil {
				logger.Debug("failed to emit uptime change", "error", err)
			}
		})

		if err := host.Start(); err != nil {
			logger.Error("failed to start display host", "error", err)
			var displayErr *display.DisplayError
			if errors.As(err, &displayErr) {
				logger.Error("is a Wayland compositor with layer-shell running?")
			}
			shutdown()
			app.Quit()
			return
		}

		configWatcher, err = daemon.NewConfigWatcher(configPath, logger)
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
			return
		}
		configWatcher.SetReloadCallback(func(newConfig *config.Config) {
			glib.IdleAdd(func() {
				applyConfig(ctx, cfg, newConfig, host, themeLoader, notifier, logger)
				cfg = newConfig
			})
		})
		configWatcher.SetErrorCallback(func(err error) {
			notifier.NotifyConfigError(err)
		})
		if err := configWatcher.Start(ctx, cfg); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		}

		logger.Info(appName+" ready", "dbus_name", dbus.BusName)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		shutdown()
	})

	status := app.Run(os.Args[:1])
	if status != 0 {
		logger.Error("application exited with error", "status", status)
		return status
	}

	logger.Info(appName + " stopped")
	return 0
}

// applyConfig pushes a reloaded configuration into the running components.
// It runs on the GTK main loop.
func applyConfig(
	ctx context.Context,
	oldConfig, newConfig *config.Config,
	host *display.Host,
	themeLoader *theme.Loader,
	notifier *daemon.InternalNotifier,
	logger *slog.Logger,
) {
	notifier.SetEnabled(newConfig.Daemon.Notifications)

	if newConfig.Theme.ColorScheme != oldConfig.Theme.ColorScheme {
		theme.ApplyColorScheme(config.ColorScheme(newConfig.Theme.ColorScheme))
	}

	if newConfig.Theme.Name != oldConfig.Theme.Name {
		if err := themeLoader.LoadTheme(newConfig.Theme.Name); err != nil {
			logAvailableThemes(logger)
			notifier.NotifyThemeError(err)
		}
		themeLoader.StartHotReload(ctx)
	}

	host.UpdateConfig(newConfig)
	notifier.NotifyConfigReloaded()
}

func logAvailableThemes(logger *slog.Logger) {
	themes, err := theme.ListAvailableThemes(config.ThemesDir())
	if err != nil {
		logger.Debug("failed to list themes", "error", err)
	}
	names := make([]string, 0, len(themes))
	for _, t := range themes {
		names = append(names, t.Name)
	}
	logger.Warn("available themes", "themes", names)
}
