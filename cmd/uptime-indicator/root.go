// Package main provides the CLI entrypoint for uptime-indicator.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/uptime-indicator/internal/adapter/output"
	"github.com/jmylchreest/uptime-indicator/internal/config"
	"github.com/jmylchreest/uptime-indicator/internal/uptime"
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
		source     string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "uptime-indicator",
	Short: "System uptime panel applet",
	Long: `uptime-indicator shows how long the system has been running.

It renders a compact label such as "3D04h" and, on click, a popup with
the full "76h 12m 5s" reading. The same applet runs in a terminal, as a
Waybar module or inside the uptime-indicatord desktop panel.

Running uptime-indicator without a subcommand launches the terminal applet.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if globalOpts.source != "" {
			cfg.Uptime.Source = globalOpts.source
			if err := cfg.Validate(); err != nil {
				return err
			}
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
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/uptime-indicator/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.source, "source", "",
		fmt.Sprintf("Uptime source %v (default from config)", uptime.SourceNames()))
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// newSource creates the configured uptime source.
func newSource() (uptime.Source, error) {
	src, err := uptime.NewSource(cfg.Uptime.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to create uptime source: %w", err)
	}
	return src, nil
}

// takeReport reads the configured source once.
func takeReport(ctx context.Context) (output.Report, error) {
	src, err := newSource()
	if err != nil {
		return output.Report{}, err
	}

	snap := uptime.Take(ctx, src)
	if !snap.OK() {
		logger.Debug("uptime unavailable", "source", snap.Source, "error", snap.Err)
	}

	report := output.Report{Snapshot: snap}
	if snap.OK() && src.Name() != uptime.SourceProcess {
		if bt, err := uptime.BootTime(ctx); err == nil {
			report.BootTime = bt
		} else {
			logger.Debug("boot time unavailable", "error", err)
		}
	}
	return report, nil
}

// commandContext bounds one-shot commands.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
