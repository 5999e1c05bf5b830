package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/uptime-indicator/internal/adapter/output"
	"github.com/jmylchreest/uptime-indicator/internal/dbus"
	"github.com/jmylchreest/uptime-indicator/internal/uptime"
)

var statusOpts struct {
	follow bool
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Output Waybar-compatible JSON status",
	Long: `Output the uptime in Waybar's custom module JSON format.

The output includes:
  - text: the short uptime, e.g. "3D04h"
  - tooltip: "Uptime", the full reading and the boot time
  - class: "ok", or "error" when the uptime could not be read

Polling module:

  "custom/uptime": {
    "exec": "uptime-indicator status",
    "interval": 60,
    "return-type": "json",
    "on-click": "uptime-indicator toggle"
  }

With --follow a line is printed for every refresh of a running
uptime-indicatord, for use without "interval".`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusOpts.follow, "follow", false,
		"Stream a line per refresh of the running daemon")
}

func runStatus(cmd *cobra.Command, args []string) error {
	if statusOpts.follow {
		return followStatus()
	}

	ctx, cancel := commandContext()
	defer cancel()

	report, err := takeReport(ctx)
	if err != nil {
		return outputStatus(output.WaybarStatus{Text: uptime.FallbackShort, Alt: "error", Class: "error"})
	}
	return outputStatus(output.NewWaybarStatus(report))
}

// followStatus prints the daemon's current state, then one line per
// UptimeChanged signal until interrupted.
func followStatus() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootTime := lookupBootTime(ctx)

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	client, err := dbus.NewClient(queryCtx)
	if err == nil {
		var st dbus.State
		st, err = client.State(queryCtx)
		if err == nil {
			err = outputStatus(output.WaybarStatusFromStrings(
				uptime.DisplayStrings{Full: st.Full, Short: st.Short}, st.OK, bootTime))
		}
	}
	cancel()
	if err != nil {
		if errors.Is(err, dbus.ErrDaemonNotRunning) {
			return fmt.Errorf("%w (start it or drop --follow)", err)
		}
		return err
	}

	watcher := dbus.NewWatcher(logger)
	return watcher.Watch(ctx, func(change dbus.UptimeChanged) {
		s := uptime.DisplayStrings{Full: change.Full, Short: change.Short}
		if err := outputStatus(output.WaybarStatusFromStrings(s, !s.IsFallback(), bootTime)); err != nil {
			logger.Warn("failed to write status", "error", err)
		}
	})
}

func lookupBootTime(ctx context.Context) time.Time {
	if cfg.Uptime.Source == uptime.SourceProcess {
		return time.Time{}
	}
	bt, err := uptime.BootTime(ctx)
	if err != nil {
		logger.Debug("boot time unavailable", "error", err)
		return time.Time{}
	}
	return bt
}

// outputStatus writes the status as JSON.
func outputStatus(status output.WaybarStatus) error {
	return json.NewEncoder(os.Stdout).Encode(status)
}
