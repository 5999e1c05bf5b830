package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/uptime-indicator/internal/dbus"
)

var toggleOpts struct {
	quiet bool
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle the popup of the running daemon",
	Long: `Ask a running uptime-indicatord to open its popup, or close it when
already open. Useful as a compositor keybinding or a Waybar on-click.`,
	RunE: runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)

	toggleCmd.Flags().BoolVarP(&toggleOpts.quiet, "quiet", "q", false,
		"Do not print the resulting popup state")
}

func runToggle(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	client, err := dbus.NewClient(ctx)
	if err != nil {
		if errors.Is(err, dbus.ErrDaemonNotRunning) {
			return fmt.Errorf("%w (start uptime-indicatord first)", err)
		}
		return err
	}

	open, err := client.TogglePopup(ctx)
	if err != nil {
		return err
	}

	if toggleOpts.quiet {
		return nil
	}

	if open {
		fmt.Println("popup open")
	} else {
		fmt.Println("popup closed")
	}
	return nil
}
