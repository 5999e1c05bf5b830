package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/uptime-indicator/internal/applet"
	"github.com/jmylchreest/uptime-indicator/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the applet in the terminal",
	Long: `Run the uptime applet in the terminal.

The short uptime is shown as a clickable label. Clicking it, or pressing
enter, opens a popup with the full reading; the label refreshes on the
configured interval.

Key bindings:
  enter, space  Toggle popup
  esc           Close popup
  ?             Show help
  q             Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	src, err := newSource()
	if err != nil {
		return err
	}

	controller := applet.New(applet.Options{
		Source:       src,
		TickInterval: cfg.TickInterval(),
		Logger:       logger,
	})

	return tui.Run(tui.RunOptions{
		App:    controller,
		Logger: logger,
	})
}
