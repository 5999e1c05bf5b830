package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/uptime-indicator/internal/adapter/output"
	"github.com/jmylchreest/uptime-indicator/internal/config"
)

var getOpts struct {
	format   string
	template string
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current uptime",
	Long: `Read the uptime once and print it.

Formats:
  plain     short and full strings separated by a tab (default)
  short     the panel label, e.g. "3D04h"
  full      the popup line, e.g. "76h 12m 5s"
  json      a JSON object with both strings and the raw seconds
  yaml      the same fields as YAML
  waybar    a Waybar custom module line
  template  a Go template over .Full .Short .Seconds .OK .Source
            .BootTime .ReadAt with the ago, formatTime and comma funcs

Examples:
  uptime-indicator get --format short
  uptime-indicator get --format template --template '{{.Short}} up since {{ago .BootTime}}'`,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getOpts.format, "format", "f", "",
		fmt.Sprintf("Output format %v (default from config)", config.ValidFormats()))
	getCmd.Flags().StringVarP(&getOpts.template, "template", "t", "",
		"Template for --format template (default from config)")
}

func runGet(cmd *cobra.Command, args []string) error {
	format := config.OutputFormat(cfg.Output.Format)
	if getOpts.format != "" {
		format = config.OutputFormat(getOpts.format)
	}
	if !slices.Contains(config.ValidFormats(), format) {
		return fmt.Errorf("invalid format %q, must be one of: %v", format, config.ValidFormats())
	}

	tmpl := cfg.Output.Template
	if getOpts.template != "" {
		tmpl = getOpts.template
	}

	formatter, err := output.NewFormatter(format, output.FormatterOptions{Template: tmpl})
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	report, err := takeReport(ctx)
	if err != nil {
		return err
	}

	return formatter.Format(os.Stdout, report)
}
