// Package output provides output formatters for uptime reports.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/jmylchreest/uptime-indicator/internal/config"
	"github.com/jmylchreest/uptime-indicator/internal/uptime"
)

// Formatter formats an uptime report for output.
type Formatter interface {
	// Format writes the formatted report to the writer.
	Format(w io.Writer, r Report) error
}

// Report is one uptime snapshot plus the host boot time, if known.
type Report struct {
	Snapshot uptime.Snapshot
	BootTime time.Time
}

// Record is the serialisable form of a Report.
type Record struct {
	Source   string     `json:"source" yaml:"source"`
	OK       bool       `json:"ok" yaml:"ok"`
	Seconds  uint64     `json:"seconds" yaml:"seconds"`
	Full     string     `json:"full" yaml:"full"`
	Short    string     `json:"short" yaml:"short"`
	Error    string     `json:"error,omitempty" yaml:"error,omitempty"`
	ReadAt   time.Time  `json:"read_at" yaml:"read_at"`
	BootTime *time.Time `json:"boot_time,omitempty" yaml:"boot_time,omitempty"`
}

// Record converts the report for JSON/YAML encoding.
func (r Report) Record() Record {
	rec := Record{
		Source:  r.Snapshot.Source,
		OK:      r.Snapshot.OK(),
		Seconds: r.Snapshot.Reading.Seconds(),
		Full:    r.Snapshot.Strings.Full,
		Short:   r.Snapshot.Strings.Short,
		ReadAt:  r.Snapshot.ReadAt,
	}
	if r.Snapshot.Err != nil {
		rec.Error = r.Snapshot.Err.Error()
	}
	if !r.BootTime.IsZero() {
		bt := r.BootTime
		rec.BootTime = &bt
	}
	return rec
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template string // Template for the template format
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format config.OutputFormat, opts FormatterOptions) (Formatter, error) {
	switch format {
	case config.FormatPlain, "":
		return NewPlainFormatter(PlainBoth), nil
	case config.FormatShort:
		return NewPlainFormatter(PlainShort), nil
	case config.FormatFull:
		return NewPlainFormatter(PlainFull), nil
	case config.FormatJSON:
		return NewJSONFormatter(), nil
	case config.FormatYAML:
		return NewYAMLFormatter(), nil
	case config.FormatWaybar:
		return NewWaybarFormatter(), nil
	case config.FormatTemplate:
		return NewTemplateFormatter(opts.Template)
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
