package output

import (
	"fmt"
	"io"
)

// PlainMode selects which strings the plain formatter prints.
type PlainMode int

const (
	PlainBoth PlainMode = iota
	PlainShort
	PlainFull
)

// PlainFormatter prints the display strings as text.
type PlainFormatter struct {
	mode PlainMode
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(mode PlainMode) *PlainFormatter {
	return &PlainFormatter{mode: mode}
}

// Format writes the popup text, the panel label, or both.
func (f *PlainFormatter) Format(w io.Writer, r Report) error {
	s := r.Snapshot.Strings
	switch f.mode {
	case PlainShort:
		_, err := fmt.Fprintln(w, s.Short)
		return err
	case PlainFull:
		_, err := fmt.Fprintln(w, s.Full)
		return err
	default:
		_, err := fmt.Fprintf(w, "%s\t%s\n", s.Short, s.Full)
		return err
	}
}
