package uptime

import (
	"fmt"
	"time"
)

// Fallback strings shown when the uptime counter cannot be read.
const (
	FallbackFull  = "Failed to retrieve uptime"
	FallbackShort = "N/A"
)

// Reading is a non-negative number of whole seconds of uptime.
type Reading uint64

// FromDuration truncates d to whole seconds. Negative durations clamp to zero.
func FromDuration(d time.Duration) Reading {
	if d < 0 {
		return 0
	}
	return Reading(d / time.Second)
}

// Seconds returns the reading in whole seconds.
func (r Reading) Seconds() uint64 {
	return uint64(r)
}

// Duration returns the reading as a time.Duration.
func (r Reading) Duration() time.Duration {
	return time.Duration(r) * time.Second
}

// DisplayStrings holds both renderings of one reading.
type DisplayStrings struct {
	Full  string `json:"full" yaml:"full"`
	Short string `json:"short" yaml:"short"`
}

// FormatFull renders a reading as "{h}h {m}m {s}s" without padding.
func FormatFull(r Reading) string {
	s := r.Seconds()
	return fmt.Sprintf("%dh %dm %ds", s/3600, (s%3600)/60, s%60)
}

// FormatShort renders a reading as "{d}D{hh}h" with hours padded to two digits.
func FormatShort(r Reading) string {
	totalMinutes := r.Seconds() / 60
	days := totalMinutes / 1440
	hours := (totalMinutes % 1440) / 60
	return fmt.Sprintf("%dD%02dh", days, hours)
}

// IsFallback reports whether the strings are the read-failure pair.
func (d DisplayStrings) IsFallback() bool {
	return d.Full == FallbackFull && d.Short == FallbackShort
}

// Render produces both display strings from the result of a single read.
// A non-nil err always yields the fallback pair, whatever the reading holds.
func Render(r Reading, err error) DisplayStrings {
	if err != nil {
		return DisplayStrings{Full: FallbackFull, Short: FallbackShort}
	}
	return DisplayStrings{Full: FormatFull(r), Short: FormatShort(r)}
}
