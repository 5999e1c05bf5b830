package output

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/jmylchreest/uptime-indicator/internal/applet"
	"github.com/jmylchreest/uptime-indicator/internal/uptime"
)

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text    string `json:"text"`
	Alt     string `json:"alt,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	Class   string `json:"class,omitempty"`
}

// WaybarFormatter emits one Waybar status line.
type WaybarFormatter struct{}

// NewWaybarFormatter creates a new Waybar formatter.
func NewWaybarFormatter() *WaybarFormatter {
	return &WaybarFormatter{}
}

// Format writes the status as a single JSON line.
func (f *WaybarFormatter) Format(w io.Writer, r Report) error {
	return json.NewEncoder(w).Encode(NewWaybarStatus(r))
}

// NewWaybarStatus builds the Waybar status: the panel label as text and
// the popup lines as tooltip.
func NewWaybarStatus(r Report) WaybarStatus {
	return WaybarStatusFromStrings(r.Snapshot.Strings, r.Snapshot.OK(), r.BootTime)
}

// WaybarStatusFromStrings builds a status from already rendered strings,
// as received from the daemon.
func WaybarStatusFromStrings(s uptime.DisplayStrings, ok bool, bootTime time.Time) WaybarStatus {
	lines := []string{applet.PopupTitle, s.Full}
	if ago := relativeTime(bootTime); ago != "" && ok {
		lines = append(lines, "booted "+ago)
	}

	class := "ok"
	if !ok {
		class = "error"
	}

	return WaybarStatus{
		Text:    s.Short,
		Alt:     class,
		Tooltip: strings.Join(lines, "\n"),
		Class:   class,
	}
}
