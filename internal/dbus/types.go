package dbus

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	// BusName is the well-known name claimed by the daemon.
	BusName = "io.github.jmylchreest.UptimeIndicator"
	// Interface is the exported interface name.
	Interface = BusName
	// ObjectPath is the exported object path.
	ObjectPath = dbus.ObjectPath("/io/github/jmylchreest/UptimeIndicator")

	// SignalUptimeChanged is emitted with (short, full) after a refresh.
	SignalUptimeChanged = "UptimeChanged"
)

// ErrDaemonNotRunning is returned by the client when nobody owns BusName.
var ErrDaemonNotRunning = errors.New("uptime-indicatord is not running")

// State is what the daemon reports about itself.
type State struct {
	Full      string
	Short     string
	Seconds   uint64
	OK        bool
	PopupOpen bool
}

// UptimeChanged is the payload of the UptimeChanged signal.
type UptimeChanged struct {
	Short string
	Full  string
}

// decodeUptimeChanged extracts the payload of an UptimeChanged signal.
func decodeUptimeChanged(sig *dbus.Signal) (UptimeChanged, error) {
	if sig == nil || sig.Name != Interface+"."+SignalUptimeChanged {
		return UptimeChanged{}, fmt.Errorf("not an %s signal", SignalUptimeChanged)
	}
	if len(sig.Body) != 2 {
		return UptimeChanged{}, fmt.Errorf("unexpected %s body length %d", SignalUptimeChanged, len(sig.Body))
	}
	short, ok1 := sig.Body[0].(string)
	full, ok2 := sig.Body[1].(string)
	if !ok1 || !ok2 {
		return UptimeChanged{}, fmt.Errorf("unexpected %s body types", SignalUptimeChanged)
	}
	return UptimeChanged{Short: short, Full: full}, nil
}
