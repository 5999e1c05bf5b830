package dbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

// Client calls a running daemon.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus and checks that the daemon is
// running.
func NewClient(ctx context.Context) (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	var hasOwner bool
	err = conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, BusName).Store(&hasOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to query bus name owner: %w", err)
	}
	if !hasOwner {
		return nil, ErrDaemonNotRunning
	}

	return &Client{
		conn: conn,
		obj:  conn.Object(BusName, ObjectPath),
	}, nil
}

// TogglePopup asks the daemon to open or close its popup and returns
// whether it is open once the toggle has been applied.
func (c *Client) TogglePopup(ctx context.Context) (bool, error) {
	var open bool
	if err := c.obj.CallWithContext(ctx, Interface+".TogglePopup", 0).Store(&open); err != nil {
		return false, fmt.Errorf("failed to toggle popup: %w", err)
	}
	return open, nil
}

// State queries the daemon's uptime strings and popup state.
func (c *Client) State(ctx context.Context) (State, error) {
	var st State
	err := c.obj.CallWithContext(ctx, Interface+".GetUptime", 0).Store(&st.Full, &st.Short, &st.Seconds, &st.OK)
	if err != nil {
		return State{}, fmt.Errorf("failed to get uptime: %w", err)
	}
	if err := c.obj.CallWithContext(ctx, Interface+".IsPopupOpen", 0).Store(&st.PopupOpen); err != nil {
		return State{}, fmt.Errorf("failed to get popup state: %w", err)
	}
	return st, nil
}

// Watcher follows UptimeChanged signals from the daemon.
type Watcher struct {
	conn   *dbus.Conn
	logger *slog.Logger
}

// NewWatcher creates a new signal watcher.
func NewWatcher(logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{logger: logger}
}

// Watch calls fn for every UptimeChanged signal until ctx is done.
func (w *Watcher) Watch(ctx context.Context, fn func(UptimeChanged)) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	w.conn = conn

	opts := watchMatchOptions()
	if err := conn.AddMatchSignalContext(ctx, opts...); err != nil {
		return fmt.Errorf("failed to add match rule: %w", err)
	}
	defer func() {
		if err := conn.RemoveMatchSignal(opts...); err != nil {
			w.logger.Debug("failed to remove match rule", "error", err)
		}
	}()

	ch := make(chan *dbus.Signal, 16)
	conn.Signal(ch)
	defer conn.RemoveSignal(ch)

	w.logger.Debug("watching for uptime changes", "interface", Interface)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-ch:
			if !ok {
				return nil
			}
			change, err := decodeUptimeChanged(sig)
			if err != nil {
				w.logger.Debug("ignoring signal", "name", sig.Name, "error", err)
				continue
			}
			fn(change)
		}
	}
}

// watchMatchOptions matches UptimeChanged only from the owner of BusName.
func watchMatchOptions() []dbus.MatchOption {
	return []dbus.MatchOption{
		dbus.WithMatchSender(BusName),
		dbus.WithMatchObjectPath(ObjectPath),
		dbus.WithMatchInterface(Interface),
		dbus.WithMatchMember(SignalUptimeChanged),
	}
}
