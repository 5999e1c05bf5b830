package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// ToggleHandler is called when TogglePopup is requested. It returns once the
// toggle has been applied, with the resulting popup state.
type ToggleHandler func() (bool, error)

// StateFunc reports the current applet state. It is called from D-Bus
// goroutines and must be safe for concurrent use.
type StateFunc func() State

// Server implements the uptime applet D-Bus interface.
type Server struct {
	conn   *dbus.Conn
	logger *slog.Logger

	// Handlers
	toggleHandler ToggleHandler
	stateFunc     StateFunc

	mu      sync.RWMutex
	running bool
}

// NewServer creates a new Server.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:    logger,
		stateFunc: func() State { return State{} },
	}
}

// SetToggleHandler sets the handler called when TogglePopup is requested.
func (s *Server) SetToggleHandler(handler ToggleHandler) {
	s.toggleHandler = handler
}

// SetStateFunc sets the function used to answer state queries.
func (s *Server) SetStateFunc(fn StateFunc) {
	if fn != nil {
		s.stateFunc = fn
	}
}

// Start connects to the session bus and exports the service.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn

	if err := conn.Export(s, ObjectPath, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: serverMethods(),
				Signals: serverSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), ObjectPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		s.unexport()
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		s.unexport()
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus server started", "interface", Interface, "path", ObjectPath)
	return nil
}

// unexport withdraws the exported objects after a failed start so that no
// signals are emitted without owning the bus name.
func (s *Server) unexport() {
	_ = s.conn.Export(nil, ObjectPath, Interface)
	_ = s.conn.Export(nil, ObjectPath, "org.freedesktop.DBus.Introspectable")
	s.conn = nil
}

// Stop releases the bus name.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(BusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		// Don't close the connection as it's shared (SessionBus)
	}

	s.logger.Info("D-Bus server stopped")
	return nil
}

// TogglePopup opens or closes the popup and returns whether it is open
// afterwards.
// D-Bus method: TogglePopup() -> b
func (s *Server) TogglePopup() (bool, *dbus.Error) {
	s.logger.Debug("TogglePopup called")
	if s.toggleHandler == nil {
		return s.stateFunc().PopupOpen, nil
	}
	open, err := s.toggleHandler()
	if err != nil {
		s.logger.Warn("toggle failed", "error", err)
		return false, dbus.MakeFailedError(err)
	}
	return open, nil
}

// GetUptime returns the current display strings and counter.
// D-Bus method: GetUptime() -> (sstb)
func (s *Server) GetUptime() (string, string, uint64, bool, *dbus.Error) {
	st := s.stateFunc()
	return st.Full, st.Short, st.Seconds, st.OK, nil
}

// IsPopupOpen reports whether the popup is open.
// D-Bus method: IsPopupOpen() -> b
func (s *Server) IsPopupOpen() (bool, *dbus.Error) {
	return s.stateFunc().PopupOpen, nil
}

// serverMethods returns the D-Bus method introspection data.
func serverMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "TogglePopup",
			Args: []introspect.Arg{
				{Name: "open", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "GetUptime",
			Args: []introspect.Arg{
				{Name: "full", Type: "s", Direction: "out"},
				{Name: "short", Type: "s", Direction: "out"},
				{Name: "seconds", Type: "t", Direction: "out"},
				{Name: "ok", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "IsPopupOpen",
			Args: []introspect.Arg{
				{Name: "open", Type: "b", Direction: "out"},
			},
		},
	}
}

// serverSignals returns the D-Bus signal introspection data.
func serverSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: SignalUptimeChanged,
			Args: []introspect.Arg{
				{Name: "short", Type: "s"},
				{Name: "full", Type: "s"},
			},
		},
	}
}
