package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// EmitUptimeChanged emits the UptimeChanged signal.
func (s *Server) EmitUptimeChanged(short, full string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := s.conn.Emit(ObjectPath, Interface+"."+SignalUptimeChanged, short, full)
	if err != nil {
		return fmt.Errorf("failed to emit %s signal: %w", SignalUptimeChanged, err)
	}

	s.logger.Debug("emitted UptimeChanged signal", "short", short)
	return nil
}

// Connection returns the underlying D-Bus connection.
func (s *Server) Connection() *dbus.Conn {
	return s.conn
}
