package dbus

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_TogglePopup(t *testing.T) {
	s := NewServer(nil)

	calls := 0
	open := false
	s.SetToggleHandler(func() (bool, error) {
		calls++
		open = !open
		return open, nil
	})

	got, dErr := s.TogglePopup()
	assert.Nil(t, dErr)
	assert.True(t, got)

	got, dErr = s.TogglePopup()
	assert.Nil(t, dErr)
	assert.False(t, got)
	assert.Equal(t, 2, calls)
}

// The handler applies the toggle on another goroutine, like the GTK main
// loop does; the reply must carry the state after the toggle, not before.
func TestServer_TogglePopupWaitsForLoop(t *testing.T) {
	loop := make(chan func())
	defer close(loop)
	go func() {
		for fn := range loop {
			time.Sleep(10 * time.Millisecond)
			fn()
		}
	}()

	var open atomic.Bool
	s := NewServer(nil)
	s.SetStateFunc(func() State { return State{PopupOpen: open.Load()} })
	s.SetToggleHandler(func() (bool, error) {
		done := make(chan bool, 1)
		loop <- func() {
			open.Store(!open.Load())
			done <- open.Load()
		}
		return <-done, nil
	})

	got, dErr := s.TogglePopup()
	require.Nil(t, dErr)
	assert.True(t, got)

	stateOpen, _ := s.IsPopupOpen()
	assert.True(t, stateOpen)

	got, dErr = s.TogglePopup()
	require.Nil(t, dErr)
	assert.False(t, got)
}

func TestServer_TogglePopupHandlerError(t *testing.T) {
	s := NewServer(nil)
	s.SetToggleHandler(func() (bool, error) {
		return false, errors.New("main loop not running")
	})

	_, dErr := s.TogglePopup()
	require.NotNil(t, dErr)
	assert.Contains(t, dErr.Error(), "main loop not running")
}

func TestServer_TogglePopupWithoutHandler(t *testing.T) {
	s := NewServer(nil)
	s.SetStateFunc(func() State { return State{PopupOpen: true} })

	open, dErr := s.TogglePopup()
	assert.Nil(t, dErr)
	assert.True(t, open)
}

func TestServer_GetUptime(t *testing.T) {
	s := NewServer(nil)

	full, short, secs, ok, dErr := s.GetUptime()
	assert.Nil(t, dErr)
	assert.Empty(t, full)
	assert.Empty(t, short)
	assert.Zero(t, secs)
	assert.False(t, ok)

	s.SetStateFunc(func() State {
		return State{Full: "1h 1m 1s", Short: "0D01h", Seconds: 3661, OK: true, PopupOpen: true}
	})

	full, short, secs, ok, dErr = s.GetUptime()
	assert.Nil(t, dErr)
	assert.Equal(t, "1h 1m 1s", full)
	assert.Equal(t, "0D01h", short)
	assert.Equal(t, uint64(3661), secs)
	assert.True(t, ok)

	open, dErr := s.IsPopupOpen()
	assert.Nil(t, dErr)
	assert.True(t, open)
}

func TestServer_SetStateFuncIgnoresNil(t *testing.T) {
	s := NewServer(nil)
	s.SetStateFunc(nil)

	open, _ := s.IsPopupOpen()
	assert.False(t, open)
}

func TestServer_EmitWithoutConnection(t *testing.T) {
	s := NewServer(nil)
	assert.Error(t, s.EmitUptimeChanged("0D01h", "1h 1m 1s"))
	assert.NoError(t, s.Stop())
}

func TestIntrospection(t *testing.T) {
	methods := serverMethods()
	names := make([]string, 0, len(methods))
	for _, m := range methods {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"TogglePopup", "GetUptime", "IsPopupOpen"}, names)
	require.Len(t, methods[0].Args, 1)
	assert.Equal(t, "b", methods[0].Args[0].Type)

	signals := serverSignals()
	require.Len(t, signals, 1)
	assert.Equal(t, SignalUptimeChanged, signals[0].Name)
}

func TestDecodeUptimeChanged(t *testing.T) {
	tests := []struct {
		name    string
		sig     *dbus.Signal
		want    UptimeChanged
		wantErr bool
	}{
		{
			name: "valid",
			sig:  &dbus.Signal{Name: Interface + ".UptimeChanged", Body: []any{"1D01h", "25h 0m 0s"}},
			want: UptimeChanged{Short: "1D01h", Full: "25h 0m 0s"},
		},
		{name: "nil", sig: nil, wantErr: true},
		{
			name:    "other member",
			sig:     &dbus.Signal{Name: Interface + ".Other", Body: []any{"a", "b"}},
			wantErr: true,
		},
		{
			name:    "short body",
			sig:     &dbus.Signal{Name: Interface + ".UptimeChanged", Body: []any{"a"}},
			wantErr: true,
		},
		{
			name:    "wrong types",
			sig:     &dbus.Signal{Name: Interface + ".UptimeChanged", Body: []any{uint32(1), "b"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeUptimeChanged(tt.sig)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWatchMatchOptions_FilterBySender(t *testing.T) {
	opts := watchMatchOptions()

	assert.Contains(t, opts, dbus.WithMatchSender(BusName))
	assert.Contains(t, opts, dbus.WithMatchMember(SignalUptimeChanged))
	assert.Contains(t, opts, dbus.WithMatchObjectPath(ObjectPath))
}

func TestDesktopNotification_Hints(t *testing.T) {
	n := DesktopNotification{AppName: "uptime-indicator", Urgency: 2}
	hints := n.hints()

	assert.Equal(t, byte(2), hints["urgency"].Value())
	assert.Equal(t, true, hints["transient"].Value())
	assert.Equal(t, "uptime-indicator", hints["desktop-entry"].Value())
}
