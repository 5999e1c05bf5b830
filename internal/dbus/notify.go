package dbus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsName = "org.freedesktop.Notifications"
	notificationsPath = dbus.ObjectPath("/org/freedesktop/Notifications")
)

// DesktopNotification is sent to whichever notification daemon owns
// org.freedesktop.Notifications.
type DesktopNotification struct {
	AppName       string
	AppIcon       string
	Summary       string
	Body          string
	Urgency       byte
	ExpireTimeout int32 // Milliseconds, -1 lets the server decide
}

func (n DesktopNotification) hints() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(n.Urgency),
		"transient":     dbus.MakeVariant(true),
		"desktop-entry": dbus.MakeVariant(n.AppName),
	}
}

// SendNotification posts n on the session bus and returns the id the
// notification server assigned.
func SendNotification(ctx context.Context, n DesktopNotification) (uint32, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return 0, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	var id uint32
	obj := conn.Object(notificationsName, notificationsPath)
	call := obj.CallWithContext(ctx, notificationsName+".Notify", 0,
		n.AppName,
		uint32(0),
		n.AppIcon,
		n.Summary,
		n.Body,
		[]string{},
		n.hints(),
		n.ExpireTimeout,
	)
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("failed to send notification: %w", err)
	}
	return id, nil
}
