// Package dbus exposes the running uptime applet on the session bus.
// The daemon exports TogglePopup, GetUptime and IsPopupOpen and emits
// UptimeChanged after each refresh; the CLI uses Client to call them and
// Watcher to follow the signal.
package dbus
