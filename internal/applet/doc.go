// Package applet holds the uptime applet controller.
//
// The controller is host independent: a host (the terminal UI or the GTK
// panel) delivers events to Update one at a time, renders View and
// ViewPopup, executes the returned commands and realises the declarative
// Subscription with its own timer. The controller never calls back into
// the host and needs no locking.
package applet
