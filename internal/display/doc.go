// Package display hosts the applet on a Wayland desktop: a layer-shell
// panel window showing the short uptime and a popup window per open popup
// id. All methods run on the GTK main loop unless noted.
package display
