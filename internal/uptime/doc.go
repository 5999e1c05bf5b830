// Package uptime reads the system uptime counter and renders it into the
// compact panel label and the longer popup text.
package uptime
