// Package daemon holds the background helpers of uptime-indicatord that
// are independent of GTK: config hot-reload and rate-limited desktop
// notifications about reload results.
package daemon
