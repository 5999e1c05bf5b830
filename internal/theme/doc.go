// Package theme loads the CSS applied to the panel and popup windows of
// uptime-indicatord. Bundled themes are embedded; files in the user's
// themes directory override them by name and are hot-reloaded.
package theme
