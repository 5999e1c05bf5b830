package daemon

import (
	"log/slog"
	"sync"
	"time"
)

// NotificationLevel indicates the urgency of an internal notification.
type NotificationLevel int

const (
	// NotificationLevelInfo is for informational messages (low urgency).
	NotificationLevelInfo NotificationLevel = iota
	// NotificationLevelWarning is for warning messages (normal urgency).
	NotificationLevelWarning
	// NotificationLevelError is for error messages (critical urgency).
	NotificationLevelError
)

// Urgency maps the level to a freedesktop notification urgency byte.
func (l NotificationLevel) Urgency() byte {
	switch l {
	case NotificationLevelInfo:
		return 0
	case NotificationLevelError:
		return 2
	default:
		return 1
	}
}

// Icon returns the themed icon name for the level.
func (l NotificationLevel) Icon() string {
	switch l {
	case NotificationLevelInfo:
		return "dialog-information"
	case NotificationLevelError:
		return "dialog-error"
	default:
		return "dialog-warning"
	}
}

// Notification is a desktop notification about the daemon itself.
type Notification struct {
	Summary string
	Body    string
	Level   NotificationLevel
}

// SendFunc delivers a notification, typically over the session bus.
type SendFunc func(n Notification) error

// InternalNotifier tells the user about daemon events such as config
// reloads. Notifications with the same key are rate limited.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	send SendFunc
	now  func() time.Time

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration

	enabled bool
}

// NewInternalNotifier creates a new InternalNotifier.
func NewInternalNotifier(send SendFunc, logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		send:           send,
		now:            time.Now,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		enabled:        true,
	}
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between notifications with the
// same key.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify sends a notification unless it is disabled or rate limited.
// It reports whether the notification was handed to the sender.
func (n *InternalNotifier) Notify(key, summary, body string, level NotificationLevel) bool {
	n.mu.Lock()
	if !n.enabled || n.send == nil {
		n.mu.Unlock()
		return false
	}

	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal notification rate-limited", "key", key)
		return false
	}
	n.lastNotifyTime[key] = now
	send := n.send
	n.mu.Unlock()

	if err := send(Notification{Summary: summary, Body: body, Level: level}); err != nil {
		n.logger.Debug("failed to send internal notification", "key", key, "error", err)
		return false
	}
	return true
}

// NotifyConfigReloaded reports a successful config reload.
func (n *InternalNotifier) NotifyConfigReloaded() bool {
	return n.Notify(
		"config-reload",
		"Configuration Reloaded",
		"uptime-indicator configuration has been reloaded.",
		NotificationLevelInfo,
	)
}

// NotifyConfigError reports a config file that failed to load.
func (n *InternalNotifier) NotifyConfigError(err error) bool {
	return n.Notify(
		"config-error",
		"Configuration Error",
		"Failed to reload configuration: "+err.Error(),
		NotificationLevelWarning,
	)
}

// NotifyThemeError reports a theme that failed to load.
func (n *InternalNotifier) NotifyThemeError(err error) bool {
	return n.Notify(
		"theme-error",
		"Theme Error",
		"Failed to load theme: "+err.Error(),
		NotificationLevelWarning,
	)
}
