package daemon

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestNotifier(sent *[]Notification) (*InternalNotifier, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	n := NewInternalNotifier(func(note Notification) error {
		*sent = append(*sent, note)
		return nil
	}, nil)
	n.now = clock.now
	return n, clock
}

func TestInternalNotifier_RateLimitsSameKey(t *testing.T) {
	var sent []Notification
	n, clock := newTestNotifier(&sent)

	assert.True(t, n.NotifyConfigReloaded())
	assert.False(t, n.NotifyConfigReloaded())

	clock.t = clock.t.Add(5 * time.Second)
	assert.True(t, n.NotifyConfigReloaded())

	require.Len(t, sent, 2)
	assert.Equal(t, "Configuration Reloaded", sent[0].Summary)
	assert.Equal(t, NotificationLevelInfo, sent[0].Level)
}

func TestInternalNotifier_DifferentKeysIndependent(t *testing.T) {
	var sent []Notification
	n, _ := newTestNotifier(&sent)

	assert.True(t, n.NotifyConfigReloaded())
	assert.True(t, n.NotifyConfigError(errors.New("bad position")))
	assert.True(t, n.NotifyThemeError(errors.New("missing")))

	require.Len(t, sent, 3)
	assert.Contains(t, sent[1].Body, "bad position")
	assert.Equal(t, NotificationLevelWarning, sent[1].Level)
	assert.Contains(t, sent[2].Body, "missing")
}

func TestInternalNotifier_Disabled(t *testing.T) {
	var sent []Notification
	n, _ := newTestNotifier(&sent)
	n.SetEnabled(false)

	assert.False(t, n.NotifyConfigReloaded())
	assert.Empty(t, sent)
}

func TestInternalNotifier_NilSender(t *testing.T) {
	n := NewInternalNotifier(nil, nil)
	assert.False(t, n.NotifyConfigReloaded())
}

func TestInternalNotifier_SendError(t *testing.T) {
	n := NewInternalNotifier(func(Notification) error {
		return errors.New("no notification daemon")
	}, nil)
	assert.False(t, n.NotifyConfigReloaded())
}

func TestNotificationLevel(t *testing.T) {
	tests := []struct {
		level   NotificationLevel
		urgency byte
		icon    string
	}{
		{NotificationLevelInfo, 0, "dialog-information"},
		{NotificationLevelWarning, 1, "dialog-warning"},
		{NotificationLevelError, 2, "dialog-error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.urgency, tt.level.Urgency())
		assert.Equal(t, tt.icon, tt.level.Icon())
	}
}
