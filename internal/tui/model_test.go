package tui

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/uptime-indicator/internal/applet"
	"github.com/jmylchreest/uptime-indicator/internal/uptime"
)

type counterSource struct {
	seconds uint64
}

func (s *counterSource) Name() string { return "counter" }

func (s *counterSource) Read(context.Context) (uptime.Reading, error) {
	return uptime.Reading(s.seconds), nil
}

func newTestModel(src *counterSource) (Model, *applet.Controller) {
	n := 0
	ctrl := applet.New(applet.Options{
		Source: src,
		NewID: func() applet.PopupID {
			n++
			return applet.PopupID(fmt.Sprintf("p%d", n))
		},
	})
	return New(ctrl, nil, nil), ctrl
}

func press(m Model, msg tea.KeyMsg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	quitKey  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	helpKey  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}}
)

func TestView_ShowsShortLabel(t *testing.T) {
	m, _ := newTestModel(&counterSource{seconds: 90000})

	view := m.View()
	assert.Contains(t, view, "1D01h")
	assert.NotContains(t, view, "Uptime")
}

func TestToggle_OpensAndClosesPopup(t *testing.T) {
	m, ctrl := newTestModel(&counterSource{seconds: 3661})

	m = press(m, enterKey)
	id, shown := m.PopupShown()
	require.True(t, shown)
	assert.Equal(t, applet.PopupID("p1"), id)

	view := m.View()
	assert.Contains(t, view, "Uptime")
	assert.Contains(t, view, "1h 1m 1s")

	m = press(m, spaceKey)
	_, shown = m.PopupShown()
	assert.False(t, shown)
	_, open := ctrl.Popup()
	assert.False(t, open)
	assert.NotContains(t, m.View(), "1h 1m 1s")
}

func TestEsc_ClosesPopupOnHostSide(t *testing.T) {
	m, ctrl := newTestModel(&counterSource{})

	m = press(m, enterKey)
	m = press(m, escKey)

	_, shown := m.PopupShown()
	assert.False(t, shown)
	_, open := ctrl.Popup()
	assert.False(t, open)

	// Reopening allocates a new popup.
	m = press(m, enterKey)
	id, _ := m.PopupShown()
	assert.Equal(t, applet.PopupID("p2"), id)
}

func TestEsc_WithoutPopupIsNoop(t *testing.T) {
	m, ctrl := newTestModel(&counterSource{})

	m = press(m, escKey)

	_, shown := m.PopupShown()
	assert.False(t, shown)
	_, open := ctrl.Popup()
	assert.False(t, open)
}

func TestTick_RefreshesAndRearms(t *testing.T) {
	src := &counterSource{seconds: 0}
	m, _ := newTestModel(src)
	m = press(m, enterKey)

	src.seconds = 90000
	next, cmd := m.Update(tickMsg{event: applet.Tick{At: time.Now()}})
	m = next.(Model)

	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "1D01h")
	assert.Contains(t, m.View(), "25h 0m 0s")

	_, shown := m.PopupShown()
	assert.True(t, shown)
}

func TestInit_ArmsSubscription(t *testing.T) {
	m, _ := newTestModel(&counterSource{})
	assert.NotNil(t, m.Init())
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(&counterSource{})

	_, cmd := m.Update(quitKey)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(&counterSource{})

	m = press(m, helpKey)
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "close popup")

	m = press(m, helpKey)
	assert.False(t, m.showHelp)
}

func TestMouse_IgnoredWithoutZones(t *testing.T) {
	m, _ := newTestModel(&counterSource{})

	next, _ := m.Update(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	_, shown := next.(Model).PopupShown()
	assert.False(t, shown)
}

func waitForZone(t *testing.T, zones *zone.Manager, id string) *zone.ZoneInfo {
	t.Helper()
	require.Eventually(t, func() bool {
		return zones.Get(id) != nil
	}, time.Second, 5*time.Millisecond)
	return zones.Get(id)
}

func leftRelease(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func TestMouse_ClickIconOpensClickAwayCloses(t *testing.T) {
	zones := zone.New()
	t.Cleanup(zones.Close)

	n := 0
	ctrl := applet.New(applet.Options{
		Source: &counterSource{seconds: 3661},
		NewID: func() applet.PopupID {
			n++
			return applet.PopupID(fmt.Sprintf("p%d", n))
		},
	})
	m := New(ctrl, zones, nil)

	m.View()
	icon := waitForZone(t, zones, iconZone)

	next, _ := m.Update(leftRelease(icon.StartX, icon.StartY))
	m = next.(Model)
	id, shown := m.PopupShown()
	require.True(t, shown)
	assert.Equal(t, applet.PopupID("p1"), id)

	m.View()
	popup := waitForZone(t, zones, popupZone)

	// A click inside the popup keeps it open.
	next, _ = m.Update(leftRelease(popup.StartX, popup.StartY))
	m = next.(Model)
	_, shown = m.PopupShown()
	require.True(t, shown)

	// A click well below everything rendered closes it.
	next, _ = m.Update(leftRelease(0, popup.EndY+50))
	m = next.(Model)
	_, shown = m.PopupShown()
	assert.False(t, shown)
	_, open := ctrl.Popup()
	assert.False(t, open)
}

func TestMouse_IgnoresNonReleaseEvents(t *testing.T) {
	zones := zone.New()
	t.Cleanup(zones.Close)

	m, _ := newTestModel(&counterSource{})
	m.zones = zones

	m.View()
	icon := waitForZone(t, zones, iconZone)

	msg := leftRelease(icon.StartX, icon.StartY)
	msg.Action = tea.MouseActionPress
	next, _ := m.Update(msg)
	_, shown := next.(Model).PopupShown()
	assert.False(t, shown)
}

func TestWindowSize(t *testing.T) {
	m, _ := newTestModel(&counterSource{})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Equal(t, 80, next.(Model).width)
}
