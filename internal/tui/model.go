// Package tui renders the uptime applet in a terminal with BubbleTea.
//
// The terminal plays the part of the panel host: the icon is a clickable
// zone, the popup is a bordered box drawn below it, and the periodic
// subscription is a re-armed tea.Tick.
package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/jmylchreest/uptime-indicator/internal/applet"
)

const (
	iconZone  = "uptime-icon"
	popupZone = "uptime-popup"
)

// Model is the BubbleTea host for an applet.
type Model struct {
	app    applet.Application
	zones  *zone.Manager
	logger *slog.Logger

	keys     KeyMap
	help     help.Model
	showHelp bool

	// popup is the popup window this host is currently showing.
	popup applet.PopupID

	width  int
	styles styles
}

type styles struct {
	icon  lipgloss.Style
	title lipgloss.Style
	body  lipgloss.Style
	popup lipgloss.Style
	help  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		icon: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("10")),
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")),
		body: lipgloss.NewStyle(),
		popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
	}
}

// tickMsg carries the subscription event into Update.
type tickMsg struct {
	event applet.Event
}

// New creates a terminal host for app. A nil zones manager disables mouse
// hit testing.
func New(app applet.Application, zones *zone.Manager, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	m := Model{
		app:    app,
		zones:  zones,
		logger: logger,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		styles: defaultStyles(),
	}
	return m.execute(app.Init())
}

// Init arms the first tick of the applet's subscription.
func (m Model) Init() tea.Cmd {
	return m.subscribe()
}

// subscribe arms one tick of the applet's subscription.
func (m Model) subscribe() tea.Cmd {
	sub := m.app.Subscription()
	return tea.Tick(sub.Every, func(t time.Time) tea.Msg {
		return tickMsg{event: sub.Event(t)}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m = m.dispatch(msg.event)
		return m, m.subscribe()
	}

	return m, nil
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		return m.dispatch(m.app.View().OnClick), nil
	case key.Matches(msg, m.keys.Close):
		return m.closePopup(), nil
	}
	return m, nil
}

// handleMouse maps left clicks: on the icon toggles, outside an open popup
// closes it.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.zones == nil || msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if info := m.zones.Get(iconZone); info != nil && info.InBounds(msg) {
		return m.dispatch(m.app.View().OnClick), nil
	}

	if m.popup != "" {
		if info := m.zones.Get(popupZone); info == nil || !info.InBounds(msg) {
			return m.closePopup(), nil
		}
	}
	return m, nil
}

// closePopup tears down the shown popup on the host side and tells the
// applet about it.
func (m Model) closePopup() Model {
	if m.popup == "" {
		return m
	}
	id := m.popup
	m.popup = ""
	return m.dispatch(applet.PopupClosedByHost{ID: id})
}

// dispatch delivers one event to the applet and executes its commands.
func (m Model) dispatch(ev applet.Event) Model {
	return m.execute(m.app.Update(ev))
}

// execute applies applet commands to the host state.
func (m Model) execute(cmds []applet.Command) Model {
	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case applet.OpenPopup:
			m.popup = cmd.ID
			m.logger.Debug("popup shown", "popup_id", cmd.ID)
		case applet.DestroyPopup:
			if m.popup == cmd.ID {
				m.popup = ""
				m.logger.Debug("popup destroyed", "popup_id", cmd.ID)
			}
		}
	}
	return m
}

// PopupShown returns the popup id the host is displaying, if any.
func (m Model) PopupShown() (applet.PopupID, bool) {
	return m.popup, m.popup != ""
}

// View renders the applet.
func (m Model) View() string {
	icon := m.styles.icon.Render(m.app.View().Label)
	if m.zones != nil {
		icon = m.zones.Mark(iconZone, icon)
	}

	sections := []string{icon}

	if pv, ok := m.app.ViewPopup(); ok && m.popup != "" && pv.ID == m.popup {
		box := m.styles.popup.Render(lipgloss.JoinVertical(lipgloss.Left,
			m.styles.title.Render(pv.Title),
			m.styles.body.Render(pv.Body),
		))
		if m.zones != nil {
			box = m.zones.Mark(popupZone, box)
		}
		sections = append(sections, box)
	}

	if m.showHelp {
		sections = append(sections, "", m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		sections = append(sections, "", m.styles.help.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	}

	view := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.zones != nil {
		return m.zones.Scan(view)
	}
	return view
}

// RunOptions configures Run.
type RunOptions struct {
	App    applet.Application
	Logger *slog.Logger
}

// Run starts the terminal host and blocks until the user quits.
func Run(opts RunOptions) error {
	zones := zone.New()
	defer zones.Close()

	m := New(opts.App, zones, opts.Logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	_, err := p.Run()
	return err
}
