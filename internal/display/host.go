package display

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	coreglib "github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/uptime-indicator/internal/applet"
	"github.com/jmylchreest/uptime-indicator/internal/config"
	"github.com/jmylchreest/uptime-indicator/internal/theme"
	"github.com/jmylchreest/uptime-indicator/internal/uptime"
)

// State is what the host last rendered. It is published for readers on
// other goroutines.
type State struct {
	Strings   uptime.DisplayStrings
	Reading   uptime.Reading
	OK        bool
	PopupOpen bool
}

// RefreshCallback is called on the GTK main loop when the rendered
// strings change.
type RefreshCallback func(State)

// Host drives an applet.Controller from the GTK main loop: it owns the
// panel, one popup window per open popup id and the subscription timer.
type Host struct {
	app        *gtk.Application
	controller *applet.Controller
	config     *config.Config
	layout     *LayoutManager
	logger     *slog.Logger

	panel  *Panel
	popups map[applet.PopupID]*Popup

	timer coreglib.SourceHandle

	state     atomic.Pointer[State]
	onRefresh RefreshCallback
}

// NewHost creates a host for controller.
func NewHost(app *gtk.Application, controller *applet.Controller, cfg *config.Config, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	h := &Host{
		app:        app,
		controller: controller,
		config:     cfg,
		layout:     NewLayoutManager(cfg.Display, logger),
		logger:     logger,
		popups:     make(map[applet.PopupID]*Popup),
	}
	h.state.Store(&State{})
	return h
}

// SetRefreshCallback sets the callback for changed strings.
func (h *Host) SetRefreshCallback(cb RefreshCallback) {
	h.onRefresh = cb
}

// Start shows the panel, applies the applet's initial commands and arms
// the subscription.
func (h *Host) Start() error {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return &DisplayError{Message: "no display available"}
	}

	if monitors := display.Monitors(); monitors != nil {
		monitors.ConnectItemsChanged(func(position, removed, added uint) {
			h.layout.HandleMonitorChange()
			h.reposition()
		})
	}

	// Follow the system light/dark preference.
	adw.StyleManagerGetDefault().NotifyProperty("dark", h.applySchemeClass)

	h.panel = NewPanel(h.app, h.logger)
	h.panel.OnClick(func() {
		h.Dispatch(h.controller.View().OnClick)
	})
	h.layout.Place(h.panel.window, h.layout.PanelPlacement())
	h.panel.Show()

	h.execute(h.controller.Init())
	h.render()
	h.applySchemeClass()
	h.armSubscription()

	h.logger.Info("display host started",
		"position", h.config.Display.Position,
		"interval", h.controller.Subscription().Every,
	)
	return nil
}

// Stop removes the timer and every window.
func (h *Host) Stop() {
	h.disarmSubscription()
	for id, p := range h.popups {
		p.Close()
		delete(h.popups, id)
	}
	if h.panel != nil {
		h.panel.Destroy()
		h.panel = nil
	}
	h.logger.Info("display host stopped")
}

// Dispatch delivers ev to the controller and carries out its commands.
func (h *Host) Dispatch(ev applet.Event) {
	h.execute(h.controller.Update(ev))
	h.render()
}

// Send schedules ev on the GTK main loop and waits until it has been
// dispatched, returning the state published by that dispatch. Must not be
// called from the main loop.
func (h *Host) Send(ctx context.Context, ev applet.Event) (State, error) {
	done := make(chan State, 1)
	coreglib.IdleAdd(func() {
		h.Dispatch(ev)
		done <- h.State()
	})

	select {
	case st := <-done:
		return st, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// State returns the last published state. Safe for concurrent use.
func (h *Host) State() State {
	return *h.state.Load()
}

// UpdateConfig applies a reloaded configuration.
func (h *Host) UpdateConfig(cfg *config.Config) {
	old := h.config
	h.config = cfg
	h.layout.SetConfig(cfg.Display)

	if cfg.Uptime.Source != old.Uptime.Source {
		src, err := uptime.NewSource(cfg.Uptime.Source)
		if err != nil {
			h.logger.Warn("failed to switch uptime source", "source", cfg.Uptime.Source, "error", err)
		} else {
			h.controller.SetSource(src)
			h.logger.Info("uptime source changed", "source", src.Name())
		}
	}

	if cfg.TickInterval() != old.TickInterval() {
		h.controller.SetTickInterval(cfg.TickInterval())
		h.armSubscription()
	}

	for _, p := range h.popups {
		p.SetCloseOnClick(cfg.Popup.CloseOnClick)
	}

	h.reposition()
	h.applySchemeClass()

	// Re-read so a source change shows immediately.
	h.Dispatch(applet.Tick{At: time.Now()})
}

func (h *Host) execute(cmds []applet.Command) {
	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case applet.OpenPopup:
			h.openPopup(cmd.ID)
		case applet.DestroyPopup:
			h.destroyPopup(cmd.ID)
		}
	}
}

func (h *Host) openPopup(id applet.PopupID) {
	view, ok := h.controller.ViewPopup()
	if !ok || view.ID != id {
		h.logger.Warn("open requested for popup the applet does not show", "popup_id", id)
		return
	}

	p := NewPopup(h.app, view, h.config.Popup.CloseOnClick, h.logger)
	p.OnClose(h.handlePopupClosed)
	h.popups[id] = p

	h.layout.Place(p.Window(), h.layout.PopupPlacement(h.panel.Height()))
	p.SetSchemeClass(theme.ColorSchemeClass(config.ColorScheme(h.config.Theme.ColorScheme)))
	p.Show()

	h.logger.Debug("opened popup", "popup_id", id)
}

func (h *Host) destroyPopup(id applet.PopupID) {
	p, ok := h.popups[id]
	if !ok {
		return
	}
	delete(h.popups, id)
	p.Close()
	h.logger.Debug("destroyed popup", "popup_id", id)
}

// handlePopupClosed runs when the user closed a popup window.
func (h *Host) handlePopupClosed(id applet.PopupID) {
	if _, ok := h.popups[id]; !ok {
		return
	}
	delete(h.popups, id)
	h.Dispatch(applet.PopupClosedByHost{ID: id})
}

// render pushes the controller's views into the windows and publishes
// the new state.
func (h *Host) render() {
	snap := h.controller.Snapshot()

	if h.panel != nil {
		h.panel.Render(h.controller.View(), snap.OK())
	}
	if view, ok := h.controller.ViewPopup(); ok {
		if p, exists := h.popups[view.ID]; exists {
			p.Render(view, snap.OK())
		}
	}

	_, open := h.controller.Popup()
	next := &State{
		Strings:   snap.Strings,
		Reading:   snap.Reading,
		OK:        snap.OK(),
		PopupOpen: open,
	}
	prev := h.state.Swap(next)

	if prev.Strings != next.Strings && h.onRefresh != nil {
		h.onRefresh(*next)
	}
}

func (h *Host) reposition() {
	if h.panel == nil {
		return
	}
	h.layout.Place(h.panel.window, h.layout.PanelPlacement())
	for _, p := range h.popups {
		h.layout.Place(p.Window(), h.layout.PopupPlacement(h.panel.Height()))
	}
}

func (h *Host) applySchemeClass() {
	class := theme.ColorSchemeClass(config.ColorScheme(h.config.Theme.ColorScheme))
	if h.panel != nil {
		h.panel.SetSchemeClass(class)
	}
	for _, p := range h.popups {
		p.SetSchemeClass(class)
	}
}

// armSubscription (re)starts the timer from the controller's declared
// subscription.
func (h *Host) armSubscription() {
	h.disarmSubscription()

	sub := h.controller.Subscription()
	if sub.Every <= 0 || sub.Event == nil {
		return
	}

	h.timer = coreglib.TimeoutAdd(uint(sub.Every.Milliseconds()), func() bool {
		h.Dispatch(sub.Event(time.Now()))
		return true
	})
	h.logger.Debug("subscription armed", "interval", sub.Every)
}

func (h *Host) disarmSubscription() {
	if h.timer != 0 {
		coreglib.SourceRemove(h.timer)
		h.timer = 0
	}
}
