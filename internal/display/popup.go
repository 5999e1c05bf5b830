package display

import (
	"log/slog"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/uptime-indicator/internal/applet"
)

// Popup is the window shown for one open popup id.
type Popup struct {
	id     applet.PopupID
	window *gtk.Window
	logger *slog.Logger

	box      *gtk.Box
	titleLbl *gtk.Label
	bodyLbl  *gtk.Label

	closeOnClick bool
	closed       bool

	// onClose runs when the user, not the applet, closed the popup.
	onClose func(id applet.PopupID)
}

// NewPopup creates the popup window for view.
func NewPopup(app *gtk.Application, view applet.PopupView, closeOnClick bool, logger *slog.Logger) *Popup {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Popup{
		id:           view.ID,
		logger:       logger,
		closeOnClick: closeOnClick,
	}

	p.window = gtk.NewWindow()
	p.window.SetApplication(app)
	p.window.SetDecorated(false)
	p.window.SetResizable(false)
	p.window.AddCSSClass("uptime-window")

	layershell.InitForWindow(p.window)
	layershell.SetLayer(p.window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(p.window, 0)
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeOnDemand)
	layershell.SetNamespace(p.window, "uptime-indicator-popup")

	p.buildUI(view)
	p.connectSignals()

	return p
}

func (p *Popup) buildUI(view applet.PopupView) {
	p.box = gtk.NewBox(gtk.OrientationVertical, 4)
	p.box.AddCSSClass("uptime-popup")

	p.titleLbl = gtk.NewLabel(view.Title)
	p.titleLbl.AddCSSClass("uptime-popup-title")
	p.titleLbl.SetXAlign(0)

	p.bodyLbl = gtk.NewLabel(view.Body)
	p.bodyLbl.AddCSSClass("uptime-popup-body")
	p.bodyLbl.SetXAlign(0)
	p.bodyLbl.SetSelectable(false)

	p.box.Append(p.titleLbl)
	p.box.Append(p.bodyLbl)
	p.window.SetChild(p.box)
}

func (p *Popup) connectSignals() {
	clickCtrl := gtk.NewGestureClick()
	clickCtrl.SetButton(0) // All buttons
	clickCtrl.ConnectReleased(func(nPress int, x, y float64) {
		if p.closeOnClick {
			p.dismiss()
		}
	})
	p.window.AddController(clickCtrl)

	keyCtrl := gtk.NewEventControllerKey()
	keyCtrl.ConnectKeyPressed(func(keyval, keycode uint, state gdk.ModifierType) bool {
		if keyval == gdk.KEY_Escape {
			p.dismiss()
			return true
		}
		return false
	})
	p.window.AddController(keyCtrl)

	// Compositor or user close. Close() sets closed first so applet-driven
	// closes are not reported back.
	p.window.ConnectCloseRequest(func() bool {
		if !p.closed {
			p.closed = true
			if p.onClose != nil {
				p.onClose(p.id)
			}
		}
		return false
	})
}

// ID returns the popup id this window belongs to.
func (p *Popup) ID() applet.PopupID {
	return p.id
}

// OnClose sets the callback for user-initiated closes.
func (p *Popup) OnClose(cb func(id applet.PopupID)) {
	p.onClose = cb
}

// Render refreshes the labels.
func (p *Popup) Render(view applet.PopupView, ok bool) {
	p.titleLbl.SetText(view.Title)
	p.bodyLbl.SetText(view.Body)
	setClass(&p.box.Widget, "uptime-error", !ok)
}

// SetCloseOnClick changes whether a click dismisses the popup.
func (p *Popup) SetCloseOnClick(v bool) {
	p.closeOnClick = v
}

// SetSchemeClass switches between the "light" and "dark" classes.
func (p *Popup) SetSchemeClass(class string) {
	setSchemeClass(&p.window.Widget, class)
}

// Window returns the underlying window for placement.
func (p *Popup) Window() *gtk.Window {
	return p.window
}

// Show presents the popup.
func (p *Popup) Show() {
	p.window.Present()
}

// Close closes the popup without reporting it as a user close.
func (p *Popup) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.window.Close()
}

// dismiss closes the popup on the user's behalf.
func (p *Popup) dismiss() {
	if p.closed {
		return
	}
	p.logger.Debug("popup dismissed by user", "popup_id", p.id)
	p.window.Close()
}
