package display

import (
	"log/slog"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/uptime-indicator/internal/applet"
)

// Panel is the always-visible window holding the applet's icon.
type Panel struct {
	window *gtk.Window
	button *gtk.Button
	label  *gtk.Label
	logger *slog.Logger

	onClick func()
}

// NewPanel creates the panel window. It is not shown until Show.
func NewPanel(app *gtk.Application, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Panel{logger: logger}

	p.window = gtk.NewWindow()
	p.window.SetApplication(app)
	p.window.SetDecorated(false)
	p.window.SetResizable(false)
	p.window.AddCSSClass("uptime-window")

	layershell.InitForWindow(p.window)
	layershell.SetLayer(p.window, layershell.LayerShellLayerTop)
	layershell.SetExclusiveZone(p.window, 0)
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(p.window, "uptime-indicator-panel")

	p.label = gtk.NewLabel(applet.PopupTitle)
	p.label.AddCSSClass("uptime-label")

	p.button = gtk.NewButton()
	p.button.AddCSSClass("uptime-panel")
	p.button.AddCSSClass("flat")
	p.button.SetChild(p.label)
	p.button.ConnectClicked(func() {
		if p.onClick != nil {
			p.onClick()
		}
	})

	// The panel lives as long as the daemon.
	p.window.ConnectCloseRequest(func() bool {
		return true
	})

	p.window.SetChild(p.button)
	return p
}

// OnClick sets the callback for clicks on the icon.
func (p *Panel) OnClick(cb func()) {
	p.onClick = cb
}

// Render updates the icon from the applet view.
func (p *Panel) Render(icon applet.Icon, ok bool) {
	p.label.SetText(icon.Label)
	setClass(&p.button.Widget, "uptime-error", !ok)
}

// SetSchemeClass switches between the "light" and "dark" classes.
func (p *Panel) SetSchemeClass(class string) {
	setSchemeClass(&p.window.Widget, class)
}

// Height returns the allocated panel height, or 0 before allocation.
func (p *Panel) Height() int {
	return p.window.Height()
}

// Show presents the panel.
func (p *Panel) Show() {
	p.window.Present()
}

// Destroy removes the panel window.
func (p *Panel) Destroy() {
	p.window.Destroy()
}

func setClass(w *gtk.Widget, class string, on bool) {
	if on {
		w.AddCSSClass(class)
	} else {
		w.RemoveCSSClass(class)
	}
}

func setSchemeClass(w *gtk.Widget, class string) {
	w.RemoveCSSClass("light")
	w.RemoveCSSClass("dark")
	w.AddCSSClass(class)
}
