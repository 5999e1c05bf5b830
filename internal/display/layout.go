package display

import (
	"log/slog"
	"unsafe"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/uptime-indicator/internal/config"
)

// defaultPanelHeight is used for popup placement before the panel has
// been allocated.
const defaultPanelHeight = 28

// Placement is where a layer-shell surface is anchored and how far it sits
// from each anchored edge.
type Placement struct {
	Top, Bottom, Left, Right bool

	MarginTop, MarginBottom, MarginLeft, MarginRight int
}

// computePlacement anchors to the configured corner or edge centre. extraY
// pushes the surface further from the anchored vertical edge.
func computePlacement(cfg config.DisplayConfig, extraY int) Placement {
	var p Placement
	pos := config.Position(cfg.Position)
	offsetY := cfg.OffsetY + extraY

	if pos.IsBottom() {
		p.Bottom = true
		p.MarginBottom = offsetY
	} else {
		p.Top = true
		p.MarginTop = offsetY
	}

	switch pos {
	case config.PositionTopLeft, config.PositionBottomLeft:
		p.Left = true
		p.MarginLeft = cfg.OffsetX
	case config.PositionTopRight, config.PositionBottomRight:
		p.Right = true
		p.MarginRight = cfg.OffsetX
	}

	return p
}

// LayoutManager positions the panel and popups and picks their monitor.
type LayoutManager struct {
	config  config.DisplayConfig
	display *gdk.Display
	logger  *slog.Logger
}

// NewLayoutManager creates a new layout manager.
func NewLayoutManager(cfg config.DisplayConfig, logger *slog.Logger) *LayoutManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &LayoutManager{
		config:  cfg,
		display: gdk.DisplayGetDefault(),
		logger:  logger,
	}
}

// SetConfig replaces the display settings.
func (l *LayoutManager) SetConfig(cfg config.DisplayConfig) {
	l.config = cfg
}

// PanelPlacement returns where the panel goes.
func (l *LayoutManager) PanelPlacement() Placement {
	return computePlacement(l.config, 0)
}

// PopupPlacement returns where a popup goes given the panel's height. The
// popup sits beside the panel on the side away from the screen edge.
func (l *LayoutManager) PopupPlacement(panelHeight int) Placement {
	if panelHeight <= 0 {
		panelHeight = defaultPanelHeight
	}
	return computePlacement(l.config, panelHeight+l.config.Gap)
}

// Place applies a placement and the configured monitor to a layer-shell
// window.
func (l *LayoutManager) Place(window *gtk.Window, p Placement) {
	layershell.SetAnchor(window, layershell.LayerShellEdgeTop, p.Top)
	layershell.SetAnchor(window, layershell.LayerShellEdgeBottom, p.Bottom)
	layershell.SetAnchor(window, layershell.LayerShellEdgeLeft, p.Left)
	layershell.SetAnchor(window, layershell.LayerShellEdgeRight, p.Right)

	layershell.SetMargin(window, layershell.LayerShellEdgeTop, p.MarginTop)
	layershell.SetMargin(window, layershell.LayerShellEdgeBottom, p.MarginBottom)
	layershell.SetMargin(window, layershell.LayerShellEdgeLeft, p.MarginLeft)
	layershell.SetMargin(window, layershell.LayerShellEdgeRight, p.MarginRight)

	if monitor := l.Monitor(); monitor != nil {
		layershell.SetMonitor(window, monitor)
	}
}

// Monitor returns the configured monitor:
// - 0: compositor default (returns nil)
// - 1+: specific monitor (1-indexed), falling back to the first one
func (l *LayoutManager) Monitor() *gdk.Monitor {
	if l.display == nil || l.config.Monitor == 0 {
		return nil
	}

	monitors := l.display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		l.logger.Warn("no monitors list available")
		return nil
	}

	index := uint(l.config.Monitor - 1)
	if index >= monitors.NItems() {
		l.logger.Warn("configured monitor not available, using first",
			"configured", l.config.Monitor,
			"available", monitors.NItems(),
		)
		index = 0
	}

	return wrapMonitor(monitors.Item(index))
}

// wrapMonitor wraps a glib.Object as a gdk.Monitor. gotk4 does not export
// its own wrapper, but gdk.Monitor only embeds the object pointer.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}

// HandleMonitorChange refreshes the display reference after a hotplug.
func (l *LayoutManager) HandleMonitorChange() {
	l.display = gdk.DisplayGetDefault()
	if l.display == nil {
		l.logger.Warn("no display available after monitor change")
		return
	}
	if monitors := l.display.Monitors(); monitors != nil {
		l.logger.Info("monitor configuration changed", "count", monitors.NItems())
	}
}
