package applet

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmylchreest/uptime-indicator/internal/uptime"
)

// readTimeout bounds a single uptime read.
const readTimeout = 2 * time.Second

// Options configures a Controller.
type Options struct {
	Source       uptime.Source
	TickInterval time.Duration
	Logger       *slog.Logger

	// NewID allocates popup ids. Defaults to NewPopupID.
	NewID func() PopupID
}

// Controller is the applet state machine: popup closed or open(id), plus
// the most recent snapshot of the uptime counter.
type Controller struct {
	source   uptime.Source
	interval time.Duration
	logger   *slog.Logger
	newID    func() PopupID

	snapshot uptime.Snapshot
	popup    PopupID
}

var _ Application = (*Controller)(nil)

// New creates a controller and takes the first reading.
func New(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Source == nil {
		opts.Source = uptime.NewSystemSource()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.NewID == nil {
		opts.NewID = NewPopupID
	}

	c := &Controller{
		source:   opts.Source,
		interval: opts.TickInterval,
		logger:   opts.Logger,
		newID:    opts.NewID,
	}
	c.refresh()
	return c
}

// Init returns the commands to run on startup. The applet starts with the
// popup closed, so there are none.
func (c *Controller) Init() []Command {
	return nil
}

// Update applies one event and returns the host commands it produced.
func (c *Controller) Update(ev Event) []Command {
	switch ev := ev.(type) {
	case Tick:
		c.refresh()
		return nil

	case Toggle:
		if c.popup != "" {
			id := c.popup
			c.popup = ""
			c.logger.Debug("closing popup", "popup_id", id)
			return []Command{DestroyPopup{ID: id}}
		}
		c.refresh()
		c.popup = c.newID()
		c.logger.Debug("opening popup", "popup_id", c.popup)
		return []Command{OpenPopup{ID: c.popup}}

	case PopupClosedByHost:
		if ev.ID == "" || ev.ID != c.popup {
			c.logger.Debug("ignoring stale popup close", "popup_id", ev.ID, "current", c.popup)
			return nil
		}
		c.logger.Debug("popup closed by host", "popup_id", ev.ID)
		c.popup = ""
		return nil

	default:
		c.logger.Warn("unknown event", "event", ev)
		return nil
	}
}

// View returns the panel icon.
func (c *Controller) View() Icon {
	return Icon{Label: c.snapshot.Strings.Short, OnClick: Toggle{}}
}

// ViewPopup returns the popup contents while a popup is open.
func (c *Controller) ViewPopup() (PopupView, bool) {
	if c.popup == "" {
		return PopupView{}, false
	}
	return PopupView{ID: c.popup, Title: PopupTitle, Body: c.snapshot.Strings.Full}, true
}

// Subscription returns the periodic tick.
func (c *Controller) Subscription() Subscription {
	return Subscription{
		Every: c.interval,
		Event: func(t time.Time) Event { return Tick{At: t} },
	}
}

// Popup returns the open popup id, if any.
func (c *Controller) Popup() (PopupID, bool) {
	return c.popup, c.popup != ""
}

// Snapshot returns the most recent reading and its rendered strings.
func (c *Controller) Snapshot() uptime.Snapshot {
	return c.snapshot
}

// Strings returns the current display strings.
func (c *Controller) Strings() uptime.DisplayStrings {
	return c.snapshot.Strings
}

// SetSource replaces the uptime source and re-reads immediately.
func (c *Controller) SetSource(src uptime.Source) {
	if src == nil {
		return
	}
	c.source = src
	c.refresh()
}

// SetTickInterval changes the subscription interval. Hosts must re-read
// Subscription to pick it up.
func (c *Controller) SetTickInterval(d time.Duration) {
	if d > 0 {
		c.interval = d
	}
}

// refresh replaces both strings from one read.
func (c *Controller) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	snap := uptime.Take(ctx, c.source)
	if !snap.OK() {
		c.logger.Debug("uptime unavailable, using fallback", "source", snap.Source, "error", snap.Err)
	}
	c.snapshot = snap
}
