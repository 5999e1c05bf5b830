package applet

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultTickInterval is how often the host delivers Tick.
const DefaultTickInterval = 60 * time.Second

// PopupTitle is the first line of the popup.
const PopupTitle = "Uptime"

// PopupID identifies one popup window. The zero value means no popup.
type PopupID string

// NewPopupID returns a fresh, time-ordered popup identifier.
func NewPopupID() PopupID {
	return PopupID(ulid.Make().String())
}

// Event is something a host delivers to Update.
type Event interface {
	event()
}

// Tick is delivered by the host on every subscription interval.
type Tick struct {
	At time.Time
}

// Toggle is delivered when the panel icon is clicked.
type Toggle struct{}

// PopupClosedByHost is delivered when the host closed a popup on its own,
// for example after a click outside of it.
type PopupClosedByHost struct {
	ID PopupID
}

func (Tick) event()              {}
func (Toggle) event()            {}
func (PopupClosedByHost) event() {}

// Command is a request from the controller to its host.
type Command interface {
	command()
}

// OpenPopup asks the host to create a popup window with the given id.
type OpenPopup struct {
	ID PopupID
}

// DestroyPopup asks the host to destroy the popup window with the given id.
type DestroyPopup struct {
	ID PopupID
}

func (OpenPopup) command()    {}
func (DestroyPopup) command() {}

// Icon describes the panel button.
type Icon struct {
	Label   string
	OnClick Event
}

// PopupView describes the popup contents.
type PopupView struct {
	ID    PopupID
	Title string
	Body  string
}

// Lines returns the popup contents top to bottom.
func (p PopupView) Lines() []string {
	return []string{p.Title, p.Body}
}

// Subscription is a declarative periodic timer: deliver Event(t) every
// Every. Hosts own the timer; it lives as long as the applet.
type Subscription struct {
	Every time.Duration
	Event func(t time.Time) Event
}

// Application is what hosts drive.
type Application interface {
	Init() []Command
	View() Icon
	ViewPopup() (PopupView, bool)
	Update(ev Event) []Command
	Subscription() Subscription
}
