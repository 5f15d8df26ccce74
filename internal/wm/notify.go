package wm

import (
	"slices"

	"github.com/1broseidon/tagtile/internal/geom"
)

// Notifier receives topology changes after the core has applied them.
// Implementations must not call back into the WM from these methods.
type Notifier interface {
	LayoutChanged(LayoutEvent)
	SelectionChanged(SelectionEvent)
	FocusChanged(FocusEvent)
}

// Placement is the computed position of one client.
type Placement struct {
	Client   ClientID
	Geometry geom.Rect
	Titlebar geom.Rect
	Border   int
	Free     bool
	Tabbed   bool
}

// LayoutEvent reports the arrangement of one tag.
type LayoutEvent struct {
	Screen  ScreenID
	Tag     TagID
	Visible bool
	Layout  string
	// Placements are in member order.
	Placements []Placement
	// Stack lists clients bottom to top.
	Stack []ClientID
}

func (e LayoutEvent) equal(o LayoutEvent) bool {
	return e.Screen == o.Screen &&
		e.Tag == o.Tag &&
		e.Visible == o.Visible &&
		e.Layout == o.Layout &&
		slices.Equal(e.Placements, o.Placements) &&
		slices.Equal(e.Stack, o.Stack)
}

// SelectionEvent reports a tag switch on a screen.
type SelectionEvent struct {
	Screen   ScreenID
	Tag      TagID
	Previous TagID
	// Unmapped lists the clients of the previous tag that left the screen.
	Unmapped []ClientID
}

// FocusEvent reports a change of the focused client. Client is NoClient
// when nothing has focus.
type FocusEvent struct {
	Client   ClientID
	Previous ClientID
	Screen   ScreenID
	Tag      TagID
	Title    string
}

// Notifiers fans events out to several notifiers in order.
type Notifiers []Notifier

func (ns Notifiers) LayoutChanged(e LayoutEvent) {
	for _, n := range ns {
		n.LayoutChanged(e)
	}
}

func (ns Notifiers) SelectionChanged(e SelectionEvent) {
	for _, n := range ns {
		n.SelectionChanged(e)
	}
}

func (ns Notifiers) FocusChanged(e FocusEvent) {
	for _, n := range ns {
		n.FocusChanged(e)
	}
}

type nopNotifier struct{}

func (nopNotifier) LayoutChanged(LayoutEvent)       {}
func (nopNotifier) SelectionChanged(SelectionEvent) {}
func (nopNotifier) FocusChanged(FocusEvent)         {}

// Recorder is a Notifier that keeps every event. Tests and dry runs use it.
type Recorder struct {
	Layouts    []LayoutEvent
	Selections []SelectionEvent
	Focuses    []FocusEvent
}

func (r *Recorder) LayoutChanged(e LayoutEvent)       { r.Layouts = append(r.Layouts, e) }
func (r *Recorder) SelectionChanged(e SelectionEvent) { r.Selections = append(r.Selections, e) }
func (r *Recorder) FocusChanged(e FocusEvent)         { r.Focuses = append(r.Focuses, e) }

// LastLayout returns the most recent layout event for tag.
func (r *Recorder) LastLayout(tag TagID) (LayoutEvent, bool) {
	for i := len(r.Layouts) - 1; i >= 0; i-- {
		if r.Layouts[i].Tag == tag {
			return r.Layouts[i], true
		}
	}
	return LayoutEvent{}, false
}

// Reset drops recorded events.
func (r *Recorder) Reset() {
	r.Layouts = nil
	r.Selections = nil
	r.Focuses = nil
}
