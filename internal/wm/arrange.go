package wm

import (
	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/layout"
)

func floating(t *Tag) bool {
	s := t.Layout()
	return s != nil && s.Floating
}

// Arrange recomputes a tag and always reports the result.
func (w *WM) Arrange(id TagID) error {
	t, err := w.tag(id)
	if err != nil {
		return err
	}
	w.arrange(t, true)
	return nil
}

// ArrangeAll recomputes every tag, reporting only changes.
func (w *WM) ArrangeAll() {
	for _, s := range w.screens {
		for _, t := range s.tags {
			w.arrange(t, false)
		}
	}
}

// arrange computes the geometry of every member of t. Tiled members are
// handed to the layout engine in member order; free members keep their
// request clamped to the usable area; tabbed members follow their master.
// The layout event is emitted when it differs from the last one for t, or
// always when force is set.
func (w *WM) arrange(t *Tag, force bool) {
	usable := t.screen.Usable()
	set := t.Layout()
	float := floating(t)

	var tiled, free, tabbed []*Client
	for _, c := range t.clients {
		switch {
		case c.flags.Has(FlagTabbed) && c.tabMaster != nil && t.has(c.tabMaster):
			tabbed = append(tabbed, c)
		case c.flags.Has(FlagFree) || float:
			free = append(free, c)
		default:
			tiled = append(tiled, c)
		}
	}

	arr := layout.Compute(len(tiled), set, usable)
	for i, c := range tiled {
		w.place(c, c.hints.ConstrainWithin(arr.Rects[i]))
	}
	for _, c := range free {
		w.place(c, c.request.ClampTo(usable))
	}
	for _, c := range tabbed {
		w.place(c, tabArea(c.tabMaster))
	}
	t.n = len(tiled)

	ev := LayoutEvent{
		Screen:     t.screen.ID,
		Tag:        t.ID,
		Visible:    t.Visible(),
		Placements: make([]Placement, 0, len(t.clients)),
		Stack:      stackOrder(t, tiled, free, tabbed, arr.Shared > 0),
	}
	if set != nil {
		ev.Layout = set.Name
	}
	for _, c := range t.clients {
		ev.Placements = append(ev.Placements, Placement{
			Client:   c.ID,
			Geometry: c.geo,
			Titlebar: c.titlebar,
			Border:   c.border,
			Free:     c.flags.Has(FlagFree) || float,
			Tabbed:   c.flags.Has(FlagTabbed),
		})
	}

	if last, ok := w.lastLayout[t.ID]; ok && !force && last.equal(ev) {
		return
	}
	w.lastLayout[t.ID] = ev
	w.notify.LayoutChanged(ev)
}

// place sets the frame geometry of c and carves the titlebar off its top.
func (w *WM) place(c *Client, frame geom.Rect) {
	if frame.Width < 1 {
		frame.Width = 1
	}
	if frame.Height < 1 {
		frame.Height = 1
	}
	c.geo = frame
	c.titlebar = geom.Rect{}
	if c.tbHeight > 0 && !c.flags.Has(FlagTabbed) {
		c.titlebar = geom.Rect{X: frame.X, Y: frame.Y, Width: frame.Width, Height: min(c.tbHeight, frame.Height)}
	}
}

// tabArea is the master's geometry minus the tab strip.
func tabArea(m *Client) geom.Rect {
	r := m.geo
	strip := min(m.tbHeight, r.Height-1)
	if strip > 0 {
		r.Y += strip
		r.Height -= strip
	}
	return r
}

// stackOrder lists clients bottom to top: tabbed clients under their
// masters, tiled clients, then free clients. The selected client is raised
// within its group when it shares space with others.
func stackOrder(t *Tag, tiled, free, tabbed []*Client, shared bool) []ClientID {
	out := make([]ClientID, 0, len(tiled)+len(free)+len(tabbed))
	group := func(cs []*Client, raiseSel bool) {
		var sel *Client
		for _, c := range cs {
			if raiseSel && c == t.sel {
				sel = c
				continue
			}
			out = append(out, c.ID)
		}
		if sel != nil {
			out = append(out, sel.ID)
		}
	}
	group(tabbed, false)
	group(tiled, shared)
	group(free, true)

	// A selected tabbed client shows above its master.
	if t.sel != nil && t.sel.flags.Has(FlagTabbed) {
		for i, id := range out {
			if id == t.sel.ID {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
		out = append(out, t.sel.ID)
	}
	return out
}
