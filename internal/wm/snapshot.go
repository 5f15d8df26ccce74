package wm

import "github.com/1broseidon/tagtile/internal/geom"

// ClientInfo is a read-only view of a client.
type ClientInfo struct {
	ID       ClientID  `json:"id"`
	Title    string    `json:"title"`
	Class    string    `json:"class"`
	Geometry geom.Rect `json:"geometry"`
	Flags    string    `json:"flags,omitempty"`
	State    string    `json:"state"`
	Selected bool      `json:"selected"`
	Master   ClientID  `json:"tab_master,omitempty"`
}

// TagInfo is a read-only view of a tag.
type TagInfo struct {
	ID       TagID        `json:"id"`
	Name     string       `json:"name"`
	Index    int          `json:"index"`
	Selected bool         `json:"selected"`
	Layout   string       `json:"layout"`
	Layouts  []string     `json:"layouts"`
	Tiled    int          `json:"tiled"`
	Clients  []ClientInfo `json:"clients"`
}

// ScreenInfo is a read-only view of a screen.
type ScreenInfo struct {
	ID       ScreenID  `json:"id"`
	Geometry geom.Rect `json:"geometry"`
	Usable   geom.Rect `json:"usable"`
	Selected bool      `json:"selected"`
	Tags     []TagInfo `json:"tags"`
}

// Snapshot is the whole topology at one point in time.
type Snapshot struct {
	Screens []ScreenInfo `json:"screens"`
	Focused ClientID     `json:"focused"`
	Dying   int          `json:"dying"`
}

// Snapshot copies the current topology.
func (w *WM) Snapshot() Snapshot {
	snap := Snapshot{Focused: w.focused}
	_, snap.Dying = w.Counts()
	for _, s := range w.screens {
		si := ScreenInfo{
			ID:       s.ID,
			Geometry: s.Geometry,
			Usable:   s.Usable(),
			Selected: s == w.selScreen,
		}
		for i, t := range s.tags {
			si.Tags = append(si.Tags, tagInfo(t, i))
		}
		snap.Screens = append(snap.Screens, si)
	}
	return snap
}

// TagInfo returns the view of a single tag.
func (w *WM) TagInfo(id TagID) (TagInfo, error) {
	t, err := w.tag(id)
	if err != nil {
		return TagInfo{}, err
	}
	return tagInfo(t, t.screen.tagIndex(t)), nil
}

func tagInfo(t *Tag, index int) TagInfo {
	ti := TagInfo{
		ID:       t.ID,
		Name:     t.Name,
		Index:    index,
		Selected: t.Visible(),
		Layouts:  t.LayoutNames(),
		Tiled:    t.n,
	}
	if s := t.Layout(); s != nil {
		ti.Layout = s.Name
	}
	for _, c := range t.clients {
		ci := ClientInfo{
			ID:       c.ID,
			Title:    c.title,
			Class:    c.attrs.Class,
			Geometry: c.geo,
			Flags:    c.flags.String(),
			State:    c.state.String(),
			Selected: c == t.sel,
		}
		if c.tabMaster != nil {
			ci.Master = c.tabMaster.ID
		}
		ti.Clients = append(ti.Clients, ci)
	}
	return ti
}
