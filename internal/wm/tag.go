package wm

import (
	"fmt"

	"github.com/1broseidon/tagtile/internal/layout"
)

// TagID identifies a tag for the lifetime of the WM.
type TagID int

// NoTag marks the absence of a tag.
const NoTag TagID = -1

// Tag is a named group of clients on one screen.
type Tag struct {
	ID   TagID
	Name string

	screen  *Screen
	clients []*Client
	sel     *Client
	prevSel *Client

	sets   []*layout.Set
	setIdx int
	n      int
}

// Screen returns the owning screen.
func (t *Tag) Screen() *Screen { return t.screen }

// Clients returns the members in insertion order.
func (t *Tag) Clients() []*Client {
	return append([]*Client(nil), t.clients...)
}

// Selected returns the selected client or nil.
func (t *Tag) Selected() *Client { return t.sel }

// Layout returns the current layout set, nil when the tag has none.
func (t *Tag) Layout() *layout.Set {
	if len(t.sets) == 0 {
		return nil
	}
	return t.sets[t.setIdx]
}

// LayoutNames returns the names of the tag's layout sets in cycle order.
func (t *Tag) LayoutNames() []string {
	out := make([]string, len(t.sets))
	for i, s := range t.sets {
		out[i] = s.Name
	}
	return out
}

// TiledCount returns the member count used by the last layout computation.
func (t *Tag) TiledCount() int { return t.n }

// Visible reports whether the tag is selected on its screen.
func (t *Tag) Visible() bool {
	return t.screen != nil && t.screen.selected == t
}

func (t *Tag) setSets(sets []*layout.Set) {
	var cur string
	if s := t.Layout(); s != nil {
		cur = s.Name
	}
	t.sets = sets
	t.setIdx = 0
	for i, s := range sets {
		if s.Name == cur {
			t.setIdx = i
		}
	}
}

func (t *Tag) indexOf(c *Client) int {
	for i, x := range t.clients {
		if x == c {
			return i
		}
	}
	return -1
}

func (t *Tag) has(c *Client) bool { return c != nil && t.indexOf(c) >= 0 }

// detach removes c from the member list and repairs the selection.
func (t *Tag) detach(c *Client) {
	i := t.indexOf(c)
	if i < 0 {
		return
	}
	t.clients = append(t.clients[:i], t.clients[i+1:]...)
	if t.prevSel == c {
		t.prevSel = nil
	}
	if t.sel == c {
		t.sel = nil
		switch {
		case t.prevSel != nil:
			t.sel = t.prevSel
			t.prevSel = nil
		case len(t.clients) > 0:
			t.sel = t.clients[min(i, len(t.clients)-1)]
		}
	}
}

func (t *Tag) attach(c *Client) {
	t.clients = append(t.clients, c)
	c.tag = t
}

func (t *Tag) selectClient(c *Client) {
	if t.sel == c {
		return
	}
	if t.sel != nil {
		t.prevSel = t.sel
	}
	t.sel = c
}

// AddTag appends a tag to screen. The first tag of a screen is selected.
func (w *WM) AddTag(screen ScreenID, name string) (TagID, error) {
	s, err := w.screen(screen)
	if err != nil {
		return NoTag, fmt.Errorf("add tag %q: %w", name, err)
	}
	sets, missing := w.layouts.Resolve(w.defaultLayouts)
	for _, m := range missing {
		w.log.Warn("default layout set not found", "layout", m, "tag", name)
	}
	t := &Tag{ID: w.nextTag, Name: name, screen: s, sets: sets}
	w.nextTag++
	s.tags = append(s.tags, t)
	w.tags[t.ID] = t

	if s.selected == nil {
		s.selected = t
		w.notify.SelectionChanged(SelectionEvent{Screen: s.ID, Tag: t.ID, Previous: NoTag})
		w.arrange(t, true)
	}
	return t.ID, nil
}

// Tag returns the tag registered as id.
func (w *WM) Tag(id TagID) (*Tag, bool) {
	t, ok := w.tags[id]
	return t, ok
}

// SetTagLayouts replaces the layout sets a tag cycles through.
func (w *WM) SetTagLayouts(id TagID, names []string) error {
	t, err := w.tag(id)
	if err != nil {
		return err
	}
	sets, missing := w.layouts.Resolve(names)
	if len(missing) > 0 {
		return fmt.Errorf("tag %q layouts %v: %w", t.Name, missing, ErrUnknownLayout)
	}
	t.setSets(sets)
	w.arrange(t, false)
	return nil
}

// RemoveTag drops an empty tag. Removing the selected tag selects a
// neighbour.
func (w *WM) RemoveTag(id TagID) error {
	t, err := w.tag(id)
	if err != nil {
		return err
	}
	if len(t.clients) > 0 {
		return fmt.Errorf("remove tag %q: %w", t.Name, ErrTagHasClients)
	}
	w.dropTag(t)
	return nil
}

// RemoveTagCascade moves every member of id to sibling, then removes id.
func (w *WM) RemoveTagCascade(id, sibling TagID) error {
	t, err := w.tag(id)
	if err != nil {
		return err
	}
	dst, err := w.tag(sibling)
	if err != nil {
		return err
	}
	if t == dst {
		return fmt.Errorf("remove tag %q into itself: %w", t.Name, ErrUnknownTag)
	}
	if t.screen != dst.screen {
		return fmt.Errorf("remove tag %q into %q: %w", t.Name, dst.Name, ErrCrossScreen)
	}
	for _, c := range t.Clients() {
		t.detach(c)
		dst.attach(c)
	}
	w.dropTag(t)
	w.arrange(dst, false)
	w.syncFocus()
	return nil
}

func (w *WM) dropTag(t *Tag) {
	s := t.screen
	i := s.tagIndex(t)
	s.tags = append(s.tags[:i], s.tags[i+1:]...)
	delete(w.tags, t.ID)
	delete(w.lastLayout, t.ID)

	if s.selected != t {
		return
	}
	s.selected = nil
	if len(s.tags) == 0 {
		w.syncFocus()
		return
	}
	next := s.tags[min(i, len(s.tags)-1)]
	s.selected = next
	w.notify.SelectionChanged(SelectionEvent{Screen: s.ID, Tag: next.ID, Previous: t.ID})
	w.arrange(next, true)
	w.syncFocus()
}

// SelectTag makes id the visible tag of screen. Sticky clients of the
// previously selected tag move along with the clients tabbed into them.
// A sticky client tabbed into a master that stays behind is untabbed.
func (w *WM) SelectTag(screen ScreenID, id TagID) error {
	s, err := w.screen(screen)
	if err != nil {
		return err
	}
	t, err := w.tag(id)
	if err != nil {
		return err
	}
	if t.screen != s {
		return fmt.Errorf("select tag %q on screen %d: %w", t.Name, screen, ErrCrossScreen)
	}
	prev := s.selected
	if prev == t {
		return nil
	}

	ev := SelectionEvent{Screen: s.ID, Tag: t.ID, Previous: NoTag}
	var moved bool
	if prev != nil {
		ev.Previous = prev.ID
		follow := w.stickyGroups(prev)
		for _, c := range prev.Clients() {
			if follow[c] {
				prev.detach(c)
				t.attach(c)
				moved = true
				continue
			}
			ev.Unmapped = append(ev.Unmapped, c.ID)
		}
	}

	s.selected = t
	w.notify.SelectionChanged(ev)
	if moved {
		w.arrange(prev, false)
	}
	w.arrange(t, true)
	w.syncFocus()
	return nil
}

// stickyGroups returns the members of t that follow a tag switch: sticky
// clients and everything tabbed into them.
func (w *WM) stickyGroups(t *Tag) map[*Client]bool {
	follow := make(map[*Client]bool)
	for _, c := range t.Clients() {
		if !c.flags.Has(FlagSticky) {
			continue
		}
		if m := c.tabMaster; m != nil && !m.flags.Has(FlagSticky) {
			w.untab(c)
		}
		follow[c] = true
		for _, x := range w.tabbedInto(c) {
			follow[x] = true
		}
	}
	return follow
}

// CycleTag selects the tag delta positions away on screen, wrapping.
func (w *WM) CycleTag(screen ScreenID, delta int) error {
	s, err := w.screen(screen)
	if err != nil {
		return err
	}
	if len(s.tags) == 0 {
		return fmt.Errorf("cycle tag on screen %d: %w", screen, ErrUnknownTag)
	}
	cur := max(s.tagIndex(s.selected), 0)
	return w.SelectTag(screen, s.tags[wrap(cur+delta, len(s.tags))].ID)
}

// TagByIndex returns the tag at position i of screen.
func (w *WM) TagByIndex(screen ScreenID, i int) (TagID, error) {
	s, err := w.screen(screen)
	if err != nil {
		return NoTag, err
	}
	if i < 0 || i >= len(s.tags) {
		return NoTag, fmt.Errorf("tag index %d on screen %d: %w", i, screen, ErrUnknownTag)
	}
	return s.tags[i].ID, nil
}

// TagByName returns the first tag of screen called name.
func (w *WM) TagByName(screen ScreenID, name string) (TagID, error) {
	s, err := w.screen(screen)
	if err != nil {
		return NoTag, err
	}
	for _, t := range s.tags {
		if t.Name == name {
			return t.ID, nil
		}
	}
	return NoTag, fmt.Errorf("tag %q on screen %d: %w", name, screen, ErrUnknownTag)
}

// SetLayout switches tag to the named layout set. A set from the catalog
// that the tag does not cycle through yet is appended to its cycle.
func (w *WM) SetLayout(id TagID, name string) error {
	t, err := w.tag(id)
	if err != nil {
		return err
	}
	for i, s := range t.sets {
		if s.Name == name {
			t.setIdx = i
			w.arrange(t, false)
			return nil
		}
	}
	set, ok := w.layouts.Get(name)
	if !ok {
		return fmt.Errorf("layout %q: %w", name, ErrUnknownLayout)
	}
	t.sets = append(t.sets, set)
	t.setIdx = len(t.sets) - 1
	w.arrange(t, false)
	return nil
}

// CycleLayout moves the tag delta sets along its cycle, wrapping.
func (w *WM) CycleLayout(id TagID, delta int) error {
	t, err := w.tag(id)
	if err != nil {
		return err
	}
	if len(t.sets) == 0 {
		return fmt.Errorf("tag %q has no layouts: %w", t.Name, ErrUnknownLayout)
	}
	t.setIdx = wrap(t.setIdx+delta, len(t.sets))
	w.arrange(t, false)
	return nil
}

func (w *WM) tag(id TagID) (*Tag, error) {
	t, ok := w.tags[id]
	if !ok {
		return nil, fmt.Errorf("tag %d: %w", id, ErrUnknownTag)
	}
	return t, nil
}
