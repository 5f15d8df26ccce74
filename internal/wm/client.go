package wm

import (
	"fmt"
	"slices"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/hints"
	"github.com/1broseidon/tagtile/internal/rules"
	"github.com/1broseidon/tagtile/internal/theme"
)

// ClientID is the X window id of a managed client.
type ClientID uint32

// NoClient marks the absence of a client.
const NoClient ClientID = 0

// Client is one managed top-level window.
type Client struct {
	ID ClientID

	tag       *Tag
	geo       geom.Rect
	request   geom.Rect
	titlebar  geom.Rect
	border    int
	tbHeight  int
	hints     hints.SizeHints
	title     string
	attrs     rules.Attrs
	tabMaster *Client
	flags     Flag
	state     State
	theme     *theme.Theme
}

// Tag returns the owning tag, nil once removed.
func (c *Client) Tag() *Tag { return c.tag }

// Screen returns the screen of the owning tag.
func (c *Client) Screen() *Screen {
	if c.tag == nil {
		return nil
	}
	return c.tag.screen
}

// Geometry returns the last computed geometry.
func (c *Client) Geometry() geom.Rect { return c.geo }

// Request returns the geometry the client last asked for.
func (c *Client) Request() geom.Rect { return c.request }

// Titlebar returns the titlebar geometry, empty without a titlebar.
func (c *Client) Titlebar() geom.Rect { return c.titlebar }

// Border returns the border width.
func (c *Client) Border() int { return c.border }

// Hints returns the sanitized size hints.
func (c *Client) Hints() hints.SizeHints { return c.hints }

// Title returns the window title.
func (c *Client) Title() string { return c.title }

// Attrs returns the identifying attributes the rules matched against.
func (c *Client) Attrs() rules.Attrs { return c.attrs }

// TabMaster returns the client hosting c, nil unless tabbed.
func (c *Client) TabMaster() *Client { return c.tabMaster }

// Flags returns the flag set.
func (c *Client) Flags() Flag { return c.flags }

// State returns the lifecycle state.
func (c *Client) State() State { return c.state }

// Theme returns the theme the client holds.
func (c *Client) Theme() *theme.Theme { return c.theme }

func (c *Client) tiled() bool {
	return !c.flags.Has(FlagFree) && !c.flags.Has(FlagTabbed)
}

// Client returns the client for id, including dying clients.
func (w *WM) Client(id ClientID) (*Client, bool) {
	c, ok := w.clients[id]
	return c, ok
}

// Focused returns the focused client id, NoClient when none.
func (w *WM) Focused() ClientID {
	return w.focused
}

func (w *WM) client(id ClientID) (*Client, error) {
	c, ok := w.clients[id]
	if !ok {
		return nil, fmt.Errorf("client %#x: %w", uint32(id), ErrUnknownClient)
	}
	return c, nil
}

// managed looks up id and rejects clients that are dying or removed.
func (w *WM) managed(id ClientID) (*Client, error) {
	c, err := w.client(id)
	if err != nil {
		return nil, err
	}
	if c.state != Managed {
		return nil, fmt.Errorf("client %#x is %s: %w", uint32(id), c.state, ErrInvalidClient)
	}
	return c, nil
}

// Retag moves a client to the end of another tag and recomputes both.
func (w *WM) Retag(id ClientID, tag TagID) error {
	c, err := w.managed(id)
	if err != nil {
		return err
	}
	dst, err := w.tag(tag)
	if err != nil {
		return err
	}
	src := c.tag
	if src == dst {
		return nil
	}
	w.untabAll(c)
	src.detach(c)
	dst.attach(c)
	dst.selectClient(c)
	w.arrange(src, false)
	w.arrange(dst, false)
	w.syncFocus()
	return nil
}

// ReflowRequest records a geometry the client asked for. It takes effect
// at once for free clients and on floating layouts; tiled clients keep it
// for when they become free.
func (w *WM) ReflowRequest(id ClientID, geo geom.Rect) error {
	c, err := w.managed(id)
	if err != nil {
		return err
	}
	c.request = c.hints.Constrain(geo)
	c.flags = c.flags.Set(FlagDidResize)
	if c.flags.Has(FlagFree) || floating(c.tag) {
		w.arrange(c.tag, false)
	}
	return nil
}

// BeginDying takes a client out of its tag. The client stays reachable by
// id in the Dying state until Finalize.
func (w *WM) BeginDying(id ClientID) error {
	c, err := w.managed(id)
	if err != nil {
		return err
	}
	w.untabAll(c)
	t := c.tag
	t.detach(c)
	c.state = Dying
	c.flags = c.flags.Set(FlagDying)
	w.arrange(t, false)
	w.syncFocus()
	w.log.Debug("client dying", "client", fmt.Sprintf("%#x", uint32(id)), "tag", t.Name)
	return nil
}

// Finalize completes the removal of a dying client. It fails with
// ErrDoubleFinalize for clients that are not dying, including clients
// already finalized.
func (w *WM) Finalize(id ClientID) error {
	c, ok := w.clients[id]
	if !ok {
		if _, done := w.finalized[id]; done {
			return fmt.Errorf("finalize %#x: %w", uint32(id), ErrDoubleFinalize)
		}
		return fmt.Errorf("finalize %#x: %w", uint32(id), ErrUnknownClient)
	}
	if c.state != Dying {
		return fmt.Errorf("finalize %#x (%s): %w", uint32(id), c.state, ErrDoubleFinalize)
	}
	c.state = Removed
	c.tag = nil
	w.themes.Release(c.theme)
	c.theme = nil
	delete(w.clients, id)
	w.rememberFinalized(id)
	for i, x := range w.order {
		if x == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return nil
}

// maxFinalized bounds how many removed ids Finalize still recognizes.
const maxFinalized = 1024

// rememberFinalized records id so a repeated Finalize reports
// ErrDoubleFinalize. The oldest ids are forgotten past maxFinalized.
func (w *WM) rememberFinalized(id ClientID) {
	w.finalized[id] = struct{}{}
	w.finalLog = append(w.finalLog, id)
	for len(w.finalLog) > maxFinalized {
		old := w.finalLog[0]
		w.finalLog = w.finalLog[1:]
		if !slices.Contains(w.finalLog, old) {
			delete(w.finalized, old)
		}
	}
}

// Dying returns the ids of clients waiting for Finalize.
func (w *WM) Dying() []ClientID {
	var out []ClientID
	for _, id := range w.order {
		if c := w.clients[id]; c != nil && c.state == Dying {
			out = append(out, id)
		}
	}
	return out
}

// ClientIDs returns managed client ids in manage order.
func (w *WM) ClientIDs() []ClientID {
	var out []ClientID
	for _, id := range w.order {
		if c := w.clients[id]; c != nil && c.state == Managed {
			out = append(out, id)
		}
	}
	return out
}

// Counts returns the number of managed and dying clients.
func (w *WM) Counts() (managed, dying int) {
	for _, c := range w.clients {
		switch c.state {
		case Managed:
			managed++
		case Dying:
			dying++
		}
	}
	return managed, dying
}

// TabInto shows client inside master's frame. The client leaves the tiled
// partition and takes master's geometry minus the tab strip.
func (w *WM) TabInto(id, masterID ClientID) error {
	c, err := w.managed(id)
	if err != nil {
		return err
	}
	m, err := w.managed(masterID)
	if err != nil {
		return err
	}
	if m.tabMaster != nil {
		m = m.tabMaster
	}
	if c == m {
		return fmt.Errorf("tab %#x into itself: %w", uint32(id), ErrInvalidClient)
	}
	if c.Screen() != m.Screen() {
		return fmt.Errorf("tab %#x into %#x: %w", uint32(id), uint32(masterID), ErrCrossScreen)
	}

	src := c.tag
	if c.tabMaster != nil {
		w.untab(c)
	}
	// Clients tabbed into c move to the new master.
	for _, x := range w.tabbedInto(c) {
		x.tabMaster = m
		if src != m.tag {
			src.detach(x)
			m.tag.attach(x)
		}
	}
	c.flags = c.flags.Clear(FlagTabMaster)

	if src != m.tag {
		src.detach(c)
		m.tag.attach(c)
	}
	c.tabMaster = m
	c.flags = c.flags.Set(FlagTabbed)
	m.flags = m.flags.Set(FlagTabMaster)

	if src != m.tag {
		w.arrange(src, false)
	}
	w.arrange(m.tag, false)
	w.syncFocus()
	return nil
}

// Untab returns a tabbed client to the tiled partition.
func (w *WM) Untab(id ClientID) error {
	c, err := w.managed(id)
	if err != nil {
		return err
	}
	if c.tabMaster == nil {
		return nil
	}
	w.untab(c)
	w.arrange(c.tag, false)
	return nil
}

func (w *WM) untab(c *Client) {
	m := c.tabMaster
	c.tabMaster = nil
	c.flags = c.flags.Clear(FlagTabbed)
	if m != nil && len(w.tabbedInto(m)) == 0 {
		m.flags = m.flags.Clear(FlagTabMaster)
	}
}

// untabAll detaches c from any tab group, as member or as master.
func (w *WM) untabAll(c *Client) {
	if c.tabMaster != nil {
		w.untab(c)
	}
	for _, x := range w.tabbedInto(c) {
		x.tabMaster = nil
		x.flags = x.flags.Clear(FlagTabbed)
	}
	c.flags = c.flags.Clear(FlagTabMaster)
}

func (w *WM) tabbedInto(m *Client) []*Client {
	if m.tag == nil {
		return nil
	}
	var out []*Client
	for _, x := range m.tag.clients {
		if x.tabMaster == m {
			out = append(out, x)
		}
	}
	return out
}

// Focus selects a client on its tag, making the tag and screen current.
func (w *WM) Focus(id ClientID) error {
	c, err := w.managed(id)
	if err != nil {
		return err
	}
	t := c.tag
	t.selectClient(c)
	w.selScreen = t.screen
	if !t.Visible() {
		return w.SelectTag(t.screen.ID, t.ID)
	}
	w.arrange(t, false)
	w.syncFocus()
	return nil
}

// FocusNext focuses the member delta positions away from the selected
// client of the current tag, wrapping. It returns the focused client.
func (w *WM) FocusNext(delta int) (ClientID, error) {
	t := w.currentTag()
	if t == nil || len(t.clients) == 0 {
		return NoClient, nil
	}
	cur := max(t.indexOf(t.sel), 0)
	next := t.clients[wrap(cur+delta, len(t.clients))]
	if err := w.Focus(next.ID); err != nil {
		return NoClient, err
	}
	return next.ID, nil
}

// FocusPrev is FocusNext(-1).
func (w *WM) FocusPrev() (ClientID, error) {
	return w.FocusNext(-1)
}

// ToggleFree moves a client in or out of the tiled partition. A client
// becoming free takes the geometry it last asked for, or keeps its current
// geometry when it never asked.
func (w *WM) ToggleFree(id ClientID) error {
	c, err := w.managed(id)
	if err != nil {
		return err
	}
	if c.flags.Has(FlagFree) {
		c.flags = c.flags.Clear(FlagFree)
	} else {
		w.untabAll(c)
		c.flags = c.flags.Set(FlagFree)
		if !c.flags.Has(FlagDidResize) && !c.geo.Empty() {
			c.request = c.geo
		}
	}
	w.arrange(c.tag, false)
	return nil
}

// SwapWithNext exchanges a client with the member delta positions away,
// wrapping. It is the only operation that reorders tag members.
func (w *WM) SwapWithNext(id ClientID, delta int) error {
	c, err := w.managed(id)
	if err != nil {
		return err
	}
	t := c.tag
	if len(t.clients) < 2 {
		return nil
	}
	i := t.indexOf(c)
	j := wrap(i+delta, len(t.clients))
	t.clients[i], t.clients[j] = t.clients[j], t.clients[i]
	w.arrange(t, false)
	return nil
}

// SetTitle updates the window title.
func (w *WM) SetTitle(id ClientID, title string) error {
	c, err := w.managed(id)
	if err != nil {
		return err
	}
	c.title = title
	c.attrs.Name = title
	w.syncFocus()
	return nil
}

func (w *WM) currentTag() *Tag {
	if w.selScreen == nil {
		return nil
	}
	return w.selScreen.selected
}

// CurrentTag returns the selected tag of the selected screen.
func (w *WM) CurrentTag() TagID {
	if t := w.currentTag(); t != nil {
		return t.ID
	}
	return NoTag
}

// syncFocus emits a focus event when the focused client or its title
// changed.
func (w *WM) syncFocus() {
	ev := FocusEvent{Client: NoClient, Screen: NoScreen, Tag: NoTag}
	if w.selScreen != nil {
		ev.Screen = w.selScreen.ID
	}
	if t := w.currentTag(); t != nil {
		ev.Tag = t.ID
		if t.sel != nil {
			ev.Client = t.sel.ID
			ev.Title = t.sel.title
		}
	}
	if ev.Client == w.focused && ev.Title == w.focusTitle {
		return
	}
	ev.Previous = w.focused
	w.focused = ev.Client
	w.focusTitle = ev.Title
	w.notify.FocusChanged(ev)
}
