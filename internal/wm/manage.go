package wm

import (
	"fmt"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/hints"
	"github.com/1broseidon/tagtile/internal/rules"
)

// ManageRequest describes a window asking to be managed.
type ManageRequest struct {
	Window   ClientID
	Attrs    rules.Attrs
	Geometry geom.Rect
	Hints    hints.SizeHints
	// Border overrides the theme border width when positive.
	Border int
	// Screen is the screen the window appeared on, NoScreen for the
	// selected screen.
	Screen ScreenID
}

// Manage adopts a window. Rules decide the tag, screen, theme and flags;
// anything a rule does not name falls back to the selected screen and its
// selected tag. Managing a window twice returns the existing client.
func (w *WM) Manage(req ManageRequest) (*Client, error) {
	if c, ok := w.clients[req.Window]; ok {
		if c.state == Managed {
			return c, nil
		}
		// The id was recycled by the server before the old client finished
		// dying.
		if err := w.Finalize(req.Window); err != nil {
			return nil, err
		}
	}

	d := w.rules.Match(req.Attrs)
	s := w.placeScreen(req, d)
	if s == nil {
		return nil, fmt.Errorf("manage %#x: %w", uint32(req.Window), ErrUnknownScreen)
	}
	t := w.placeTag(s, d)
	if t == nil {
		return nil, fmt.Errorf("manage %#x on screen %d: %w", uint32(req.Window), s.ID, ErrUnknownTag)
	}

	themeName := w.themeName
	if d.Theme != "" {
		themeName = d.Theme
	}
	th, found := w.themes.Acquire(themeName)
	if !found {
		w.log.Warn("rule theme not found, using default", "rule", d.Rule, "theme", themeName)
	}

	c := &Client{
		ID:       req.Window,
		hints:    req.Hints.Sanitize(),
		title:    req.Attrs.Name,
		attrs:    req.Attrs,
		state:    Managed,
		theme:    th,
		border:   th.BorderWidth,
		tbHeight: th.TitlebarHeight,
	}
	if req.Border > 0 {
		c.border = req.Border
	}
	if req.Hints != (hints.SizeHints{}) {
		c.flags = c.flags.Set(FlagHinted)
	}

	usable := s.Usable()
	c.request = req.Geometry
	if c.request.Empty() {
		c.request = usable
	}
	c.request = c.hints.Constrain(c.request)

	if d.Matched() {
		c.flags = c.flags.Set(FlagRuled)
	}
	if d.Flags.Has(rules.Free) || c.hints.Fixed() {
		c.flags = c.flags.Set(FlagFree)
	}
	if d.Flags.Has(rules.Max) {
		c.flags = c.flags.Set(FlagFree)
		c.request = c.hints.ConstrainWithin(usable)
	}
	if d.Flags.Has(rules.IgnoreTag) {
		c.flags = c.flags.Set(FlagSticky)
	}

	delete(w.finalized, c.ID)
	w.clients[c.ID] = c
	w.order = append(w.order, c.ID)
	t.attach(c)
	t.selectClient(c)

	w.log.Debug("client managed",
		"client", fmt.Sprintf("%#x", uint32(c.ID)),
		"class", req.Attrs.Class,
		"tag", t.Name,
		"screen", s.ID,
		"rule", d.Rule,
		"flags", c.flags.String(),
	)

	w.arrange(t, false)
	w.syncFocus()
	return c, nil
}

func (w *WM) placeScreen(req ManageRequest, d rules.Directive) *Screen {
	if d.Screen != rules.Unset {
		if d.Screen >= 0 && d.Screen < len(w.screens) {
			return w.screens[d.Screen]
		}
		w.log.Warn("rule screen does not exist, using selected screen", "rule", d.Rule, "screen", d.Screen)
	}
	if req.Screen != NoScreen {
		if s, ok := w.screenIdx[req.Screen]; ok {
			return s
		}
	}
	return w.selScreen
}

func (w *WM) placeTag(s *Screen, d rules.Directive) *Tag {
	if d.Tag != rules.Unset && !d.Flags.Has(rules.IgnoreTag) {
		if d.Tag >= 0 && d.Tag < len(s.tags) {
			return s.tags[d.Tag]
		}
		w.log.Warn("rule tag does not exist, using selected tag", "rule", d.Rule, "tag", d.Tag, "screen", s.ID)
	}
	return s.selected
}
