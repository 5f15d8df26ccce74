package wm

import (
	"fmt"

	"github.com/1broseidon/tagtile/internal/geom"
)

// ScreenID identifies a screen for the lifetime of the WM.
type ScreenID int

// NoScreen is returned when no screen exists.
const NoScreen ScreenID = -1

// Screen is one physical output.
type Screen struct {
	ID       ScreenID
	Geometry geom.Rect

	reserveTop    int
	reserveBottom int

	tags     []*Tag
	selected *Tag
}

// Usable returns the screen area minus the bar reserve.
func (s *Screen) Usable() geom.Rect {
	r := s.Geometry
	r.Y += s.reserveTop
	r.Height -= s.reserveTop + s.reserveBottom
	if r.Height < 1 {
		r.Height = 1
	}
	return r
}

// Tags returns the screen's tags in order.
func (s *Screen) Tags() []*Tag {
	return append([]*Tag(nil), s.tags...)
}

// Selected returns the selected tag, nil when the screen has no tags.
func (s *Screen) Selected() *Tag {
	return s.selected
}

func (s *Screen) tagIndex(t *Tag) int {
	for i, x := range s.tags {
		if x == t {
			return i
		}
	}
	return -1
}

// AddScreen registers a screen with the given total geometry. The first
// screen becomes the selected one.
func (w *WM) AddScreen(total geom.Rect) ScreenID {
	s := &Screen{ID: w.nextScr, Geometry: total}
	w.nextScr++
	w.screens = append(w.screens, s)
	w.screenIdx[s.ID] = s
	if w.selScreen == nil {
		w.selScreen = s
	}
	w.log.Debug("screen added", "screen", s.ID, "geometry", total.String())
	return s.ID
}

// RemoveScreen drops a screen that owns no tags.
func (w *WM) RemoveScreen(id ScreenID) error {
	s, err := w.screen(id)
	if err != nil {
		return err
	}
	if len(s.tags) > 0 {
		return fmt.Errorf("remove screen %d: %w", id, ErrScreenNotEmpty)
	}
	for i, x := range w.screens {
		if x == s {
			w.screens = append(w.screens[:i], w.screens[i+1:]...)
			break
		}
	}
	delete(w.screenIdx, id)
	if w.selScreen == s {
		w.selScreen = nil
		if len(w.screens) > 0 {
			w.selScreen = w.screens[0]
		}
		w.syncFocus()
	}
	return nil
}

// Screen returns the screen registered as id.
func (w *WM) Screen(id ScreenID) (*Screen, bool) {
	s, ok := w.screenIdx[id]
	return s, ok
}

// Screens returns all screens in registration order.
func (w *WM) Screens() []*Screen {
	return append([]*Screen(nil), w.screens...)
}

// UsableArea returns the area tiled clients of id may occupy.
func (w *WM) UsableArea(id ScreenID) (geom.Rect, error) {
	s, err := w.screen(id)
	if err != nil {
		return geom.Rect{}, err
	}
	return s.Usable(), nil
}

// ScreenAt returns the screen containing (x, y), or the screen whose center
// is nearest when none contains it. NoScreen only when there are no screens.
func (w *WM) ScreenAt(x, y int) ScreenID {
	if len(w.screens) == 0 {
		return NoScreen
	}
	for _, s := range w.screens {
		if s.Geometry.Contains(x, y) {
			return s.ID
		}
	}
	p := geom.Rect{X: x, Y: y}
	best := w.screens[0]
	bestDist := best.Geometry.DistanceSq(p)
	for _, s := range w.screens[1:] {
		if d := s.Geometry.DistanceSq(p); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best.ID
}

// SetReserved sets the space kept free at the top and bottom of a screen
// and recomputes every tag on it.
func (w *WM) SetReserved(id ScreenID, top, bottom int) error {
	s, err := w.screen(id)
	if err != nil {
		return err
	}
	if top < 0 {
		top = 0
	}
	if bottom < 0 {
		bottom = 0
	}
	if s.reserveTop == top && s.reserveBottom == bottom {
		return nil
	}
	s.reserveTop, s.reserveBottom = top, bottom
	for _, t := range s.tags {
		w.arrange(t, false)
	}
	return nil
}

// SelectScreen makes id the screen that receives new clients and focus.
func (w *WM) SelectScreen(id ScreenID) error {
	s, err := w.screen(id)
	if err != nil {
		return err
	}
	w.selScreen = s
	w.syncFocus()
	return nil
}

// SelectedScreen returns the selected screen, NoScreen when there is none.
func (w *WM) SelectedScreen() ScreenID {
	if w.selScreen == nil {
		return NoScreen
	}
	return w.selScreen.ID
}

// CycleScreen selects the screen delta positions away, wrapping around.
func (w *WM) CycleScreen(delta int) error {
	if len(w.screens) == 0 {
		return fmt.Errorf("cycle screen: %w", ErrUnknownScreen)
	}
	cur := 0
	for i, s := range w.screens {
		if s == w.selScreen {
			cur = i
			break
		}
	}
	next := wrap(cur+delta, len(w.screens))
	return w.SelectScreen(w.screens[next].ID)
}

func (w *WM) screen(id ScreenID) (*Screen, error) {
	s, ok := w.screenIdx[id]
	if !ok {
		return nil, fmt.Errorf("screen %d: %w", id, ErrUnknownScreen)
	}
	return s, nil
}

func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
