package platform

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/hints"
	"github.com/1broseidon/tagtile/internal/rules"
	"github.com/1broseidon/tagtile/internal/wm"
)

// MapInfo is what the window system reports about a window asking to be
// mapped.
type MapInfo struct {
	ID       WindowID
	Attrs    rules.Attrs
	Geometry geom.Rect
	Hints    hints.SizeHints
	// Manageable is false for windows the manager must leave alone, such
	// as docks and override-redirect popups.
	Manageable bool
	// Mapped is set for windows that were already on screen when the
	// manager started.
	Mapped bool
}

// Events turns window-system events into core operations. Its handlers
// run on the daemon loop.
type Events struct {
	core   *wm.WM
	render *Renderer
	b      Backend
	log    *slog.Logger
	after  func()
}

// NewEvents binds the adapter. after, when set, runs after every handler
// that changed the client population.
func NewEvents(core *wm.WM, render *Renderer, b Backend, logger *slog.Logger, after func()) *Events {
	if logger == nil {
		logger = slog.Default()
	}
	if after == nil {
		after = func() {}
	}
	return &Events{core: core, render: render, b: b, log: logger, after: after}
}

// MapRequest manages a new window, or maps it straight away when it is
// not manageable. A request from a window the core already manages is a
// no-op: the renderer decides its visibility.
func (e *Events) MapRequest(info MapInfo) error {
	if !info.Manageable {
		return e.b.Map(info.ID)
	}
	id := wm.ClientID(info.ID)
	if c, ok := e.core.Client(id); ok && c.State() == wm.Managed {
		return nil
	}
	if info.Mapped {
		e.render.Adopted(info.ID)
	}
	_, err := e.core.Manage(wm.ManageRequest{
		Window:   id,
		Attrs:    info.Attrs,
		Geometry: info.Geometry,
		Hints:    info.Hints,
		Screen:   wm.NoScreen,
	})
	if err != nil {
		return fmt.Errorf("manage window %d: %w", info.ID, err)
	}
	e.after()
	return nil
}

// ConfigureRequest records the geometry a managed client asked for, or
// applies it directly for windows the core does not manage.
func (e *Events) ConfigureRequest(id WindowID, r geom.Rect, border int) error {
	c, ok := e.core.Client(wm.ClientID(id))
	if !ok || c.State() != wm.Managed {
		return e.b.Configure(id, r, border)
	}
	return e.core.ReflowRequest(wm.ClientID(id), r)
}

// UnmapNotify starts the removal of a client that withdrew its window.
// Unmaps the renderer issued for hidden tags are ignored.
func (e *Events) UnmapNotify(id WindowID) error {
	if e.render.ExpectedUnmap(id) {
		return nil
	}
	e.render.Withdrawn(id)
	c, ok := e.core.Client(wm.ClientID(id))
	if !ok || c.State() != wm.Managed {
		return nil
	}
	if err := e.core.BeginDying(wm.ClientID(id)); err != nil {
		return err
	}
	e.after()
	return nil
}

// DestroyNotify finalizes a client whose window is gone. Late or repeated
// notifications for clients already removed are absorbed.
func (e *Events) DestroyNotify(id WindowID) error {
	cid := wm.ClientID(id)
	if c, ok := e.core.Client(cid); ok && c.State() == wm.Managed {
		if err := e.core.BeginDying(cid); err != nil {
			return err
		}
	}
	err := e.core.Finalize(cid)
	switch {
	case errors.Is(err, wm.ErrDoubleFinalize), errors.Is(err, wm.ErrUnknownClient):
		e.log.Debug("destroy notify for removed window", "window", id)
		err = nil
	case err == nil:
		e.after()
	}
	e.render.Forget(id)
	return err
}

// TitleChanged updates the title of a managed client.
func (e *Events) TitleChanged(id WindowID, title string) error {
	c, ok := e.core.Client(wm.ClientID(id))
	if !ok || c.State() != wm.Managed {
		return nil
	}
	return e.core.SetTitle(wm.ClientID(id), title)
}

// ConfigureRequest value-mask bits, as in the X protocol.
const (
	configX      = 1 << 0
	configY      = 1 << 1
	configWidth  = 1 << 2
	configHeight = 1 << 3
)

// requestedRect merges the fields a ConfigureRequest sets into cur.
func requestedRect(cur geom.Rect, mask uint16, x, y, w, h int) geom.Rect {
	r := cur
	if mask&configX != 0 {
		r.X = x
	}
	if mask&configY != 0 {
		r.Y = y
	}
	if mask&configWidth != 0 {
		r.Width = w
	}
	if mask&configHeight != 0 {
		r.Height = h
	}
	return r
}
