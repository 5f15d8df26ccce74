package platform

import (
	"log/slog"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/theme"
	"github.com/1broseidon/tagtile/internal/wm"
)

// Renderer applies core notifications to a Backend. It implements
// wm.Notifier and, like the core, is used from the daemon loop only.
type Renderer struct {
	b     Backend
	log   *slog.Logger
	theme *theme.Theme

	mapped map[WindowID]bool
	// pendingUnmaps counts unmaps the renderer issued whose UnmapNotify
	// has not arrived yet.
	pendingUnmaps map[WindowID]int
}

// NewRenderer builds a renderer. th colors the borders; nil uses the
// default theme.
func NewRenderer(b Backend, th *theme.Theme, logger *slog.Logger) *Renderer {
	if th == nil {
		d := theme.Default()
		th = &d
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		b:             b,
		log:           logger,
		theme:         th,
		mapped:        make(map[WindowID]bool),
		pendingUnmaps: make(map[WindowID]int),
	}
}

// WindowRect is the X window geometry for a placement: the frame minus the
// titlebar strip, shrunk so the border drawn outside the window stays
// inside the frame.
func WindowRect(p wm.Placement) geom.Rect {
	r := p.Geometry
	if !p.Titlebar.Empty() {
		r.Y += p.Titlebar.Height
		r.Height -= p.Titlebar.Height
	}
	r.Width -= 2 * p.Border
	r.Height -= 2 * p.Border
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}
	return r
}

func (r *Renderer) LayoutChanged(ev wm.LayoutEvent) {
	if !ev.Visible {
		for _, p := range ev.Placements {
			r.hide(WindowID(p.Client))
		}
		return
	}
	for _, p := range ev.Placements {
		id := WindowID(p.Client)
		if err := r.b.Configure(id, WindowRect(p), p.Border); err != nil {
			r.log.Debug("configure failed", "window", id, "error", err)
		}
	}
	for _, p := range ev.Placements {
		r.show(WindowID(p.Client))
	}
	if len(ev.Stack) > 0 {
		ids := make([]WindowID, len(ev.Stack))
		for i, c := range ev.Stack {
			ids[i] = WindowID(c)
		}
		if err := r.b.Restack(ids); err != nil {
			r.log.Debug("restack failed", "error", err)
		}
	}
}

func (r *Renderer) SelectionChanged(ev wm.SelectionEvent) {
	for _, c := range ev.Unmapped {
		r.hide(WindowID(c))
	}
}

func (r *Renderer) FocusChanged(ev wm.FocusEvent) {
	if ev.Previous != wm.NoClient {
		if err := r.b.SetBorderColor(WindowID(ev.Previous), uint32(r.theme.ClientNormal.BG)); err != nil {
			r.log.Debug("border color failed", "window", ev.Previous, "error", err)
		}
	}
	if ev.Client != wm.NoClient {
		if err := r.b.SetBorderColor(WindowID(ev.Client), uint32(r.theme.ClientSelected.BG)); err != nil {
			r.log.Debug("border color failed", "window", ev.Client, "error", err)
		}
	}
	if err := r.b.Focus(WindowID(ev.Client)); err != nil {
		r.log.Debug("focus failed", "window", ev.Client, "error", err)
	}
}

func (r *Renderer) show(id WindowID) {
	if r.mapped[id] {
		return
	}
	if err := r.b.Map(id); err != nil {
		r.log.Debug("map failed", "window", id, "error", err)
		return
	}
	r.mapped[id] = true
}

func (r *Renderer) hide(id WindowID) {
	if !r.mapped[id] {
		return
	}
	if err := r.b.Unmap(id); err != nil {
		r.log.Debug("unmap failed", "window", id, "error", err)
		return
	}
	r.mapped[id] = false
	r.pendingUnmaps[id]++
}

// Adopted records a window that is already mapped, so hiding its tag
// unmaps it.
func (r *Renderer) Adopted(id WindowID) { r.mapped[id] = true }

// Withdrawn records that the client unmapped id itself, so the next
// layout that shows it maps it again.
func (r *Renderer) Withdrawn(id WindowID) { delete(r.mapped, id) }

// Mapped reports whether the renderer last mapped id.
func (r *Renderer) Mapped(id WindowID) bool { return r.mapped[id] }

// ExpectedUnmap consumes one unmap the renderer issued itself. A false
// result means the client withdrew the window.
func (r *Renderer) ExpectedUnmap(id WindowID) bool {
	n := r.pendingUnmaps[id]
	if n == 0 {
		return false
	}
	if n == 1 {
		delete(r.pendingUnmaps, id)
	} else {
		r.pendingUnmaps[id] = n - 1
	}
	return true
}

// Forget drops what the renderer knows about a finalized window.
func (r *Renderer) Forget(id WindowID) {
	delete(r.mapped, id)
	delete(r.pendingUnmaps, id)
}
