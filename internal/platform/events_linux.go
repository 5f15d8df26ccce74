//go:build linux

package platform

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/tagtile/internal/x11"
)

// Connect attaches the X event callbacks. Properties are read on the X
// event goroutine; do runs the core updates on the daemon loop.
func (e *Events) Connect(conn *x11.Connection, do func(func())) {
	xu := conn.XUtil

	xevent.MapRequestFun(func(xu *xgbutil.XUtil, ev xevent.MapRequestEvent) {
		win := ev.Window
		info := MapInfo{ID: WindowID(win), Manageable: conn.Manageable(win)}
		if info.Manageable {
			info.Attrs = conn.Attrs(win)
			info.Hints = conn.SizeHints(win)
			info.Geometry, _ = conn.Geometry(win)
			if err := conn.Watch(win); err != nil {
				e.log.Debug("watch failed", "window", win, "error", err)
			}
			e.connectProperties(conn, win, do)
		}
		do(func() {
			if err := e.MapRequest(info); err != nil {
				e.log.Warn("map request failed", "window", win, "error", err)
			}
		})
	}).Connect(xu, conn.Root)

	xevent.ConfigureRequestFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
		cur, err := conn.Geometry(ev.Window)
		if err != nil {
			return
		}
		r := requestedRect(cur, ev.ValueMask, int(ev.X), int(ev.Y), int(ev.Width), int(ev.Height))
		border := int(ev.BorderWidth)
		win := ev.Window
		do(func() {
			if err := e.ConfigureRequest(WindowID(win), r, border); err != nil {
				e.log.Debug("configure request failed", "window", win, "error", err)
			}
		})
	}).Connect(xu, conn.Root)

	xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		win := ev.Window
		do(func() {
			if err := e.UnmapNotify(WindowID(win)); err != nil {
				e.log.Debug("unmap notify failed", "window", win, "error", err)
			}
		})
	}).Connect(xu, conn.Root)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		win := ev.Window
		xevent.Detach(xu, win)
		do(func() {
			if err := e.DestroyNotify(WindowID(win)); err != nil {
				e.log.Debug("destroy notify failed", "window", win, "error", err)
			}
		})
	}).Connect(xu, conn.Root)
}

func (e *Events) connectProperties(conn *x11.Connection, win xproto.Window, do func(func())) {
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil || (name != "_NET_WM_NAME" && name != "WM_NAME") {
			return
		}
		title := conn.Title(win)
		do(func() {
			if err := e.TitleChanged(WindowID(win), title); err != nil {
				e.log.Debug("title update failed", "window", win, "error", err)
			}
		})
	}).Connect(conn.XUtil, win)
}

// Adopt manages the windows that were already mapped when the manager
// started, as if each had sent a MapRequest.
func (e *Events) Adopt(conn *x11.Connection, do func(func())) {
	for _, win := range conn.Viewable() {
		if !conn.Manageable(win) {
			continue
		}
		info := MapInfo{
			ID:         WindowID(win),
			Manageable: true,
			Mapped:     true,
			Attrs:      conn.Attrs(win),
			Hints:      conn.SizeHints(win),
		}
		info.Geometry, _ = conn.Geometry(win)
		if err := conn.Watch(win); err != nil {
			e.log.Debug("watch failed", "window", win, "error", err)
		}
		e.connectProperties(conn, win, do)
		do(func() {
			if err := e.MapRequest(info); err != nil {
				e.log.Warn("adopt failed", "window", win, "error", err)
			}
		})
	}
}
