package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/tagtile/internal/geom"
)

// Monitor represents a physical display
type Monitor struct {
	ID       int
	Name     string
	Geometry geom.Rect
}

// GetMonitors retrieves all active monitors using XRandR. Without RandR,
// or with no active CRTC, the root window is the single monitor.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	root := Monitor{ID: 0, Name: "root", Geometry: c.RootGeometry()}
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return []Monitor{root}, nil
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTC.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		g := geom.Rect{X: int(info.X), Y: int(info.Y), Width: int(info.Width), Height: int(info.Height)}
		if duplicateMonitor(monitors, g) {
			// Mirrored outputs share one screen.
			continue
		}
		monitors = append(monitors, Monitor{ID: len(monitors), Name: name, Geometry: g})
	}
	if len(monitors) == 0 {
		return []Monitor{root}, nil
	}
	return monitors, nil
}

func duplicateMonitor(ms []Monitor, g geom.Rect) bool {
	for _, m := range ms {
		if m.Geometry == g {
			return true
		}
	}
	return false
}

// Struts is the space docks keep free on each edge of a monitor.
type Struts struct {
	Left, Right, Top, Bottom int
}

// DockStruts sums the _NET_WM_STRUT_PARTIAL (or _NET_WM_STRUT) of every
// dock window that overlaps mon.
func (c *Connection) DockStruts(mon geom.Rect, docks []xproto.Window) Struts {
	root := c.RootGeometry()
	var partials []ewmh.WmStrutPartial
	for _, win := range docks {
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			partials = append(partials, *sp)
			continue
		}
		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			partials = append(partials, fullStrut(s, root.Width, root.Height))
		}
	}
	return strutsFor(mon, root.Width, root.Height, partials)
}

// IsDock reports whether win declares _NET_WM_WINDOW_TYPE_DOCK.
func (c *Connection) IsDock(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

func fullStrut(s *ewmh.WmStrut, rootWidth, rootHeight int) ewmh.WmStrutPartial {
	return ewmh.WmStrutPartial{
		Left:       s.Left,
		Right:      s.Right,
		Top:        s.Top,
		Bottom:     s.Bottom,
		LeftEndY:   uint(rootHeight - 1),
		RightEndY:  uint(rootHeight - 1),
		TopEndX:    uint(rootWidth - 1),
		BottomEndX: uint(rootWidth - 1),
	}
}

// strutsFor keeps, per edge, the largest overlap of a strut band with mon.
func strutsFor(mon geom.Rect, rootWidth, rootHeight int, partials []ewmh.WmStrutPartial) Struts {
	var acc Struts
	for _, sp := range partials {
		if sp.Top > 0 {
			band := span(int(sp.TopStartX), 0, int(sp.TopEndX)+1, int(sp.Top))
			acc.Top = max(acc.Top, mon.Intersect(band).Height)
		}
		if sp.Bottom > 0 {
			band := span(int(sp.BottomStartX), rootHeight-int(sp.Bottom), int(sp.BottomEndX)+1, rootHeight)
			acc.Bottom = max(acc.Bottom, mon.Intersect(band).Height)
		}
		if sp.Left > 0 {
			band := span(0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY)+1)
			acc.Left = max(acc.Left, mon.Intersect(band).Width)
		}
		if sp.Right > 0 {
			band := span(rootWidth-int(sp.Right), int(sp.RightStartY), rootWidth, int(sp.RightEndY)+1)
			acc.Right = max(acc.Right, mon.Intersect(band).Width)
		}
	}
	return acc
}

func span(x1, y1, x2, y2 int) geom.Rect {
	return geom.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// PointerPosition returns the pointer position in root coordinates.
func (c *Connection) PointerPosition() (x, y int, err error) {
	p, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(p.RootX), int(p.RootY), nil
}

// Viewable lists the mapped top-level windows, bottom to top.
func (c *Connection) Viewable() []xproto.Window {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil
	}
	var out []xproto.Window
	for _, win := range tree.Children {
		attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
		if err != nil || attrs.MapState != xproto.MapStateViewable {
			continue
		}
		out = append(out, win)
	}
	return out
}
