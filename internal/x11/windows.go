package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/hints"
	"github.com/1broseidon/tagtile/internal/rules"
)

// Attrs reads WM_CLASS, WM_WINDOW_ROLE and the window title. Missing
// properties are left empty.
func (c *Connection) Attrs(win xproto.Window) rules.Attrs {
	var a rules.Attrs
	if cls, err := icccm.WmClassGet(c.XUtil, win); err == nil {
		a.Class = cls.Class
		a.Instance = cls.Instance
	}
	if role, err := xprop.PropValStr(xprop.GetProperty(c.XUtil, win, "WM_WINDOW_ROLE")); err == nil {
		a.Role = role
	}
	a.Name = c.Title(win)
	return a
}

// Title prefers _NET_WM_NAME over WM_NAME.
func (c *Connection) Title(win xproto.Window) string {
	if name, err := ewmh.WmNameGet(c.XUtil, win); err == nil && name != "" {
		return name
	}
	if name, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		return name
	}
	return ""
}

// SizeHints reads WM_NORMAL_HINTS. A window without the property has no
// constraints.
func (c *Connection) SizeHints(win xproto.Window) hints.SizeHints {
	nh, err := icccm.WmNormalHintsGet(c.XUtil, win)
	if err != nil {
		return hints.SizeHints{}
	}
	return convertNormalHints(nh)
}

// convertNormalHints keeps only the fields whose flag is set. A base size
// without a min size doubles as the min size, and the reverse.
func convertNormalHints(nh *icccm.NormalHints) hints.SizeHints {
	var h hints.SizeHints
	if nh == nil {
		return h
	}
	has := func(flag uint) bool { return nh.Flags&flag != 0 }

	if has(icccm.SizeHintPBaseSize) {
		h[hints.BaseW], h[hints.BaseH] = int(nh.BaseWidth), int(nh.BaseHeight)
	} else if has(icccm.SizeHintPMinSize) {
		h[hints.BaseW], h[hints.BaseH] = int(nh.MinWidth), int(nh.MinHeight)
	}
	if has(icccm.SizeHintPMinSize) {
		h[hints.MinW], h[hints.MinH] = int(nh.MinWidth), int(nh.MinHeight)
	} else if has(icccm.SizeHintPBaseSize) {
		h[hints.MinW], h[hints.MinH] = int(nh.BaseWidth), int(nh.BaseHeight)
	}
	if has(icccm.SizeHintPMaxSize) {
		h[hints.MaxW], h[hints.MaxH] = int(nh.MaxWidth), int(nh.MaxHeight)
	}
	if has(icccm.SizeHintPResizeInc) {
		h[hints.IncW], h[hints.IncH] = int(nh.WidthInc), int(nh.HeightInc)
	}
	if has(icccm.SizeHintPAspect) {
		h[hints.MinAX], h[hints.MinAY] = int(nh.MinAspectNum), int(nh.MinAspectDen)
		h[hints.MaxAX], h[hints.MaxAY] = int(nh.MaxAspectNum), int(nh.MaxAspectDen)
	}
	return h
}

// Geometry returns the window geometry relative to its parent.
func (c *Connection) Geometry(win xproto.Window) (geom.Rect, error) {
	r, err := xwindow.RawGeometry(c.XUtil, xproto.Drawable(win))
	if err != nil {
		return geom.Rect{}, err
	}
	return geom.Rect{X: r.X(), Y: r.Y(), Width: r.Width(), Height: r.Height()}, nil
}

// Exists reports whether win is still known to the server.
func (c *Connection) Exists(win xproto.Window) bool {
	_, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	return err == nil
}

// Manageable reports whether a window asking to be mapped should be
// managed. Override-redirect windows and docks are left alone.
func (c *Connection) Manageable(win xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
	if err != nil || attrs.OverrideRedirect {
		return false
	}
	return c.IsNormalWindow(win)
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG", "_NET_WM_WINDOW_TYPE_UTILITY":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP", "_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH", "_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return len(types) == 0
}

// Watch selects property changes on a client. Unmap and destroy arrive
// through the root window's substructure mask.
func (c *Connection) Watch(win xproto.Window) error {
	return xwindow.New(c.XUtil, win).Listen(xproto.EventMaskPropertyChange)
}

// Configure moves and resizes win to r, with the given border width.
func (c *Connection) Configure(win xproto.Window, r geom.Rect, border int) error {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight | xproto.ConfigWindowBorderWidth)
	vals := []uint32{
		uint32(int32(r.X)), uint32(int32(r.Y)),
		uint32(max(r.Width, 1)), uint32(max(r.Height, 1)),
		uint32(max(border, 0)),
	}
	if err := xproto.ConfigureWindowChecked(c.XUtil.Conn(), win, mask, vals).Check(); err != nil {
		return fmt.Errorf("configure window %d: %w", win, err)
	}
	return nil
}

// SendConfigureNotify tells a client its geometry when a configure
// request was answered without moving the window.
func (c *Connection) SendConfigureNotify(win xproto.Window, r geom.Rect, border int) error {
	ev := xproto.ConfigureNotifyEvent{
		Event:       win,
		Window:      win,
		X:           int16(r.X),
		Y:           int16(r.Y),
		Width:       uint16(max(r.Width, 1)),
		Height:      uint16(max(r.Height, 1)),
		BorderWidth: uint16(max(border, 0)),
	}
	return xproto.SendEventChecked(c.XUtil.Conn(), false, win,
		xproto.EventMaskStructureNotify, string(ev.Bytes())).Check()
}

// Map maps win.
func (c *Connection) Map(win xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), win).Check()
}

// Unmap unmaps win.
func (c *Connection) Unmap(win xproto.Window) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), win).Check()
}

// Restack stacks wins bottom to top.
func (c *Connection) Restack(wins []xproto.Window) error {
	for i, win := range wins {
		mask := uint16(xproto.ConfigWindowStackMode)
		vals := []uint32{xproto.StackModeAbove}
		if i > 0 {
			mask |= xproto.ConfigWindowSibling
			vals = []uint32{uint32(wins[i-1]), xproto.StackModeAbove}
		}
		if err := xproto.ConfigureWindowChecked(c.XUtil.Conn(), win, mask, vals).Check(); err != nil {
			return fmt.Errorf("restack window %d: %w", win, err)
		}
	}
	return nil
}

// Focus gives win the input focus and publishes it as _NET_ACTIVE_WINDOW.
// Zero focuses the root window.
func (c *Connection) Focus(win xproto.Window) error {
	target := win
	if target == 0 {
		target = c.Root
	}
	err := xproto.SetInputFocusChecked(c.XUtil.Conn(), xproto.InputFocusPointerRoot, target, xproto.TimeCurrentTime).Check()
	if err != nil {
		return fmt.Errorf("focus window %d: %w", win, err)
	}
	return ewmh.ActiveWindowSet(c.XUtil, win)
}

// SetBorderColor sets the border pixel of win.
func (c *Connection) SetBorderColor(win xproto.Window, rgb uint32) error {
	return xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), win, xproto.CwBorderPixel, []uint32{rgb}).Check()
}

// CloseWindow asks win to close with WM_DELETE_WINDOW, or kills its
// client when it does not support the protocol.
func (c *Connection) CloseWindow(win xproto.Window) error {
	protocols, err := icccm.WmProtocolsGet(c.XUtil, win)
	if err == nil {
		for _, p := range protocols {
			if p == "WM_DELETE_WINDOW" {
				return c.sendProtocol(win, "WM_DELETE_WINDOW")
			}
		}
	}
	return xproto.KillClientChecked(c.XUtil.Conn(), uint32(win)).Check()
}

func (c *Connection) sendProtocol(win xproto.Window, name string) error {
	wmProtocols, err := xprop.Atm(c.XUtil, "WM_PROTOCOLS")
	if err != nil {
		return err
	}
	atom, err := xprop.Atm(c.XUtil, name)
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   wmProtocols,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(atom), uint32(xproto.TimeCurrentTime), 0, 0, 0}),
	}
	return xproto.SendEventChecked(c.XUtil.Conn(), false, win, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}
