// Package x11 is the X server side of the window manager: it claims
// substructure redirection on the root window, reads client properties
// and applies the geometry the core computes.
package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tagtile/internal/geom"
)

// ErrOtherWM is returned by BecomeWM when another window manager already
// holds substructure redirection on the root window.
var ErrOtherWM = errors.New("another window manager is running")

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection connects to display, or $DISPLAY when empty.
func NewConnection(display string) (*Connection, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}

	// Required for key grabs.
	keybind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// BecomeWM selects the root window events a window manager needs. It
// fails with ErrOtherWM when the redirect is already taken.
func (c *Connection) BecomeWM() error {
	mask := uint32(xproto.EventMaskSubstructureRedirect |
		xproto.EventMaskSubstructureNotify |
		xproto.EventMaskPropertyChange |
		xproto.EventMaskStructureNotify)
	err := xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), c.Root, xproto.CwEventMask, []uint32{mask}).Check()
	if err != nil {
		var access xproto.AccessError
		if errors.As(err, &access) {
			return ErrOtherWM
		}
		return fmt.Errorf("select root events: %w", err)
	}
	return nil
}

// RootGeometry returns the size of the root window.
func (c *Connection) RootGeometry() geom.Rect {
	r := xwindow.RootGeometry(c.XUtil)
	return geom.Rect{X: r.X(), Y: r.Y(), Width: r.Width(), Height: r.Height()}
}

// EventLoop runs the X event loop until Quit is called.
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit stops EventLoop. The loop blocks waiting for the next event, so
// Quit touches a root property to produce one.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
	_ = ewmh.ActiveWindowSet(c.XUtil, 0)
	c.XUtil.Sync()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
