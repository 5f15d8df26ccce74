package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// supported lists the EWMH hints the window manager maintains.
var supported = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_CLIENT_LIST",
	"_NET_ACTIVE_WINDOW",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_NAMES",
	"_NET_CURRENT_DESKTOP",
	"_NET_WM_STRUT_PARTIAL",
	"_NET_WM_WINDOW_TYPE",
}

// Announce creates the _NET_SUPPORTING_WM_CHECK window and publishes the
// supported hints under name.
func (c *Connection) Announce(name string) error {
	check, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return err
	}
	check.Create(c.Root, -1, -1, 1, 1, 0)
	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.Root, check.Id); err != nil {
		return err
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, check.Id, check.Id); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(c.XUtil, check.Id, name); err != nil {
		return err
	}
	return ewmh.SupportedSet(c.XUtil, supported)
}

// SetDesktops publishes the tags of the selected screen as desktops.
func (c *Connection) SetDesktops(names []string, current int) error {
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, uint(len(names))); err != nil {
		return err
	}
	if err := ewmh.DesktopNamesSet(c.XUtil, names); err != nil {
		return err
	}
	if current < 0 {
		current = 0
	}
	return ewmh.CurrentDesktopSet(c.XUtil, uint(current))
}

// SetClientList publishes the managed windows in manage order.
func (c *Connection) SetClientList(wins []xproto.Window) error {
	return ewmh.ClientListSet(c.XUtil, wins)
}
