//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection to display.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Conn returns the X11 connection.
func (b *LinuxBackend) Conn() *x11.Connection { return b.conn }

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays with the struts of mapped docks.
func (b *LinuxBackend) Displays() ([]Display, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	docks := b.docks()

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		s := b.conn.DockStruts(m.Geometry, docks)
		displays = append(displays, Display{
			ID:            m.ID,
			Name:          m.Name,
			Bounds:        m.Geometry,
			ReserveTop:    s.Top,
			ReserveBottom: s.Bottom,
		})
	}
	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})
	return displays, nil
}

// docks lists the mapped dock windows among the root's children. Docks are
// never managed, so they do not appear in _NET_CLIENT_LIST.
func (b *LinuxBackend) docks() []xproto.Window {
	var out []xproto.Window
	for _, win := range b.conn.Viewable() {
		if b.conn.IsDock(win) {
			out = append(out, win)
		}
	}
	return out
}

func (b *LinuxBackend) Configure(id WindowID, r geom.Rect, border int) error {
	return b.conn.Configure(xproto.Window(id), r, border)
}

func (b *LinuxBackend) Map(id WindowID) error {
	return b.conn.Map(xproto.Window(id))
}

func (b *LinuxBackend) Unmap(id WindowID) error {
	return b.conn.Unmap(xproto.Window(id))
}

func (b *LinuxBackend) Restack(ids []WindowID) error {
	return b.conn.Restack(toX(ids))
}

func (b *LinuxBackend) Focus(id WindowID) error {
	return b.conn.Focus(xproto.Window(id))
}

func (b *LinuxBackend) Close(id WindowID) error {
	return b.conn.CloseWindow(xproto.Window(id))
}

func (b *LinuxBackend) Exists(id WindowID) bool {
	return b.conn.Exists(xproto.Window(id))
}

func (b *LinuxBackend) PublishDesktops(names []string, current int) error {
	return b.conn.SetDesktops(names, current)
}

func (b *LinuxBackend) PublishClients(ids []WindowID) error {
	return b.conn.SetClientList(toX(ids))
}

func (b *LinuxBackend) SetBorderColor(id WindowID, rgb uint32) error {
	return b.conn.SetBorderColor(xproto.Window(id), rgb)
}

func toX(ids []WindowID) []xproto.Window {
	out := make([]xproto.Window, len(ids))
	for i, id := range ids {
		out[i] = xproto.Window(id)
	}
	return out
}
