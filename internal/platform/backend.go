package platform

import (
	"github.com/1broseidon/tagtile/internal/geom"
)

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Display describes a physical display and the space docks keep free on
// its top and bottom edges.
type Display struct {
	ID            int
	Name          string
	Bounds        geom.Rect
	ReserveTop    int
	ReserveBottom int
}

// Backend abstracts the window-system operations the renderer and the
// event adapter need.
type Backend interface {
	Displays() ([]Display, error)
	Configure(id WindowID, r geom.Rect, border int) error
	Map(id WindowID) error
	Unmap(id WindowID) error
	// Restack stacks ids bottom to top.
	Restack(ids []WindowID) error
	// Focus focuses id, or nothing when id is zero.
	Focus(id WindowID) error
	Close(id WindowID) error
	SetBorderColor(id WindowID, rgb uint32) error
	Exists(id WindowID) bool
	PublishDesktops(names []string, current int) error
	PublishClients(ids []WindowID) error
}
