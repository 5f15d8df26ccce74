package tui

import (
	"fmt"

	"github.com/1broseidon/tagtile/internal/bar"
	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/layout"
)

// Source supplies the layout catalog and previews.
type Source interface {
	ListLayouts() (*ipc.LayoutsData, error)
	PreviewLayout(layoutName string, clients int) (*ipc.PreviewData, error)
}

// Controller drives a running daemon. It is nil when browsing offline.
type Controller interface {
	GetTags() (*ipc.TagsData, error)
	Dispatch(action, arg string) error
}

var (
	_ Source     = (*ipc.Client)(nil)
	_ Controller = (*ipc.Client)(nil)
	_ Source     = (*ConfigSource)(nil)
)

// DefaultScreen is the screen offline previews are computed for.
var DefaultScreen = geom.Rect{Width: 1920, Height: 1080}

// ConfigSource previews the layouts of a config file without a daemon.
type ConfigSource struct {
	cfg     *config.Config
	catalog *layout.Catalog
	usable  geom.Rect
}

// NewConfigSource builds the catalog of cfg. Previews use screen minus
// the space the configured bar reserves.
func NewConfigSource(cfg *config.Config, screen geom.Rect) (*ConfigSource, error) {
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	pos, err := bar.ParsePosition(cfg.Bar.Position)
	if err != nil {
		return nil, err
	}
	usable := screen
	switch pos {
	case bar.Top:
		usable.Y += cfg.Bar.Height
		usable.Height -= cfg.Bar.Height
	case bar.Bottom:
		usable.Height -= cfg.Bar.Height
	}
	return &ConfigSource{cfg: cfg, catalog: catalog, usable: usable}, nil
}

// ListLayouts lists the catalog. The active layout is the first entry of
// the first tag's cycle, which is what a fresh daemon starts with.
func (s *ConfigSource) ListLayouts() (*ipc.LayoutsData, error) {
	data := &ipc.LayoutsData{DefaultLayouts: append([]string(nil), s.cfg.DefaultLayouts...)}
	for _, name := range s.catalog.Names() {
		set, _ := s.catalog.Get(name)
		data.Layouts = append(data.Layouts, ipc.LayoutInfo{
			Name:     set.Name,
			Floating: set.Floating,
			Gap:      set.Gap,
			Counts:   set.Counts(),
		})
	}
	if cycle := s.cfg.TagLayouts(0); len(cycle) > 0 {
		data.ActiveLayout = cycle[0]
	}
	return data, nil
}

// PreviewLayout arranges clients with the named layout.
func (s *ConfigSource) PreviewLayout(name string, clients int) (*ipc.PreviewData, error) {
	if name == "" {
		if cycle := s.cfg.TagLayouts(0); len(cycle) > 0 {
			name = cycle[0]
		}
	}
	set, ok := s.catalog.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown layout %q", name)
	}
	if clients < 0 {
		return nil, fmt.Errorf("clients must be >= 0")
	}
	arr := layout.Compute(clients, set, s.usable)
	return &ipc.PreviewData{Layout: set.Name, Usable: s.usable, Rects: arr.Rects, Shared: arr.Shared}, nil
}
