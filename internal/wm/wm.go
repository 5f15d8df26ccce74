// Package wm holds the screens, tags and clients of the window manager and
// keeps their geometry consistent as windows come and go.
//
// A WM is owned by a single goroutine. Every mutation recomputes the
// affected tags synchronously and reports the result to the Notifier.
package wm

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/rules"
	"github.com/1broseidon/tagtile/internal/theme"
)

// Options configures a WM.
type Options struct {
	Logger *slog.Logger
	// Layouts is the catalog tags pick their layout sets from.
	Layouts *layout.Catalog
	// DefaultLayouts names the sets given to new tags, in cycle order.
	DefaultLayouts []string
	Rules          *rules.Engine
	Themes         *theme.Registry
	// Theme is the theme new clients get when no rule names one.
	Theme    string
	Notifier Notifier
}

// WM is the window manager core.
type WM struct {
	log            *slog.Logger
	layouts        *layout.Catalog
	defaultLayouts []string
	rules          *rules.Engine
	themes         *theme.Registry
	themeName      string
	notify         Notifier

	screens   []*Screen
	screenIdx map[ScreenID]*Screen
	selScreen *Screen
	nextScr   ScreenID

	tags    map[TagID]*Tag
	nextTag TagID

	clients   map[ClientID]*Client
	finalized map[ClientID]struct{}
	finalLog  []ClientID
	order     []ClientID

	lastLayout map[TagID]LayoutEvent
	focused    ClientID
	focusTitle string
}

// New builds an empty WM. Screens are added first, then tags, then clients.
func New(opts Options) *WM {
	w := &WM{
		log:            opts.Logger,
		layouts:        opts.Layouts,
		defaultLayouts: append([]string(nil), opts.DefaultLayouts...),
		rules:          opts.Rules,
		themes:         opts.Themes,
		themeName:      opts.Theme,
		notify:         opts.Notifier,
		screenIdx:      make(map[ScreenID]*Screen),
		tags:           make(map[TagID]*Tag),
		clients:        make(map[ClientID]*Client),
		finalized:      make(map[ClientID]struct{}),
		lastLayout:     make(map[TagID]LayoutEvent),
		focused:        NoClient,
	}
	if w.log == nil {
		w.log = slog.Default()
	}
	if w.layouts == nil {
		tile, _ := layout.Generate("tile", layout.AlgoTile, layout.GenerateOptions{})
		w.layouts, _ = layout.NewCatalog(tile)
	}
	if len(w.defaultLayouts) == 0 {
		w.defaultLayouts = w.layouts.Names()
	}
	if w.themes == nil {
		w.themes = theme.NewRegistry()
	}
	if w.themeName == "" {
		w.themeName = theme.DefaultName
	}
	if w.notify == nil {
		w.notify = nopNotifier{}
	}
	return w
}

// SetNotifier replaces the notifier. Pass nil to silence events.
func (w *WM) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	w.notify = n
}

// SetRules swaps the rule engine used by later Manage calls.
func (w *WM) SetRules(e *rules.Engine) {
	w.rules = e
}

// SetLayouts swaps the layout catalog. Tags keep sets they already hold
// when the new catalog still has a set of that name.
func (w *WM) SetLayouts(c *layout.Catalog, defaults []string) {
	if c == nil {
		return
	}
	w.layouts = c
	w.defaultLayouts = append([]string(nil), defaults...)
	if len(w.defaultLayouts) == 0 {
		w.defaultLayouts = c.Names()
	}
	for _, s := range w.screens {
		for _, t := range s.tags {
			names := make([]string, 0, len(t.sets))
			for _, set := range t.sets {
				names = append(names, set.Name)
			}
			sets, _ := c.Resolve(names)
			if len(sets) == 0 {
				sets, _ = c.Resolve(w.defaultLayouts)
			}
			t.setSets(sets)
			w.arrange(t, false)
		}
	}
}

// Layouts returns the layout catalog.
func (w *WM) Layouts() *layout.Catalog {
	return w.layouts
}

// Themes returns the theme registry.
func (w *WM) Themes() *theme.Registry {
	return w.themes
}

// Close tears the WM down in reverse order: clients are finalized in
// reverse manage order, then tags and screens are dropped.
func (w *WM) Close() error {
	var errs []error
	for i := len(w.order) - 1; i >= 0; i-- {
		c, ok := w.clients[w.order[i]]
		if !ok {
			continue
		}
		if c.state == Managed {
			if err := w.BeginDying(c.ID); err != nil {
				errs = append(errs, err)
			}
		}
		if err := w.Finalize(c.ID); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(w.screens) - 1; i >= 0; i-- {
		s := w.screens[i]
		for j := len(s.tags) - 1; j >= 0; j-- {
			delete(w.tags, s.tags[j].ID)
			delete(w.lastLayout, s.tags[j].ID)
		}
		s.tags = nil
		s.selected = nil
		delete(w.screenIdx, s.ID)
	}
	w.screens = nil
	w.selScreen = nil
	w.order = nil
	if len(errs) > 0 {
		return fmt.Errorf("close: %w", errors.Join(errs...))
	}
	return nil
}
