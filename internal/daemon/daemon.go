// Package daemon runs the window manager: it owns the core, serializes
// every mutation on one loop and connects the loop to IPC, key bindings,
// config reloads and the reconciler.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/1broseidon/tagtile/internal/bar"
	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/hotkeys"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/metrics"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/theme"
	"github.com/1broseidon/tagtile/internal/wm"
)

// Options configures a Daemon.
type Options struct {
	// Config is the loaded configuration. ConfigPath is where reloads read
	// from; empty means the default path.
	Config     *config.Config
	ConfigPath string

	Backend platform.Backend
	Logger  *slog.Logger
	// Metrics is optional; it is served when the config sets metrics_addr.
	Metrics *metrics.Collector

	// SocketPath enables the IPC server. PIDPath, when set, records the
	// daemon pid while it runs.
	SocketPath string
	PIDPath    string
	// Watch enables reloading when the config file changes.
	Watch bool

	// OnReload runs on the loop after a successful reload.
	OnReload func(*config.Config)
}

// Daemon is a running window manager instance.
type Daemon struct {
	log     *slog.Logger
	path    string
	opts    Options
	cfg     *config.Config
	loop    *Loop
	backend platform.Backend
	metrics *metrics.Collector

	core       *wm.WM
	theme      *theme.Theme
	render     *platform.Renderer
	events     *platform.Events
	dispatcher *command.Dispatcher
	sync       *StateSynchronizer
	bars       map[wm.ScreenID]*bar.Infobar
	struts     map[wm.ScreenID][2]int

	started  time.Time
	quit     chan struct{}
	quitOnce sync.Once
}

// New builds the core from the config and the backend's displays: one
// screen per display, the configured tags on every screen and one bar per
// screen.
func New(opts Options) (*Daemon, error) {
	if opts.Backend == nil {
		return nil, errors.New("daemon: backend is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	path := opts.ConfigPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	engine, err := cfg.RuleEngine()
	if err != nil {
		return nil, err
	}
	themes := theme.NewRegistry()
	if err := cfg.RegisterThemes(themes); err != nil {
		return nil, err
	}
	th, found := themes.Acquire(cfg.DefaultTheme)
	if !found {
		logger.Warn("default theme not found, using builtin", "theme", cfg.DefaultTheme)
	}

	d := &Daemon{
		log:     logger,
		path:    path,
		opts:    opts,
		cfg:     cfg,
		loop:    NewLoop(logger),
		backend: opts.Backend,
		metrics: opts.Metrics,
		theme:   th,
		bars:    make(map[wm.ScreenID]*bar.Infobar),
		struts:  make(map[wm.ScreenID][2]int),
		quit:    make(chan struct{}),
	}
	d.render = platform.NewRenderer(opts.Backend, th, logger)
	d.core = wm.New(wm.Options{
		Logger:         logger,
		Layouts:        catalog,
		DefaultLayouts: cfg.DefaultLayouts,
		Rules:          engine,
		Themes:         themes,
		Theme:          cfg.DefaultTheme,
	})

	if err := d.setupScreens(); err != nil {
		return nil, err
	}

	d.sync = NewStateSynchronizer(d.core, opts.Backend, d.bars, opts.Metrics, logger)
	d.events = platform.NewEvents(d.core, d.render, opts.Backend, logger, d.sync.Sync)
	d.dispatcher = command.NewDispatcher(d.core, command.Hooks{
		Close: func(id wm.ClientID) error {
			return d.backend.Close(platform.WindowID(id))
		},
		ToggleBar: d.toggleBar,
		Status:    d.setStatus,
		Reload:    d.reload,
		Quit: func() error {
			d.Quit()
			return nil
		},
	})
	d.sync.Sync()
	return d, nil
}

func (d *Daemon) setupScreens() error {
	displays, err := d.backend.Displays()
	if err != nil {
		return fmt.Errorf("list displays: %w", err)
	}
	if len(displays) == 0 {
		return errors.New("no displays found")
	}
	pos, err := bar.ParsePosition(d.cfg.Bar.Position)
	if err != nil {
		return err
	}

	notifiers := wm.Notifiers{d.render}
	for _, disp := range displays {
		id := d.core.AddScreen(disp.Bounds)
		d.struts[id] = [2]int{disp.ReserveTop, disp.ReserveBottom}
		if err := d.ensureTags(id, d.cfg); err != nil {
			return err
		}
		b, err := bar.New(bar.Options{
			Screen:   id,
			Position: pos,
			Height:   d.cfg.Bar.Height,
			Elements: d.cfg.Bar.Elements,
			Theme:    d.theme,
		})
		if err != nil {
			return err
		}
		d.bars[id] = b
		notifiers = append(notifiers, b)
		if err := d.applyReserve(id); err != nil {
			return err
		}
		d.log.Info("screen added", "screen", id, "display", disp.Name, "geometry", disp.Bounds.String())
	}
	if d.metrics != nil {
		notifiers = append(notifiers, d.metrics)
	}
	d.core.SetNotifier(notifiers)
	return nil
}

// ensureTags creates the configured tags missing on screen and applies
// their layout cycles. Tags no longer in the config are kept.
func (d *Daemon) ensureTags(screen wm.ScreenID, cfg *config.Config) error {
	for i, name := range cfg.TagNames() {
		id, err := d.core.TagByName(screen, name)
		if errors.Is(err, wm.ErrUnknownTag) {
			id, err = d.core.AddTag(screen, name)
		}
		if err != nil {
			return fmt.Errorf("tag %q: %w", name, err)
		}
		if err := d.core.SetTagLayouts(id, cfg.TagLayouts(i)); err != nil {
			return fmt.Errorf("tag %q: %w", name, err)
		}
	}
	return nil
}

// applyReserve gives the core the space the bar and the docks keep free.
func (d *Daemon) applyReserve(screen wm.ScreenID) error {
	var top, bottom int
	if b, ok := d.bars[screen]; ok {
		top, bottom = b.Reserve()
	}
	s := d.struts[screen]
	return d.core.SetReserved(screen, top+s[0], bottom+s[1])
}

func (d *Daemon) toggleBar() error {
	screen := d.core.SelectedScreen()
	b, ok := d.bars[screen]
	if !ok {
		return nil
	}
	pos := b.Toggle()
	d.log.Debug("bar toggled", "screen", screen, "position", pos.String())
	return d.applyReserve(screen)
}

func (d *Daemon) setStatus(text string) error {
	for _, b := range d.bars {
		b.SetStatus(text)
	}
	return nil
}

// reload reads the config again and applies layouts, rules, themes and
// tags. It runs on the loop.
func (d *Daemon) reload() error {
	res, err := config.LoadFromPath(d.path)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	cfg := res.Config

	catalog, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	engine, err := cfg.RuleEngine()
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	if err := cfg.RegisterThemes(d.core.Themes()); err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	d.core.SetRules(engine)
	d.core.SetLayouts(catalog, cfg.DefaultLayouts)
	for _, s := range d.core.Screens() {
		if err := d.ensureTags(s.ID, cfg); err != nil {
			return fmt.Errorf("reload: %w", err)
		}
	}
	d.cfg = cfg
	d.sync.Sync()
	if d.opts.OnReload != nil {
		d.opts.OnReload(cfg)
	}
	d.log.Info("config reloaded", "files", len(res.Files))
	return nil
}

// Quit asks Run to tear down and return.
func (d *Daemon) Quit() {
	d.quitOnce.Do(func() { close(d.quit) })
}

// Loop returns the serial loop every mutation runs on.
func (d *Daemon) Loop() *Loop { return d.loop }

// Events returns the window-system event adapter.
func (d *Daemon) Events() *platform.Events { return d.events }

// Post queues fn on the loop. X callbacks use it to keep event order.
func (d *Daemon) Post(fn func()) {
	if !d.loop.Post(fn) {
		d.log.Debug("event dropped after shutdown")
	}
}

// Fire runs a key binding on the loop.
func (d *Daemon) Fire(b hotkeys.Binding) {
	d.Post(func() {
		err := d.dispatcher.Dispatch(b.Action, b.Arg)
		d.observe(b.Action.String(), err)
		if err != nil {
			d.log.Warn("keybind action failed", "key", b.Key, "action", b.Action.String(), "error", err)
		}
	})
}

func (d *Daemon) observe(action string, err error) {
	d.sync.Sync()
	if d.metrics != nil {
		d.metrics.ObserveAction(action, err)
	}
}

// Run serves the daemon until ctx is cancelled or a quit action runs.
// The window-system event pump is driven by the caller.
func (d *Daemon) Run(ctx context.Context) error {
	d.started = time.Now()
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go d.loop.Run(loopCtx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup

	if d.opts.PIDPath != "" {
		if err := os.WriteFile(d.opts.PIDPath, []byte(strconv.Itoa(os.Getpid())+"\n"), 0600); err != nil {
			d.log.Warn("failed to write pid file", "path", d.opts.PIDPath, "error", err)
		} else {
			defer os.Remove(d.opts.PIDPath)
		}
	}

	var server *ipc.Server
	if d.opts.SocketPath != "" {
		server = ipc.NewServerAt(d.opts.SocketPath, d, d.log)
		if err := server.Start(); err != nil {
			return err
		}
	}

	if d.cfg.ReconcileInterval > 0 {
		rec := NewReconciler(ReconcilerConfig{
			Interval: d.cfg.ReconcileInterval,
			Logger:   d.log,
		}, d.loop, d.core, func(id wm.ClientID) bool {
			return d.backend.Exists(platform.WindowID(id))
		}, d.forget)
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Run(ctx)
		}()
	}

	if d.opts.Watch {
		cw, err := NewConfigWatcher(d.path, d.log)
		if err != nil {
			d.log.Warn("config hot reload disabled", "error", err)
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				cw.Run(ctx, func() {
					if err := d.Reload(); err != nil {
						d.log.Error("reload failed", "error", err)
					}
				})
			}()
		}
	}

	if d.metrics != nil && d.cfg.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.metrics.Serve(ctx, d.cfg.MetricsAddr, d.log); err != nil {
				d.log.Error("metrics server failed", "error", err)
			}
		}()
	}

	d.log.Info("tagtile daemon running", "screens", len(d.bars))
	select {
	case <-ctx.Done():
	case <-d.quit:
	}
	d.log.Info("shutting down")

	cancel()
	if server != nil {
		server.Stop()
	}
	wg.Wait()
	err := d.loop.Do(func() error {
		// Windows on hidden tags are mapped again so they outlive the
		// manager.
		for _, id := range d.core.ClientIDs() {
			if err := d.backend.Map(platform.WindowID(id)); err != nil {
				d.log.Debug("map on shutdown failed", "client", id, "error", err)
			}
		}
		d.core.SetNotifier(nil)
		return d.core.Close()
	})
	d.core.Themes().Release(d.theme)
	return err
}

// forget drops renderer state of clients the reconciler finalized.
func (d *Daemon) forget(ids []wm.ClientID) {
	for _, id := range ids {
		d.render.Forget(platform.WindowID(id))
	}
	d.sync.Sync()
}

// Done is closed once Quit was called.
func (d *Daemon) Done() <-chan struct{} { return d.quit }

// The methods below implement ipc.Handler. Each runs on the loop.

var _ ipc.Handler = (*Daemon)(nil)

func (d *Daemon) Status() (ipc.StatusData, error) {
	var st ipc.StatusData
	err := d.loop.Do(func() error {
		st.Screens = len(d.core.Screens())
		st.Managed, st.Dying = d.core.Counts()
		if t, ok := d.core.Tag(d.core.CurrentTag()); ok {
			st.CurrentTag = t.Name
			if set := t.Layout(); set != nil {
				st.Layout = set.Name
			}
		}
		st.Focused = uint32(d.core.Focused())
		if c, ok := d.core.Client(d.core.Focused()); ok {
			st.FocusedTitle = c.Title()
		}
		if b, ok := d.bars[d.core.SelectedScreen()]; ok {
			st.BarStatus = b.State().Status
		}
		return nil
	})
	if !d.started.IsZero() {
		st.UptimeSeconds = int64(time.Since(d.started).Seconds())
	}
	st.DaemonRunning = err == nil
	return st, err
}

func (d *Daemon) Tags() (ipc.TagsData, error) {
	var snap wm.Snapshot
	err := d.loop.Do(func() error {
		snap = d.core.Snapshot()
		return nil
	})
	return snap, err
}

func (d *Daemon) Layout(tag string) (ipc.LayoutData, error) {
	var info wm.TagInfo
	err := d.loop.Do(func() error {
		id, err := d.resolveTag(tag)
		if err != nil {
			return err
		}
		info, err = d.core.TagInfo(id)
		return err
	})
	return info, err
}

// resolveTag accepts an empty string for the current tag, a 1-based
// position or a name on the selected screen.
func (d *Daemon) resolveTag(arg string) (wm.TagID, error) {
	if arg == "" {
		id := d.core.CurrentTag()
		if id == wm.NoTag {
			return wm.NoTag, wm.ErrUnknownTag
		}
		return id, nil
	}
	screen := d.core.SelectedScreen()
	if n, err := strconv.Atoi(arg); err == nil {
		return d.core.TagByIndex(screen, n-1)
	}
	return d.core.TagByName(screen, arg)
}

func (d *Daemon) Layouts() (ipc.LayoutsData, error) {
	var data ipc.LayoutsData
	err := d.loop.Do(func() error {
		cat := d.core.Layouts()
		for _, name := range cat.Names() {
			set, _ := cat.Get(name)
			data.Layouts = append(data.Layouts, ipc.LayoutInfo{
				Name:     set.Name,
				Floating: set.Floating,
				Gap:      set.Gap,
				Counts:   set.Counts(),
			})
		}
		data.DefaultLayouts = append([]string(nil), d.cfg.DefaultLayouts...)
		if t, ok := d.core.Tag(d.core.CurrentTag()); ok {
			if set := t.Layout(); set != nil {
				data.ActiveLayout = set.Name
			}
		}
		return nil
	})
	return data, err
}

func (d *Daemon) Preview(name string, clients int) (ipc.PreviewData, error) {
	var data ipc.PreviewData
	err := d.loop.Do(func() error {
		if name == "" {
			if t, ok := d.core.Tag(d.core.CurrentTag()); ok && t.Layout() != nil {
				name = t.Layout().Name
			}
		}
		set, ok := d.core.Layouts().Get(name)
		if !ok {
			return fmt.Errorf("unknown layout %q", name)
		}
		usable, err := d.core.UsableArea(d.core.SelectedScreen())
		if err != nil {
			return err
		}
		arr := layout.Compute(clients, set, usable)
		data = ipc.PreviewData{Layout: set.Name, Usable: usable, Rects: arr.Rects, Shared: arr.Shared}
		return nil
	})
	return data, err
}

func (d *Daemon) Dispatch(action, arg string) error {
	return d.loop.Do(func() error {
		err := d.dispatcher.DispatchName(action, arg)
		d.observe(action, err)
		return err
	})
}

func (d *Daemon) Reload() error {
	return d.loop.Do(d.reload)
}
