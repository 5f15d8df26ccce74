//go:build linux

package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/hotkeys"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/x11"
)

// RunX connects to display, takes over window management and serves until
// ctx is cancelled or a quit action runs. opts.Backend is ignored.
func RunX(ctx context.Context, opts Options, display string) error {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return fmt.Errorf("failed to connect to X11: %w", err)
	}
	if err := conn.BecomeWM(); err != nil {
		conn.Close()
		return err
	}
	if err := conn.Announce("tagtile"); err != nil {
		conn.Close()
		return fmt.Errorf("announce: %w", err)
	}

	var (
		d    *Daemon
		keys *hotkeys.Handler
	)
	onReload := opts.OnReload
	opts.OnReload = func(cfg *config.Config) {
		if keys != nil {
			rebind(keys, cfg, d.log)
		}
		if onReload != nil {
			onReload(cfg)
		}
	}
	opts.Backend = platform.NewLinuxBackend(conn)

	d, err = New(opts)
	if err != nil {
		conn.Close()
		return err
	}
	keys = hotkeys.NewHandler(conn.XUtil, conn.Root, d.log, d.Fire)
	rebind(keys, d.cfg, d.log)
	d.Events().Connect(conn, d.Post)

	runErr := make(chan error, 1)
	go func() { runErr <- d.Run(ctx) }()
	d.Events().Adopt(conn, d.Post)

	xDone := make(chan struct{})
	go func() {
		defer close(xDone)
		conn.EventLoop()
	}()

	err = <-runErr
	conn.Quit()
	select {
	case <-xDone:
	case <-time.After(time.Second):
		d.log.Warn("X event loop did not stop")
	}
	conn.Close()
	return err
}

// rebind replaces every key grab with the configured bindings.
func rebind(keys *hotkeys.Handler, cfg *config.Config, logger *slog.Logger) {
	keys.Reset()
	bindings, err := hotkeys.Bindings(cfg.Keybinds)
	if err != nil {
		logger.Warn("invalid keybinds", "error", err)
		return
	}
	if err := keys.Register(bindings); err != nil {
		logger.Warn("some keybinds were not registered", "error", err)
	}
}
