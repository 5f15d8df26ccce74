package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tagtile/internal/daemon"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/metrics"
	"github.com/1broseidon/tagtile/internal/runtimepath"
)

func (a *app) newDaemonCmd() *cobra.Command {
	var (
		display string
		noWatch bool
	)
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the window manager (foreground)",
		Long: `Run the window manager on the X display.

SIGHUP reloads the configuration; SIGINT and SIGTERM shut down and map
every hidden window again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.loadConfig()
			if err != nil {
				return err
			}
			a.applyLogLevel(res.Config)
			logger := a.slogger()
			if display == "" {
				display = res.Config.Display
			}

			socket := a.socketPath
			if socket == "" {
				if socket, err = runtimepath.SocketPath(display); err != nil {
					return err
				}
			}
			pidPath, err := runtimepath.PIDPath(display)
			if err != nil {
				return err
			}
			logger.Info("configuration loaded", "tags", len(res.Config.Tags), "files", len(res.Files))

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go reloadOnHangup(ctx, ipc.NewClientAt(socket), a)

			return daemon.RunX(ctx, daemon.Options{
				Config:     res.Config,
				ConfigPath: a.configPath,
				Logger:     logger,
				Metrics:    metrics.New(),
				SocketPath: socket,
				PIDPath:    pidPath,
				Watch:      !noWatch,
			}, display)
		},
	}
	cmd.Flags().StringVar(&display, "display", "", "X display (default: $DISPLAY)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload when the config file changes")
	return cmd
}

// reloadOnHangup asks the daemon to reload over its own socket on SIGHUP.
// The reload then runs on the daemon loop like any other request.
func reloadOnHangup(ctx context.Context, client *ipc.Client, a *app) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			a.logger.Info("received SIGHUP, reloading config")
			if err := client.Reload(); err != nil {
				a.logger.Error("config reload failed", "err", err)
			}
		}
	}
}
