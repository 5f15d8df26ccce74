package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/ipc"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the flags shared by every subcommand.
type app struct {
	verbose    bool
	socketPath string
	configPath string

	logger *charmlog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "tagtile",
		Short:         "tagtile is a tag based tiling window manager for X11",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if a.verbose {
				level = charmlog.DebugLevel
			}
			a.logger = newLogger(cmd.ErrOrStderr(), level)
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.socketPath, "socket", "", "daemon socket path (default: $XDG_RUNTIME_DIR/tagtile-<display>.sock)")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file path (default: ~/.config/tagtile/config.yaml)")

	root.AddCommand(
		a.newDaemonCmd(),
		a.newStatusCmd(),
		a.newTagsCmd(),
		a.newLayoutCmd(),
		a.newDispatchCmd(),
		a.newReloadCmd(),
		a.newBarCmd(),
		a.newPaletteCmd(),
		a.newConfigCmd(),
		a.newMCPCmd(),
	)
	return root
}

func newLogger(w io.Writer, level charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "tagtile",
	})
}

// slogger returns a structured logger backed by the charm handler.
func (a *app) slogger() *slog.Logger {
	if a.logger == nil {
		a.logger = newLogger(os.Stderr, charmlog.InfoLevel)
	}
	return slog.New(a.logger)
}

// applyLogLevel honours the config log level unless --verbose was given.
func (a *app) applyLogLevel(cfg *config.Config) {
	if a.verbose || a.logger == nil {
		return
	}
	if lvl, err := charmlog.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil {
		a.logger.SetLevel(lvl)
	}
}

func (a *app) client() *ipc.Client {
	if a.socketPath != "" {
		return ipc.NewClientAt(a.socketPath)
	}
	return ipc.NewClient()
}

func (a *app) loadConfig() (*config.LoadResult, error) {
	if a.configPath == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(a.configPath)
}
