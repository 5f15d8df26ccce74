package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/tagtile/internal/bar"
	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/theme"
	"github.com/1broseidon/tagtile/internal/wm"
)

func (a *app) newBarCmd() *cobra.Command {
	var (
		plain bool
		watch time.Duration
	)
	cmd := &cobra.Command{
		Use:   "bar",
		Short: "Print the bar of the selected screen",
		Long: `Print the bar line of the selected screen using the configured
elements and theme. Output is colored on a terminal and plain otherwise,
so it can feed an external status bar. --watch repeats it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.loadConfig()
			if err != nil {
				return err
			}
			client := a.client()
			fd := int(os.Stdout.Fd())
			color := !plain && term.IsTerminal(fd)

			for {
				b, err := barFromDaemon(res.Config, client)
				if err != nil {
					return err
				}
				line := b.Plain()
				if color {
					width, _, err := term.GetSize(fd)
					if err != nil {
						width = 0
					}
					line = "\r" + b.Render(width)
				}
				if color && watch > 0 {
					fmt.Fprint(cmd.OutOrStdout(), line)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				if watch <= 0 {
					return nil
				}
				select {
				case <-cmd.Context().Done():
					fmt.Fprintln(cmd.OutOrStdout())
					return nil
				case <-time.After(watch):
				}
			}
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "never use colors")
	cmd.Flags().DurationVar(&watch, "watch", 0, "refresh interval (0 prints once)")
	return cmd
}

// barFromDaemon fills a bar with the current topology and status.
func barFromDaemon(cfg *config.Config, client *ipc.Client) (*bar.Infobar, error) {
	tags, err := client.GetTags()
	if err != nil {
		return nil, err
	}
	st, err := client.GetStatus()
	if err != nil {
		return nil, err
	}
	return buildBar(cfg, tags, st)
}

func buildBar(cfg *config.Config, tags *ipc.TagsData, st *ipc.StatusData) (*bar.Infobar, error) {
	themes := theme.NewRegistry()
	if err := cfg.RegisterThemes(themes); err != nil {
		return nil, err
	}
	th, _ := themes.Acquire(cfg.DefaultTheme)
	b, err := bar.New(bar.Options{
		Position: bar.Top,
		Height:   cfg.Bar.Height,
		Elements: cfg.Bar.Elements,
		Theme:    th,
	})
	if err != nil {
		return nil, err
	}
	var screen wm.ScreenInfo
	for _, s := range tags.Screens {
		if s.Selected {
			screen = s
			break
		}
	}
	b.Apply(screen, st.FocusedTitle)
	b.SetStatus(st.BarStatus)
	return b, nil
}
