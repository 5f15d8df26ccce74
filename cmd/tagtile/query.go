package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/tui"
)

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.client().GetStatus()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "daemon_running: %v\n", st.DaemonRunning)
			fmt.Fprintf(w, "screens:        %d\n", st.Screens)
			fmt.Fprintf(w, "current_tag:    %s\n", st.CurrentTag)
			fmt.Fprintf(w, "layout:         %s\n", st.Layout)
			fmt.Fprintf(w, "focused:        %d %s\n", st.Focused, st.FocusedTitle)
			fmt.Fprintf(w, "managed:        %d\n", st.Managed)
			fmt.Fprintf(w, "dying:          %d\n", st.Dying)
			fmt.Fprintf(w, "uptime_seconds: %d\n", st.UptimeSeconds)
			return nil
		},
	}
}

func (a *app) newTagsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List screens and their tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.client().GetTags()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), data)
			}
			printTags(cmd.OutOrStdout(), data)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printTags(w io.Writer, data *ipc.TagsData) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range data.Screens {
		mark := " "
		if s.Selected {
			mark = "*"
		}
		fmt.Fprintf(tw, "%sscreen %d\t%s\n", mark, s.ID, s.Usable)
		for _, t := range s.Tags {
			mark := " "
			if t.Selected {
				mark = "*"
			}
			fmt.Fprintf(tw, "  %s%d\t%s\t%s\t%d clients\n", mark, t.Index+1, t.Name, t.Layout, len(t.Clients))
		}
	}
	tw.Flush()
	fmt.Fprintf(w, "focused: %d  dying: %d\n", data.Focused, data.Dying)
}

func (a *app) newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect and preview layouts",
	}
	cmd.AddCommand(a.newLayoutListCmd(), a.newLayoutShowCmd(), a.newLayoutPreviewCmd())
	return cmd
}

func (a *app) newLayoutListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the layout catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, _, err := a.layoutSource()
			if err != nil {
				return err
			}
			data, err := src.ListLayouts()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), data)
			}
			printLayouts(cmd.OutOrStdout(), data)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printLayouts(w io.Writer, data *ipc.LayoutsData) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  NAME\tGAP\tCOUNTS")
	for _, l := range data.Layouts {
		mark := " "
		if l.Name == data.ActiveLayout {
			mark = "*"
		}
		counts := "float"
		if !l.Floating {
			counts = joinInts(l.Counts)
			if counts == "" {
				counts = "stacked"
			}
		}
		fmt.Fprintf(tw, "%s %s\t%d\t%s\n", mark, l.Name, l.Gap, counts)
	}
	tw.Flush()
	if len(data.DefaultLayouts) > 0 {
		fmt.Fprintf(w, "default cycle: %s\n", strings.Join(data.DefaultLayouts, " → "))
	}
}

func (a *app) newLayoutShowCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show [tag]",
		Short: "Show the clients and geometry of a tag",
		Long:  "Show a tag by name or 1-based position on the selected screen. Without an argument the current tag is shown.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := ""
			if len(args) == 1 {
				tag = args[0]
			}
			data, err := a.client().GetLayout(tag)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), data)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "tag %d %s  layout:%s  cycle:%s\n", data.Index+1, data.Name, data.Layout, strings.Join(data.Layouts, ","))
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			for _, c := range data.Clients {
				mark := " "
				if c.Selected {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s %d\t%s\t%s\t%s\t%s\n", mark, c.ID, c.Class, c.Geometry, c.State, c.Flags)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (a *app) newLayoutPreviewCmd() *cobra.Command {
	var clients int
	cmd := &cobra.Command{
		Use:   "preview [layout]",
		Short: "Browse layouts in an interactive preview",
		Long: `Browse the layout catalog in a terminal UI. With a running daemon the
preview uses the real usable area and enter applies the layout to the
current tag; otherwise the config file is previewed on a 1920x1080 screen.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, ctl, err := a.layoutSource()
			if err != nil {
				return err
			}
			opts := tui.Options{Source: src, Clients: clients}
			if ctl != nil {
				opts.Control = ctl
			}
			if len(args) == 1 {
				opts.Initial = args[0]
			}
			return tui.Run(opts)
		},
	}
	cmd.Flags().IntVarP(&clients, "clients", "n", 3, "number of clients to preview")
	return cmd
}

// layoutSource prefers the running daemon and falls back to the config
// file. The client is nil in the fallback case.
func (a *app) layoutSource() (tui.Source, *ipc.Client, error) {
	client := a.client()
	if err := client.Ping(); err == nil {
		return client, client, nil
	}
	res, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	src, err := tui.NewConfigSource(res.Config, tui.DefaultScreen)
	if err != nil {
		return nil, nil, err
	}
	return src, nil, nil
}

func (a *app) newDispatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch <action> [arg]",
		Short: "Run a window manager action",
		Long: `Run an action on the daemon, e.g.

  tagtile dispatch tag_set 3
  tagtile dispatch layout_next
  tagtile dispatch status "$(date +%H:%M)"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 2 {
				arg = args[1]
			}
			return a.client().Dispatch(args[0], arg)
		},
	}
}

func (a *app) newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the daemon configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client().Reload(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config: reloaded")
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ",")
}
