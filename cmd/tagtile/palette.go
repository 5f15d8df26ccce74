package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tagtile/internal/palette"
)

func (a *app) newPaletteCmd() *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Pick an action in rofi, fuzzel, wofi or dmenu",
		Long: `Open an action palette in an external picker and dispatch the choice
to the daemon. Bind it to a key with a hotkey daemon such as sxhkd.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := palette.NewBackend(backend)
			if err != nil {
				return err
			}
			client := a.client()
			tags, err := client.GetTags()
			if err != nil {
				return err
			}
			layouts, err := client.ListLayouts()
			if err != nil {
				return err
			}
			choice, err := palette.NewMenu(b, palette.Build(tags, layouts)).Show()
			if errors.Is(err, palette.ErrCancelled) {
				return nil
			}
			if err != nil {
				return err
			}
			a.logger.Debug("dispatching", "action", choice.Action, "arg", choice.Arg, "backend", b.Name())
			return client.Dispatch(choice.Action, choice.Arg)
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "auto", "picker: auto, rofi, fuzzel, wofi or dmenu")
	return cmd
}
