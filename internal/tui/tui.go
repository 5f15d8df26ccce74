// Package tui is the interactive layout browser. It previews every layout
// of the catalog and, with a daemon running, applies layouts and switches
// tags.
package tui

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when stdin or stdout is not a TTY.
var ErrNotTerminal = errors.New("tui requires an interactive terminal (stdin/stdout must be TTYs)")

// Options configures Run.
type Options struct {
	// Source provides layouts and previews. Required.
	Source Source
	// Control drives the daemon. Nil runs the browser offline.
	Control Controller
	// Initial selects a layout by name.
	Initial string
	// Clients is the number of clients previewed; zero means three.
	Clients int
}

// Run starts the TUI and blocks until the user quits.
func Run(opts Options) error {
	if opts.Source == nil {
		return errors.New("tui: no layout source")
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}

	m := newModel(opts)
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
		m = updated.(model)
	}

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
