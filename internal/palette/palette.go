// Package palette shows window manager actions in an external dmenu-style
// picker (rofi, fuzzel, wofi or dmenu) and returns the chosen one.
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the picker closes without a selection.
var ErrCancelled = errors.New("palette cancelled")

// Item is one row of the picker.
type Item struct {
	Label string
	// Action and Arg are dispatched when the row is chosen. Rows with a
	// submenu carry no action.
	Action string
	Arg    string
	Icon   string
	// Meta holds extra search keywords (rofi only).
	Meta     string
	IsHeader bool
	IsActive bool
	Submenu  []Item
}

// Selectable reports whether the row can be chosen.
func (i Item) Selectable() bool { return !i.IsHeader }

// Backend shows rows and returns the index of the chosen one.
type Backend interface {
	Show(prompt string, items []Item) (int, error)
	Name() string
}

// Backends lists the supported pickers in detection order.
var Backends = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// NewBackend returns the named picker. An empty name or "auto" picks the
// first one found in PATH.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		for _, n := range Backends {
			if _, err := exec.LookPath(n); err == nil {
				return newPicker(n, execRunner), nil
			}
		}
		return nil, fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(Backends, ", "))
	}
	for _, n := range Backends {
		if n != name {
			continue
		}
		if _, err := exec.LookPath(n); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", n)
		}
		return newPicker(n, execRunner), nil
	}
	return nil, fmt.Errorf("unknown palette backend %q (expected: auto, %s)", name, strings.Join(Backends, ", "))
}
