package config

import (
	"fmt"

	"github.com/1broseidon/tagtile/internal/layout"
)

// BuiltinLayouts returns one generated layout per builtin algorithm, named
// after the algorithm.
//
// These are always available without defining them in YAML. A user layout
// with the same name replaces the builtin.
func BuiltinLayouts() map[string]LayoutDef {
	out := make(map[string]LayoutDef, len(layout.Algorithms))
	for _, algo := range layout.Algorithms {
		out[string(algo)] = LayoutDef{Generator: string(algo)}
	}
	return out
}

// DefaultKeybinds binds Mod4 shortcuts for the first tags and the common
// actions.
func DefaultKeybinds(tags int) []Keybind {
	if tags > 9 {
		tags = 9
	}
	var out []Keybind
	for i := 1; i <= tags; i++ {
		n := fmt.Sprint(i)
		out = append(out,
			Keybind{Key: "Mod4-" + n, Action: "tag_set", Arg: n},
			Keybind{Key: "Mod4-Shift-" + n, Action: "tag_client", Arg: n},
		)
	}
	return append(out,
		Keybind{Key: "Mod4-Right", Action: "tag_next"},
		Keybind{Key: "Mod4-Left", Action: "tag_prev"},
		Keybind{Key: "Mod4-space", Action: "layout_next"},
		Keybind{Key: "Mod4-Shift-space", Action: "layout_prev"},
		Keybind{Key: "Mod4-j", Action: "client_next"},
		Keybind{Key: "Mod4-k", Action: "client_prev"},
		Keybind{Key: "Mod4-Shift-j", Action: "client_swap_next"},
		Keybind{Key: "Mod4-Shift-k", Action: "client_swap_prev"},
		Keybind{Key: "Mod4-f", Action: "client_free"},
		Keybind{Key: "Mod4-t", Action: "client_tab_next"},
		Keybind{Key: "Mod4-Shift-t", Action: "client_untab"},
		Keybind{Key: "Mod4-Shift-c", Action: "client_close"},
		Keybind{Key: "Mod4-period", Action: "screen_next"},
		Keybind{Key: "Mod4-comma", Action: "screen_prev"},
		Keybind{Key: "Mod4-b", Action: "bar_toggle"},
		Keybind{Key: "Mod4-Shift-r", Action: "reload"},
		Keybind{Key: "Mod4-Shift-q", Action: "quit"},
	)
}
