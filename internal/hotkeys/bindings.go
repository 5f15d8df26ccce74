package hotkeys

import (
	"fmt"
	"slices"
	"strings"

	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/config"
)

// Binding is a key sequence resolved to an action.
type Binding struct {
	Key    string
	Action command.Action
	Arg    string
}

// Bindings resolves configured keybinds. A key bound twice keeps the last
// binding, so user keybinds can override the defaults.
func Bindings(kbs []config.Keybind) ([]Binding, error) {
	out := make([]Binding, 0, len(kbs))
	index := make(map[string]int, len(kbs))
	for i, kb := range kbs {
		key := strings.TrimSpace(kb.Key)
		if key == "" {
			return nil, fmt.Errorf("keybind %d: key is required", i+1)
		}
		a, err := command.ParseAction(kb.Action)
		if err != nil {
			return nil, fmt.Errorf("keybind %q: %w", key, err)
		}
		b := Binding{Key: key, Action: a, Arg: kb.Arg}
		if j, ok := index[key]; ok {
			out[j] = b
			continue
		}
		index[key] = len(out)
		out = append(out, b)
	}
	return out, nil
}

// ignoreMasks returns every combination of the lock modifiers, including
// none, so bindings fire with CapsLock or NumLock on.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	out := make([]uint16, 0, len(unique))
	for mask := range unique {
		out = append(out, mask)
	}
	slices.Sort(out)
	return out
}
