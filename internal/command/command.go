// Package command maps user actions to core operations.
package command

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/1broseidon/tagtile/internal/wm"
)

// Action is one of the closed set of user actions.
type Action int

const (
	TagSet Action = iota
	TagNext
	TagPrev
	TagClient
	TagAdd
	TagDel
	LayoutSet
	LayoutNext
	LayoutPrev
	ClientNext
	ClientPrev
	ClientFree
	ClientSwapNext
	ClientSwapPrev
	ClientTabNext
	ClientUntab
	ClientClose
	ScreenNext
	ScreenPrev
	BarToggle
	Status
	Reload
	Quit
)

var actionNames = map[Action]string{
	TagSet:         "tag_set",
	TagNext:        "tag_next",
	TagPrev:        "tag_prev",
	TagClient:      "tag_client",
	TagAdd:         "tag_add",
	TagDel:         "tag_del",
	LayoutSet:      "layout_set",
	LayoutNext:     "layout_next",
	LayoutPrev:     "layout_prev",
	ClientNext:     "client_next",
	ClientPrev:     "client_prev",
	ClientFree:     "client_free",
	ClientSwapNext: "client_swap_next",
	ClientSwapPrev: "client_swap_prev",
	ClientTabNext:  "client_tab_next",
	ClientUntab:    "client_untab",
	ClientClose:    "client_close",
	ScreenNext:     "screen_next",
	ScreenPrev:     "screen_prev",
	BarToggle:      "bar_toggle",
	Status:         "status",
	Reload:         "reload",
	Quit:           "quit",
}

var actionsByName = func() map[string]Action {
	m := make(map[string]Action, len(actionNames))
	for a, n := range actionNames {
		m[n] = a
	}
	return m
}()

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ErrUnknownAction is returned for names outside the action set.
var ErrUnknownAction = errors.New("unknown action")

// ParseAction resolves an action name.
func ParseAction(name string) (Action, error) {
	a, ok := actionsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownAction, name)
	}
	return a, nil
}

// Names returns every action name, sorted.
func Names() []string {
	out := make([]string, 0, len(actionNames))
	for _, n := range actionNames {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Manager is the part of the core the dispatcher drives. *wm.WM satisfies it.
type Manager interface {
	SelectedScreen() wm.ScreenID
	CurrentTag() wm.TagID
	Focused() wm.ClientID
	Tag(id wm.TagID) (*wm.Tag, bool)

	SelectTag(screen wm.ScreenID, id wm.TagID) error
	CycleTag(screen wm.ScreenID, delta int) error
	TagByIndex(screen wm.ScreenID, i int) (wm.TagID, error)
	TagByName(screen wm.ScreenID, name string) (wm.TagID, error)
	AddTag(screen wm.ScreenID, name string) (wm.TagID, error)
	RemoveTag(id wm.TagID) error
	Retag(id wm.ClientID, tag wm.TagID) error

	SetLayout(tag wm.TagID, name string) error
	CycleLayout(tag wm.TagID, delta int) error

	FocusNext(delta int) (wm.ClientID, error)
	ToggleFree(id wm.ClientID) error
	SwapWithNext(id wm.ClientID, delta int) error
	TabInto(id, master wm.ClientID) error
	Untab(id wm.ClientID) error

	CycleScreen(delta int) error
}

var _ Manager = (*wm.WM)(nil)

// Hooks are the actions that leave the core: closing windows, the bar,
// status text and the daemon lifecycle. Nil hooks make their action fail.
type Hooks struct {
	Close     func(wm.ClientID) error
	ToggleBar func() error
	Status    func(text string) error
	Reload    func() error
	Quit      func() error
}

// ErrNoHook is returned when an action needs a hook that was not set.
var ErrNoHook = errors.New("action not available")

// Dispatcher runs actions against a Manager.
type Dispatcher struct {
	m     Manager
	hooks Hooks
}

// NewDispatcher binds a dispatcher to the core and hooks.
func NewDispatcher(m Manager, hooks Hooks) *Dispatcher {
	return &Dispatcher{m: m, hooks: hooks}
}

// DispatchName parses name and dispatches it.
func (d *Dispatcher) DispatchName(name, arg string) error {
	a, err := ParseAction(name)
	if err != nil {
		return err
	}
	return d.Dispatch(a, arg)
}

// Dispatch runs one action. arg is the single opaque argument; actions
// that take none ignore it.
func (d *Dispatcher) Dispatch(a Action, arg string) error {
	arg = strings.TrimSpace(arg)
	screen := d.m.SelectedScreen()
	tag := d.m.CurrentTag()
	focused := d.m.Focused()

	switch a {
	case TagSet:
		id, err := d.resolveTag(screen, arg)
		if err != nil {
			return err
		}
		return d.m.SelectTag(screen, id)
	case TagNext:
		return d.m.CycleTag(screen, 1)
	case TagPrev:
		return d.m.CycleTag(screen, -1)
	case TagClient:
		if focused == wm.NoClient {
			return nil
		}
		id, err := d.resolveTag(screen, arg)
		if err != nil {
			return err
		}
		return d.m.Retag(focused, id)
	case TagAdd:
		if arg == "" {
			return fmt.Errorf("%s: tag name required", a)
		}
		_, err := d.m.AddTag(screen, arg)
		return err
	case TagDel:
		id := tag
		if arg != "" {
			var err error
			if id, err = d.resolveTag(screen, arg); err != nil {
				return err
			}
		}
		return d.m.RemoveTag(id)
	case LayoutSet:
		if arg == "" {
			return fmt.Errorf("%s: layout name required", a)
		}
		return d.m.SetLayout(tag, arg)
	case LayoutNext:
		return d.m.CycleLayout(tag, 1)
	case LayoutPrev:
		return d.m.CycleLayout(tag, -1)
	case ClientNext:
		_, err := d.m.FocusNext(1)
		return err
	case ClientPrev:
		_, err := d.m.FocusNext(-1)
		return err
	case ClientFree:
		return d.onFocused(focused, d.m.ToggleFree)
	case ClientSwapNext:
		return d.onFocused(focused, func(id wm.ClientID) error { return d.m.SwapWithNext(id, 1) })
	case ClientSwapPrev:
		return d.onFocused(focused, func(id wm.ClientID) error { return d.m.SwapWithNext(id, -1) })
	case ClientTabNext:
		return d.onFocused(focused, func(id wm.ClientID) error { return d.tabNext(tag, id) })
	case ClientUntab:
		return d.onFocused(focused, d.m.Untab)
	case ClientClose:
		if d.hooks.Close == nil {
			return fmt.Errorf("%s: %w", a, ErrNoHook)
		}
		return d.onFocused(focused, d.hooks.Close)
	case ScreenNext:
		return d.m.CycleScreen(1)
	case ScreenPrev:
		return d.m.CycleScreen(-1)
	case BarToggle:
		return call(a, d.hooks.ToggleBar)
	case Status:
		if d.hooks.Status == nil {
			return fmt.Errorf("%s: %w", a, ErrNoHook)
		}
		return d.hooks.Status(arg)
	case Reload:
		return call(a, d.hooks.Reload)
	case Quit:
		return call(a, d.hooks.Quit)
	}
	return fmt.Errorf("%w: %s", ErrUnknownAction, a)
}

func call(a Action, fn func() error) error {
	if fn == nil {
		return fmt.Errorf("%s: %w", a, ErrNoHook)
	}
	return fn()
}

func (d *Dispatcher) onFocused(id wm.ClientID, fn func(wm.ClientID) error) error {
	if id == wm.NoClient {
		return nil
	}
	return fn(id)
}

// resolveTag accepts a 1-based tag position, or a tag name.
func (d *Dispatcher) resolveTag(screen wm.ScreenID, arg string) (wm.TagID, error) {
	if arg == "" {
		return wm.NoTag, fmt.Errorf("tag argument required")
	}
	if n, err := strconv.Atoi(arg); err == nil {
		return d.m.TagByIndex(screen, n-1)
	}
	return d.m.TagByName(screen, arg)
}

// tabNext tabs the focused client into the next tiled member of its tag.
func (d *Dispatcher) tabNext(tagID wm.TagID, id wm.ClientID) error {
	t, ok := d.m.Tag(tagID)
	if !ok {
		return nil
	}
	members := t.Clients()
	idx := -1
	for i, c := range members {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	for step := 1; step < len(members); step++ {
		next := members[(idx+step)%len(members)]
		if next.Flags().Has(wm.FlagTabbed) || next.Flags().Has(wm.FlagFree) {
			continue
		}
		return d.m.TabInto(id, next.ID)
	}
	return nil
}
