// Package theme keeps the shared, reference-counted visual themes.
package theme

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// DefaultName is the theme used when a name is unknown.
const DefaultName = "default"

// Color is a 24-bit RGB value.
type Color uint32

// ParseColor parses "#rrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q: expected #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return Color(v), nil
}

// Hex formats c as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c))
}

// Pair is a foreground/background color pair.
type Pair struct {
	FG Color
	BG Color
}

// Theme is immutable once registered.
type Theme struct {
	Name string

	Bar         Pair
	BarHeight   int
	TagNormal   Pair
	TagSelected Pair
	TagBorder   Color

	ClientNormal   Pair
	ClientSelected Pair
	FrameBG        Color

	TitlebarHeight int
	BorderWidth    int
}

// Default returns the builtin theme.
func Default() Theme {
	return Theme{
		Name:           DefaultName,
		Bar:            Pair{FG: 0xd0d0d0, BG: 0x1c1c1c},
		BarHeight:      18,
		TagNormal:      Pair{FG: 0x808080, BG: 0x1c1c1c},
		TagSelected:    Pair{FG: 0xffffff, BG: 0x3465a4},
		TagBorder:      0x3465a4,
		ClientNormal:   Pair{FG: 0x808080, BG: 0x262626},
		ClientSelected: Pair{FG: 0xffffff, BG: 0x3465a4},
		FrameBG:        0x1c1c1c,
		TitlebarHeight: 0,
		BorderWidth:    1,
	}
}

type entry struct {
	theme   *Theme
	refs    int
	retired bool
}

// Registry owns registered themes. Holders Acquire a theme and Release
// it when done; a retired theme stays valid until its last holder releases.
type Registry struct {
	mu      sync.Mutex
	byName  map[string]*entry
	byTheme map[*Theme]*entry
}

// NewRegistry returns a registry holding the builtin default theme.
func NewRegistry() *Registry {
	r := &Registry{
		byName:  make(map[string]*entry),
		byTheme: make(map[*Theme]*entry),
	}
	r.Register(Default())
	return r
}

// Register adds t, replacing any live theme of the same name. The replaced
// theme is retired, so current holders keep their copy.
func (r *Registry) Register(t Theme) *Theme {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byName[t.Name]; ok {
		r.retireLocked(old)
	}
	th := t
	e := &entry{theme: &th}
	r.byName[t.Name] = e
	r.byTheme[e.theme] = e
	return e.theme
}

// Acquire returns the theme registered as name and takes a reference.
// Unknown names resolve to the default theme and report false.
func (r *Registry) Acquire(name string) (*Theme, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := true
	e, ok := r.byName[name]
	if !ok {
		found = false
		e = r.byName[DefaultName]
	}
	e.refs++
	return e.theme, found
}

// Release drops a reference taken by Acquire.
func (r *Registry) Release(t *Theme) {
	if t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byTheme[t]
	if !ok || e.refs == 0 {
		return
	}
	e.refs--
	if e.retired && e.refs == 0 {
		delete(r.byTheme, t)
	}
}

// Retire removes name from lookup. The default theme cannot be retired.
func (r *Registry) Retire(name string) bool {
	if name == DefaultName {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byName[name]
	if !ok {
		return false
	}
	r.retireLocked(e)
	return true
}

func (r *Registry) retireLocked(e *entry) {
	delete(r.byName, e.theme.Name)
	e.retired = true
	if e.refs == 0 {
		delete(r.byTheme, e.theme)
	}
}

// Refs returns the number of live references to t.
func (r *Registry) Refs(t *Theme) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.byTheme[t]; ok {
		return e.refs
	}
	return 0
}

// Alive reports whether t is still registered or still held.
func (r *Registry) Alive(t *Theme) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byTheme[t]
	return ok
}

// Names returns the live theme names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
