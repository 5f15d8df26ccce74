// Package bar keeps the per-screen info bar model. It listens to core
// notifications, tracks what each element shows and reports the space it
// reserves on its screen. Pixel drawing happens elsewhere; Render produces
// a terminal line.
package bar

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagtile/internal/theme"
	"github.com/1broseidon/tagtile/internal/wm"
)

// Position is where the bar sits on its screen.
type Position int

const (
	Top Position = iota
	Bottom
	Hidden
)

// ParsePosition resolves "top", "bottom" or "hide".
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	case "hide", "hidden":
		return Hidden, nil
	}
	return Top, fmt.Errorf("unknown bar position %q", s)
}

func (p Position) String() string {
	switch p {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return "hide"
	}
}

// TagView is what the tags element knows about one tag.
type TagView struct {
	ID      wm.TagID
	Name    string
	Clients int
}

// State is the data elements render from.
type State struct {
	Tags     []TagView
	Selected wm.TagID
	Layout   string
	Title    string
	Status   string
}

// Options configures an Infobar.
type Options struct {
	Screen   wm.ScreenID
	Position Position
	Height   int
	Elements string
	Theme    *theme.Theme
}

// Infobar is the bar of one screen. It implements wm.Notifier.
type Infobar struct {
	mu       sync.Mutex
	screen   wm.ScreenID
	pos      Position
	shown    Position
	height   int
	elements []Element
	theme    *theme.Theme
	st       State
	onChange func()
}

// New builds a bar. The element order is resolved once here.
func New(opts Options) (*Infobar, error) {
	elems, err := ParseElements(opts.Elements)
	if err != nil {
		return nil, err
	}
	th := opts.Theme
	if th == nil {
		d := theme.Default()
		th = &d
	}
	h := opts.Height
	if h <= 0 {
		h = th.BarHeight
	}
	shown := opts.Position
	if shown == Hidden {
		shown = Top
	}
	return &Infobar{
		screen:   opts.Screen,
		pos:      opts.Position,
		shown:    shown,
		height:   h,
		elements: elems,
		theme:    th,
		st:       State{Selected: wm.NoTag},
	}, nil
}

// Screen returns the screen the bar belongs to.
func (b *Infobar) Screen() wm.ScreenID { return b.screen }

// OnChange registers a callback run after the bar state changed.
func (b *Infobar) OnChange(fn func()) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Elements returns the element kinds in display order.
func (b *Infobar) Elements() []Kind {
	out := make([]Kind, len(b.elements))
	for i, e := range b.elements {
		out[i] = e.Kind()
	}
	return out
}

// Position returns the current position.
func (b *Infobar) Position() Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pos
}

// Reserve returns the pixels the bar keeps free at the top and bottom.
func (b *Infobar) Reserve() (top, bottom int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.pos {
	case Top:
		return b.height, 0
	case Bottom:
		return 0, b.height
	}
	return 0, 0
}

// Toggle hides a visible bar or restores a hidden one to its last position.
func (b *Infobar) Toggle() Position {
	b.mu.Lock()
	if b.pos == Hidden {
		b.pos = b.shown
	} else {
		b.shown = b.pos
		b.pos = Hidden
	}
	pos := b.pos
	b.mu.Unlock()
	b.changed()
	return pos
}

// SetStatus replaces the status text.
func (b *Infobar) SetStatus(text string) {
	b.update(func(st *State) { st.Status = text })
}

// SetTags replaces the tag list.
func (b *Infobar) SetTags(tags []TagView) {
	b.update(func(st *State) { st.Tags = append([]TagView(nil), tags...) })
}

// Apply loads the bar state from a snapshot of its screen.
func (b *Infobar) Apply(s wm.ScreenInfo, title string) {
	b.update(func(st *State) {
		st.Tags = st.Tags[:0]
		for _, t := range s.Tags {
			st.Tags = append(st.Tags, TagView{ID: t.ID, Name: t.Name, Clients: len(t.Clients)})
			if t.Selected {
				st.Selected = t.ID
				st.Layout = t.Layout
			}
		}
		st.Title = title
	})
}

// State returns a copy of the bar state.
func (b *Infobar) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := b.st
	st.Tags = append([]TagView(nil), b.st.Tags...)
	return st
}

func (b *Infobar) LayoutChanged(ev wm.LayoutEvent) {
	if ev.Screen != b.screen {
		return
	}
	b.update(func(st *State) {
		for i := range st.Tags {
			if st.Tags[i].ID == ev.Tag {
				st.Tags[i].Clients = len(ev.Placements)
			}
		}
		if ev.Visible {
			st.Layout = ev.Layout
		}
	})
}

func (b *Infobar) SelectionChanged(ev wm.SelectionEvent) {
	if ev.Screen != b.screen {
		return
	}
	b.update(func(st *State) { st.Selected = ev.Tag })
}

func (b *Infobar) FocusChanged(ev wm.FocusEvent) {
	b.update(func(st *State) {
		if ev.Screen == b.screen {
			st.Title = ev.Title
		} else {
			st.Title = ""
		}
	})
}

func (b *Infobar) update(fn func(*State)) {
	b.mu.Lock()
	fn(&b.st)
	b.mu.Unlock()
	b.changed()
}

func (b *Infobar) changed() {
	b.mu.Lock()
	fn := b.onChange
	b.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Segments returns every element's segments in display order.
func (b *Infobar) Segments() [][]Segment {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]Segment, len(b.elements))
	for i, e := range b.elements {
		out[i] = e.Segments(&b.st)
	}
	return out
}

// Plain renders the bar without colors.
func (b *Infobar) Plain() string {
	var sb strings.Builder
	for _, segs := range b.Segments() {
		for _, s := range segs {
			text := s.Text
			if s.Selected {
				text = "*" + strings.TrimSpace(text) + "*"
				text = " " + text + " "
			}
			sb.WriteString(text)
		}
	}
	return sb.String()
}

// Render draws the bar as one terminal line of the given width using the
// bar theme colors. Hidden bars render empty.
func (b *Infobar) Render(width int) string {
	if b.Position() == Hidden {
		return ""
	}
	th := b.theme
	base := lipgloss.NewStyle().
		Foreground(color(th.Bar.FG)).
		Background(color(th.Bar.BG))
	normal := base.Foreground(color(th.TagNormal.FG)).Background(color(th.TagNormal.BG))
	occupied := normal.Bold(true)
	selected := base.Foreground(color(th.TagSelected.FG)).Background(color(th.TagSelected.BG)).Bold(true)

	var parts []string
	for _, segs := range b.Segments() {
		for _, s := range segs {
			style := base
			switch {
			case s.Selected:
				style = selected
			case s.Occupied:
				style = occupied
			}
			parts = append(parts, style.Render(s.Text))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if width > 0 {
		line = base.Width(width).MaxWidth(width).Render(line)
	}
	return line
}

func color(c theme.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
