package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/wm"
)

type fakeSource struct {
	previews []string
	counts   []int
}

func (f *fakeSource) ListLayouts() (*ipc.LayoutsData, error) {
	return &ipc.LayoutsData{
		Layouts: []ipc.LayoutInfo{
			{Name: "float", Floating: true},
			{Name: "grid"},
			{Name: "tile"},
		},
		ActiveLayout: "tile",
	}, nil
}

func (f *fakeSource) PreviewLayout(name string, clients int) (*ipc.PreviewData, error) {
	f.previews = append(f.previews, name)
	f.counts = append(f.counts, clients)
	usable := geom.Rect{Width: 100, Height: 50}
	if name == "float" {
		return &ipc.PreviewData{Layout: name, Usable: usable}, nil
	}
	rects := make([]geom.Rect, clients)
	for i := range rects {
		rects[i] = usable
	}
	return &ipc.PreviewData{Layout: name, Usable: usable, Rects: rects, Shared: max(clients-1, 0)}, nil
}

type dispatched struct{ action, arg string }

type fakeController struct {
	calls []dispatched
	err   error
	tags  *ipc.TagsData
}

func (f *fakeController) GetTags() (*ipc.TagsData, error) { return f.tags, nil }

func (f *fakeController) Dispatch(action, arg string) error {
	f.calls = append(f.calls, dispatched{action, arg})
	return f.err
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sized(t *testing.T, lt LayoutsTab) LayoutsTab {
	t.Helper()
	lt, _ = lt.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return lt
}

func TestSummarizePreview(t *testing.T) {
	tests := []struct {
		name string
		p    *ipc.PreviewData
		want string
	}{
		{"nil", nil, ""},
		{"floating", &ipc.PreviewData{}, "floating • clients keep their own geometry"},
		{
			"uniform",
			&ipc.PreviewData{Rects: []geom.Rect{{Width: 960, Height: 1062}, {X: 960, Width: 960, Height: 1062}}},
			"2 clients • 960×1062 px each",
		},
		{
			"mixed",
			&ipc.PreviewData{Rects: []geom.Rect{{Width: 1056, Height: 1062}, {Width: 864, Height: 531}, {Width: 864, Height: 531}}},
			"3 clients • min 864×531 • max 1056×1062",
		},
		{
			"shared",
			&ipc.PreviewData{Rects: []geom.Rect{{Width: 10, Height: 10}, {Width: 10, Height: 10}}, Shared: 1},
			"2 clients • 10×10 px each • 1 shared",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summarizePreview(tt.p); got != tt.want {
				t.Fatalf("summarizePreview = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderASCIIPreview(t *testing.T) {
	p := &ipc.PreviewData{
		Usable: geom.Rect{Y: 18, Width: 200, Height: 100},
		Rects: []geom.Rect{
			{X: 0, Y: 18, Width: 100, Height: 100},
			{X: 100, Y: 18, Width: 100, Height: 100},
		},
	}
	lines := renderASCIIPreview(p, 40, 12)
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if n := len([]rune(line)); n != 40 {
			t.Fatalf("line %d has width %d", i, n)
		}
	}
	if !strings.HasPrefix(lines[0], "╔") || !strings.HasSuffix(lines[11], "╝") {
		t.Fatalf("missing outer border:\n%s", strings.Join(lines, "\n"))
	}
	all := strings.Join(lines, "\n")
	for _, label := range []string{"1", "2"} {
		if !strings.Contains(all, label) {
			t.Fatalf("tile %s not drawn:\n%s", label, all)
		}
	}
	// The left tile sits left of the right tile on the middle row.
	mid := lines[5]
	if strings.IndexRune(mid, '1') > strings.IndexRune(mid, '2') {
		t.Fatalf("tiles out of order: %q", mid)
	}
}

func TestRenderASCIIPreviewTooSmall(t *testing.T) {
	p := &ipc.PreviewData{Usable: geom.Rect{Width: 10, Height: 10}}
	lines := renderASCIIPreview(p, 4, 2)
	if diff := cmp.Diff([]string{"    ", "    "}, lines); diff != "" {
		t.Fatalf("unexpected canvas (-want +got):\n%s", diff)
	}
}

func TestConfigSourcePreview(t *testing.T) {
	src, err := NewConfigSource(config.DefaultConfig(), DefaultScreen)
	if err != nil {
		t.Fatalf("NewConfigSource: %v", err)
	}

	data, err := src.ListLayouts()
	if err != nil {
		t.Fatalf("ListLayouts: %v", err)
	}
	if data.ActiveLayout != "tile" {
		t.Fatalf("expected active tile, got %q", data.ActiveLayout)
	}
	if diff := cmp.Diff([]string{"tile", "monocle", "float"}, data.DefaultLayouts); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}

	p, err := src.PreviewLayout("", 2)
	if err != nil {
		t.Fatalf("PreviewLayout: %v", err)
	}
	usable := geom.Rect{X: 0, Y: 18, Width: 1920, Height: 1062}
	if p.Layout != "tile" || p.Usable != usable || len(p.Rects) != 2 {
		t.Fatalf("unexpected preview: %+v", p)
	}
	for _, r := range p.Rects {
		if r.Intersect(usable) != r {
			t.Fatalf("rect %s escapes %s", r, usable)
		}
	}

	mono, err := src.PreviewLayout("monocle", 3)
	if err != nil {
		t.Fatalf("PreviewLayout monocle: %v", err)
	}
	if len(mono.Rects) != 3 || mono.Shared != 2 {
		t.Fatalf("expected 3 stacked rects with 2 shared, got %+v", mono)
	}

	if _, err := src.PreviewLayout("nope", 1); err == nil {
		t.Fatal("expected unknown layout error")
	}
	if _, err := src.PreviewLayout("tile", -1); err == nil {
		t.Fatal("expected negative clients error")
	}
}

func TestConfigSourceBottomAndHiddenBar(t *testing.T) {
	tests := []struct {
		position string
		want     geom.Rect
	}{
		{"bottom", geom.Rect{Width: 1920, Height: 1062}},
		{"hidden", geom.Rect{Width: 1920, Height: 1080}},
	}
	for _, tt := range tests {
		t.Run(tt.position, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Bar.Position = tt.position
			src, err := NewConfigSource(cfg, DefaultScreen)
			if err != nil {
				t.Fatalf("NewConfigSource: %v", err)
			}
			p, err := src.PreviewLayout("monocle", 1)
			if err != nil {
				t.Fatalf("PreviewLayout: %v", err)
			}
			if p.Usable != tt.want {
				t.Fatalf("usable = %s, want %s", p.Usable, tt.want)
			}
		})
	}
}

func TestLayoutsTabKeys(t *testing.T) {
	src := &fakeSource{}
	ctl := &fakeController{}
	lt := sized(t, NewLayoutsTab(src, ctl, "", 0))

	if got := lt.selectedName(); got != "tile" {
		t.Fatalf("expected the active layout selected, got %q", got)
	}
	if lt.clients != 3 {
		t.Fatalf("expected default of 3 clients, got %d", lt.clients)
	}

	lt, _ = lt.Update(key("5"))
	if lt.clients != 5 || len(lt.preview.Rects) != 5 {
		t.Fatalf("expected 5 previewed clients, got %d / %+v", lt.clients, lt.preview)
	}
	lt, _ = lt.Update(key("-"))
	lt, _ = lt.Update(key("-"))
	if lt.clients != 3 {
		t.Fatalf("expected 3 clients after two decrements, got %d", lt.clients)
	}
	lt, _ = lt.Update(key("+"))
	if lt.clients != 4 {
		t.Fatalf("expected 4 clients, got %d", lt.clients)
	}

	lt, _ = lt.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := lt.selectedName(); got != "grid" {
		t.Fatalf("expected grid after moving up, got %q", got)
	}
	if last := src.previews[len(src.previews)-1]; last != "grid" {
		t.Fatalf("expected preview of grid, got %q", last)
	}

	lt, cmd := lt.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a status clearing command")
	}
	if diff := cmp.Diff([]dispatched{{"layout_set", "grid"}}, ctl.calls, cmp.AllowUnexported(dispatched{})); diff != "" {
		t.Fatalf("dispatch mismatch (-want +got):\n%s", diff)
	}
	if lt.active != "grid" || lt.statusErr {
		t.Fatalf("expected grid active without error, got %q (%q)", lt.active, lt.statusText)
	}
	if !strings.Contains(lt.View(), "grid  [4 clients]") {
		t.Fatalf("view lacks preview title:\n%s", lt.View())
	}
}

func TestLayoutsTabInitialAndOffline(t *testing.T) {
	lt := sized(t, NewLayoutsTab(&fakeSource{}, nil, "float", 2))
	if got := lt.selectedName(); got != "float" {
		t.Fatalf("expected float selected, got %q", got)
	}
	if !strings.Contains(lt.View(), "floating") {
		t.Fatalf("view lacks floating summary:\n%s", lt.View())
	}

	lt, _ = lt.Update(key("a"))
	if lt.statusText != "daemon not connected" || !lt.statusErr {
		t.Fatalf("expected offline error, got %q", lt.statusText)
	}
	lt, _ = lt.Update(clearStatusMsg{})
	if lt.statusText != "" {
		t.Fatalf("expected status cleared, got %q", lt.statusText)
	}
}

func TestLayoutsTabDispatchError(t *testing.T) {
	ctl := &fakeController{err: errors.New("boom")}
	lt := sized(t, NewLayoutsTab(&fakeSource{}, ctl, "", 1))
	lt, _ = lt.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !lt.statusErr || !strings.Contains(lt.statusText, "boom") {
		t.Fatalf("expected dispatch error, got %q", lt.statusText)
	}
	if lt.active != "tile" {
		t.Fatalf("active layout changed on error: %q", lt.active)
	}
}

func testTags() *ipc.TagsData {
	return &ipc.TagsData{
		Screens: []wm.ScreenInfo{{
			ID:       0,
			Selected: true,
			Usable:   geom.Rect{Y: 18, Width: 1920, Height: 1062},
			Tags: []wm.TagInfo{
				{Name: "1", Index: 0, Selected: true, Layout: "tile"},
				{Name: "web", Index: 1, Layout: "monocle"},
				{Name: "3", Index: 2, Layout: "tile"},
			},
		}},
		Focused: 7,
	}
}

func TestTagsTabViewsSelectedTag(t *testing.T) {
	ctl := &fakeController{tags: testTags()}
	tt := NewTagsTab(ctl)

	tt, _ = tt.Update(key("j"))
	tt, _ = tt.Update(tea.KeyMsg{Type: tea.KeyDown})
	tt, _ = tt.Update(tea.KeyMsg{Type: tea.KeyDown})
	if tt.cursor != 2 {
		t.Fatalf("cursor should stop at the last tag, got %d", tt.cursor)
	}
	tt, _ = tt.Update(key("k"))

	tt, _ = tt.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if diff := cmp.Diff([]dispatched{{"tag_set", "2"}}, ctl.calls, cmp.AllowUnexported(dispatched{})); diff != "" {
		t.Fatalf("dispatch mismatch (-want +got):\n%s", diff)
	}
	if tt.statusText != "viewing web" {
		t.Fatalf("unexpected status %q", tt.statusText)
	}
	if view := tt.View(); !strings.Contains(view, "web") || !strings.Contains(view, "focused:7") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestTagsTabOffline(t *testing.T) {
	tt := NewTagsTab(nil)
	tt, _ = tt.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if tt.statusText != "daemon not connected" {
		t.Fatalf("expected offline error, got %q", tt.statusText)
	}
	if !strings.Contains(tt.View(), "start the daemon") {
		t.Fatalf("unexpected view: %q", tt.View())
	}
}

func TestModelSwitchesTabsAndQuits(t *testing.T) {
	m := newModel(Options{Source: &fakeSource{}, Control: &fakeController{tags: testTags()}})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(model)
	if m.activeTab != TabTags {
		t.Fatalf("expected tags tab, got %v", m.activeTab)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(model)
	if m.activeTab != TabTags {
		t.Fatalf("expected shift-tab to wrap to tags, got %v", m.activeTab)
	}
	if !strings.Contains(m.View(), "daemon connected") {
		t.Fatalf("view lacks status bar:\n%s", m.View())
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}
