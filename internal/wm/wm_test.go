package wm

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/hints"
	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/rules"
	"github.com/1broseidon/tagtile/internal/theme"
)

var fullHD = geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

type fixture struct {
	wm     *WM
	rec    *Recorder
	screen ScreenID
	tag    TagID
}

type fixtureOpt func(*Options)

func withRules(rs ...rules.Rule) fixtureOpt {
	return func(o *Options) {
		e, err := rules.NewEngine(rs)
		if err != nil {
			panic(err)
		}
		o.Rules = e
	}
}

func withDefaultLayouts(names ...string) fixtureOpt {
	return func(o *Options) {
		o.DefaultLayouts = names
	}
}

func withTitlebar(height int) fixtureOpt {
	return func(o *Options) {
		reg := theme.NewRegistry()
		th := theme.Default()
		th.TitlebarHeight = height
		reg.Register(th)
		o.Themes = reg
	}
}

func testCatalog(t *testing.T) *layout.Catalog {
	t.Helper()
	halves := layout.Set{
		Name: "halves",
		Partitions: []layout.Partition{
			{{X: 0, Y: 0, W: 0.5, H: 1}, {X: 0.5, Y: 0, W: 0.5, H: 1}},
		},
	}
	float := layout.Set{Name: "float", Floating: true}
	cols, err := layout.Generate("columns", layout.AlgoColumns, layout.GenerateOptions{})
	if err != nil {
		t.Fatalf("generate columns: %v", err)
	}
	cat, err := layout.NewCatalog(halves, float, cols)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func newFixture(t *testing.T, opts ...fixtureOpt) *fixture {
	t.Helper()
	rec := &Recorder{}
	o := Options{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Layouts:        testCatalog(t),
		DefaultLayouts: []string{"halves", "float", "columns"},
		Notifier:       rec,
	}
	for _, opt := range opts {
		opt(&o)
	}
	w := New(o)
	s := w.AddScreen(fullHD)
	tag, err := w.AddTag(s, "1")
	if err != nil {
		t.Fatalf("add tag: %v", err)
	}
	return &fixture{wm: w, rec: rec, screen: s, tag: tag}
}

func (f *fixture) manage(t *testing.T, id ClientID, class string) *Client {
	t.Helper()
	return f.manageReq(t, ManageRequest{Window: id, Attrs: rules.Attrs{Class: class}, Screen: NoScreen})
}

func (f *fixture) manageReq(t *testing.T, req ManageRequest) *Client {
	t.Helper()
	c, err := f.wm.Manage(req)
	if err != nil {
		t.Fatalf("manage %d: %v", req.Window, err)
	}
	return c
}

func (f *fixture) memberIDs(t *testing.T, tag TagID) []ClientID {
	t.Helper()
	tg, ok := f.wm.Tag(tag)
	if !ok {
		t.Fatalf("tag %d not found", tag)
	}
	var ids []ClientID
	for _, c := range tg.Clients() {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestLeftRightHalvesScenario(t *testing.T) {
	f := newFixture(t)

	a := f.manage(t, 1, "A")
	b := f.manage(t, 2, "B")

	if got, want := a.Geometry(), (geom.Rect{X: 0, Y: 0, Width: 960, Height: 1080}); got != want {
		t.Fatalf("A: expected %v, got %v", want, got)
	}
	if got, want := b.Geometry(), (geom.Rect{X: 960, Y: 0, Width: 960, Height: 1080}); got != want {
		t.Fatalf("B: expected %v, got %v", want, got)
	}

	if err := f.wm.BeginDying(a.ID); err != nil {
		t.Fatalf("begin dying: %v", err)
	}
	if got := b.Geometry(); got != fullHD {
		t.Fatalf("B after A died: expected %v, got %v", fullHD, got)
	}
	tg, _ := f.wm.Tag(f.tag)
	if tg.TiledCount() != 1 {
		t.Fatalf("expected 1 tiled member, got %d", tg.TiledCount())
	}
}

func TestTagWithoutLayoutSetsGivesFullArea(t *testing.T) {
	f := newFixture(t, withDefaultLayouts("typo"))
	tg, _ := f.wm.Tag(f.tag)
	if tg.Layout() != nil {
		t.Fatalf("expected no layout set, got %q", tg.Layout().Name)
	}

	a := f.manage(t, 1, "A")
	b := f.manage(t, 2, "B")
	for _, c := range []*Client{a, b} {
		if got := c.Geometry(); got != fullHD {
			t.Fatalf("client %d: expected %v, got %v", c.ID, fullHD, got)
		}
	}
	if tg.TiledCount() != 2 {
		t.Fatalf("expected 2 tiled members, got %d", tg.TiledCount())
	}
	ev, ok := f.rec.LastLayout(f.tag)
	if !ok || len(ev.Placements) != 2 {
		t.Fatalf("expected a layout event with 2 placements, got %+v", ev)
	}
	if ev.Layout != "" {
		t.Fatalf("expected no layout name, got %q", ev.Layout)
	}
}

func TestFloatRuleScenario(t *testing.T) {
	f := newFixture(t, withRules(rules.Rule{
		ID: "float", Class: "float", Tag: rules.Unset, Screen: rules.Unset, Flags: rules.Free,
	}))

	a := f.manage(t, 1, "A")
	b := f.manage(t, 2, "B")
	req := geom.Rect{X: 100, Y: 100, Width: 300, Height: 200}
	fl := f.manageReq(t, ManageRequest{
		Window:   3,
		Attrs:    rules.Attrs{Class: "float"},
		Geometry: req,
		Screen:   NoScreen,
	})

	if fl.Tag().ID != f.tag || fl.Screen().ID != f.screen {
		t.Fatalf("expected float client on the selected tag and screen")
	}
	if !fl.Flags().Has(FlagFree) || !fl.Flags().Has(FlagRuled) {
		t.Fatalf("expected free and ruled flags, got %s", fl.Flags())
	}
	if fl.Geometry() != req {
		t.Fatalf("expected independent geometry %v, got %v", req, fl.Geometry())
	}
	if a.Geometry().Width != 960 || b.Geometry().X != 960 {
		t.Fatalf("expected tiled clients to keep the two-slot partition, got %v %v", a.Geometry(), b.Geometry())
	}
	tg, _ := f.wm.Tag(f.tag)
	if tg.TiledCount() != 2 {
		t.Fatalf("expected 2 tiled members, got %d", tg.TiledCount())
	}
}

func TestEveryTiledClientGetsNonDegenerateGeometry(t *testing.T) {
	f := newFixture(t)
	for id := ClientID(1); id <= 7; id++ {
		f.manage(t, id, "x")
	}
	ev, ok := f.rec.LastLayout(f.tag)
	if !ok {
		t.Fatalf("expected a layout event")
	}
	if len(ev.Placements) != 7 {
		t.Fatalf("expected 7 placements, got %d", len(ev.Placements))
	}
	for _, p := range ev.Placements {
		if p.Geometry.Width < 1 || p.Geometry.Height < 1 {
			t.Fatalf("client %d got degenerate geometry %v", p.Client, p.Geometry)
		}
	}
	// The selected client shares the right slot and is raised.
	if top := ev.Stack[len(ev.Stack)-1]; top != 7 {
		t.Fatalf("expected selected client 7 on top, got %d", top)
	}
}

func TestInsertionOrderIsStable(t *testing.T) {
	f := newFixture(t)
	if err := f.wm.SetLayout(f.tag, "columns"); err != nil {
		t.Fatalf("set layout: %v", err)
	}
	for id := ClientID(1); id <= 4; id++ {
		f.manage(t, id, "x")
	}
	if diff := cmp.Diff([]ClientID{1, 2, 3, 4}, f.memberIDs(t, f.tag)); diff != "" {
		t.Fatalf("member order (-want +got):\n%s", diff)
	}
	prevX := -1
	for id := ClientID(1); id <= 4; id++ {
		c, _ := f.wm.Client(id)
		if c.Geometry().X <= prevX {
			t.Fatalf("client %d slot not after its predecessor", id)
		}
		prevX = c.Geometry().X
	}

	if err := f.wm.BeginDying(2); err != nil {
		t.Fatalf("begin dying: %v", err)
	}
	f.manage(t, 5, "x")
	if diff := cmp.Diff([]ClientID{1, 3, 4, 5}, f.memberIDs(t, f.tag)); diff != "" {
		t.Fatalf("member order (-want +got):\n%s", diff)
	}

	if err := f.wm.SwapWithNext(1, 1); err != nil {
		t.Fatalf("swap: %v", err)
	}
	if diff := cmp.Diff([]ClientID{3, 1, 4, 5}, f.memberIDs(t, f.tag)); diff != "" {
		t.Fatalf("member order after swap (-want +got):\n%s", diff)
	}
}

func TestRecomputeWithoutChangeEmitsNothing(t *testing.T) {
	f := newFixture(t)
	f.manage(t, 1, "x")
	f.manage(t, 2, "x")

	f.rec.Reset()
	f.wm.ArrangeAll()
	if len(f.rec.Layouts) != 0 {
		t.Fatalf("expected no layout events, got %d", len(f.rec.Layouts))
	}

	before, _ := f.wm.Client(1)
	g := before.Geometry()
	if err := f.wm.Arrange(f.tag); err != nil {
		t.Fatalf("arrange: %v", err)
	}
	if len(f.rec.Layouts) != 1 {
		t.Fatalf("expected forced arrange to emit, got %d events", len(f.rec.Layouts))
	}
	if before.Geometry() != g {
		t.Fatalf("recompute changed geometry: %v -> %v", g, before.Geometry())
	}
}

func TestManageTwiceReturnsExistingClient(t *testing.T) {
	f := newFixture(t)
	a := f.manage(t, 1, "x")
	again := f.manage(t, 1, "x")
	if a != again {
		t.Fatalf("expected the existing client")
	}
	if n := len(f.memberIDs(t, f.tag)); n != 1 {
		t.Fatalf("expected 1 member, got %d", n)
	}
}

func TestManageAppliesSizeHints(t *testing.T) {
	f := newFixture(t, withRules(rules.Rule{ID: "f", Class: "term", Tag: rules.Unset, Screen: rules.Unset, Flags: rules.Free}))
	req := ManageRequest{
		Window:   1,
		Attrs:    rules.Attrs{Class: "term"},
		Geometry: geom.Rect{X: 10, Y: 10, Width: 101, Height: 57},
		Screen:   NoScreen,
	}
	req.Hints[hints.BaseW], req.Hints[hints.IncW] = 100, 10
	c := f.manageReq(t, req)
	if c.Geometry().Width != 100 {
		t.Fatalf("expected width 100, got %d", c.Geometry().Width)
	}
	if !c.Flags().Has(FlagHinted) {
		t.Fatalf("expected hinted flag")
	}
}

func TestMaxRuleFillsUsableArea(t *testing.T) {
	f := newFixture(t, withRules(rules.Rule{ID: "max", Class: "video", Tag: rules.Unset, Screen: rules.Unset, Flags: rules.Max}))
	if err := f.wm.SetReserved(f.screen, 20, 0); err != nil {
		t.Fatalf("set reserved: %v", err)
	}
	c := f.manageReq(t, ManageRequest{
		Window:   1,
		Attrs:    rules.Attrs{Class: "video"},
		Geometry: geom.Rect{X: 5, Y: 5, Width: 50, Height: 50},
		Screen:   NoScreen,
	})
	want := geom.Rect{X: 0, Y: 20, Width: 1920, Height: 1060}
	if c.Geometry() != want {
		t.Fatalf("expected %v, got %v", want, c.Geometry())
	}
	if !c.Flags().Has(FlagFree) {
		t.Fatalf("expected max client to be free")
	}
}

func TestRulePrecedence(t *testing.T) {
	f := newFixture(t, withRules(
		rules.Rule{ID: "r1", Class: "Firefox", Tag: 1, Screen: rules.Unset},
		rules.Rule{ID: "r2", Class: "Fire*", Tag: 0, Screen: rules.Unset, Flags: rules.Free},
	))
	second, err := f.wm.AddTag(f.screen, "2")
	if err != nil {
		t.Fatalf("add tag: %v", err)
	}

	c := f.manage(t, 1, "Firefox")
	if c.Tag().ID != second {
		t.Fatalf("expected first rule's tag %d, got %d", second, c.Tag().ID)
	}
	if c.Flags().Has(FlagFree) {
		t.Fatalf("expected second rule's flags not to apply")
	}
}

func TestRuleWithMissingTagFallsBack(t *testing.T) {
	f := newFixture(t, withRules(rules.Rule{ID: "gone", Class: "x", Tag: 7, Screen: 3}))
	c := f.manage(t, 1, "x")
	if c.Tag().ID != f.tag || c.Screen().ID != f.screen {
		t.Fatalf("expected fallback to selected tag and screen")
	}
}

func TestRuleWithMissingThemeFallsBackToDefault(t *testing.T) {
	f := newFixture(t, withRules(rules.Rule{ID: "themed", Class: "x", Tag: rules.Unset, Screen: rules.Unset, Theme: "nope"}))
	c := f.manage(t, 1, "x")
	if c.Theme() == nil || c.Theme().Name != theme.DefaultName {
		t.Fatalf("expected default theme")
	}
}

func TestSetReservedShrinksUsableArea(t *testing.T) {
	f := newFixture(t)
	a := f.manage(t, 1, "x")
	if err := f.wm.SetReserved(f.screen, 18, 0); err != nil {
		t.Fatalf("set reserved: %v", err)
	}
	want := geom.Rect{X: 0, Y: 18, Width: 1920, Height: 1062}
	if a.Geometry() != want {
		t.Fatalf("expected %v, got %v", want, a.Geometry())
	}
	usable, err := f.wm.UsableArea(f.screen)
	if err != nil {
		t.Fatalf("usable: %v", err)
	}
	if usable != want {
		t.Fatalf("expected usable %v, got %v", want, usable)
	}
}

func TestFloatingLayoutHonoursRequests(t *testing.T) {
	f := newFixture(t)
	a := f.manage(t, 1, "x")
	if err := f.wm.SetLayout(f.tag, "float"); err != nil {
		t.Fatalf("set layout: %v", err)
	}
	req := geom.Rect{X: 40, Y: 50, Width: 640, Height: 480}
	if err := f.wm.ReflowRequest(a.ID, req); err != nil {
		t.Fatalf("reflow: %v", err)
	}
	if a.Geometry() != req {
		t.Fatalf("expected %v, got %v", req, a.Geometry())
	}

	// Requests are clamped to the usable area.
	if err := f.wm.ReflowRequest(a.ID, geom.Rect{X: 1800, Y: 0, Width: 640, Height: 480}); err != nil {
		t.Fatalf("reflow: %v", err)
	}
	if got := a.Geometry(); got.X+got.Width > 1920 {
		t.Fatalf("expected clamped geometry, got %v", got)
	}
}

func TestReflowOnTiledClientIsStored(t *testing.T) {
	f := newFixture(t)
	a := f.manage(t, 1, "x")
	req := geom.Rect{X: 10, Y: 10, Width: 200, Height: 100}
	if err := f.wm.ReflowRequest(a.ID, req); err != nil {
		t.Fatalf("reflow: %v", err)
	}
	if a.Geometry() != fullHD {
		t.Fatalf("expected tiled geometry to ignore the request, got %v", a.Geometry())
	}
	if a.Request() != req {
		t.Fatalf("expected request to be stored, got %v", a.Request())
	}

	if err := f.wm.ToggleFree(a.ID); err != nil {
		t.Fatalf("toggle free: %v", err)
	}
	if a.Geometry() != req {
		t.Fatalf("expected free client at its request %v, got %v", req, a.Geometry())
	}
}

func TestCloseTearsDownEverything(t *testing.T) {
	f := newFixture(t)
	f.manage(t, 1, "x")
	f.manage(t, 2, "x")
	if err := f.wm.BeginDying(2); err != nil {
		t.Fatalf("begin dying: %v", err)
	}
	if err := f.wm.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	managed, dying := f.wm.Counts()
	if managed != 0 || dying != 0 {
		t.Fatalf("expected no clients, got %d managed %d dying", managed, dying)
	}
	if len(f.wm.Screens()) != 0 {
		t.Fatalf("expected no screens")
	}
	if _, err := f.wm.UsableArea(f.screen); !errors.Is(err, ErrUnknownScreen) {
		t.Fatalf("expected ErrUnknownScreen, got %v", err)
	}
}
