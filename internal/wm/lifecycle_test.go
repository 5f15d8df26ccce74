package wm

import (
	"errors"
	"testing"

	"github.com/1broseidon/tagtile/internal/geom"
)

func TestTwoPhaseDestruction(t *testing.T) {
	f := newFixture(t)
	a := f.manage(t, 1, "x")
	f.manage(t, 2, "x")

	if err := f.wm.BeginDying(a.ID); err != nil {
		t.Fatalf("begin dying: %v", err)
	}
	if a.State() != Dying || !a.Flags().Has(FlagDying) {
		t.Fatalf("expected dying state, got %s (%s)", a.State(), a.Flags())
	}
	for _, id := range f.memberIDs(t, f.tag) {
		if id == a.ID {
			t.Fatalf("dying client still a tag member")
		}
	}
	if _, ok := f.wm.Client(a.ID); !ok {
		t.Fatalf("dying client must stay reachable until finalize")
	}

	// Later recomputes leave the dying client alone.
	g := a.Geometry()
	f.manage(t, 3, "x")
	if a.Geometry() != g {
		t.Fatalf("dying client was recomputed: %v -> %v", g, a.Geometry())
	}
	if ev, _ := f.rec.LastLayout(f.tag); len(ev.Placements) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(ev.Placements))
	}

	if err := f.wm.Finalize(a.ID); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if a.State() != Removed {
		t.Fatalf("expected removed, got %s", a.State())
	}
	if err := f.wm.Finalize(a.ID); !errors.Is(err, ErrDoubleFinalize) {
		t.Fatalf("expected ErrDoubleFinalize, got %v", err)
	}
}

func TestFinalizedIDsAreBounded(t *testing.T) {
	f := newFixture(t)
	total := maxFinalized + 10
	for i := 1; i <= total; i++ {
		id := ClientID(i)
		f.manage(t, id, "x")
		if err := f.wm.BeginDying(id); err != nil {
			t.Fatalf("begin dying %d: %v", id, err)
		}
		if err := f.wm.Finalize(id); err != nil {
			t.Fatalf("finalize %d: %v", id, err)
		}
	}
	if len(f.wm.finalized) != maxFinalized {
		t.Fatalf("expected %d remembered ids, got %d", maxFinalized, len(f.wm.finalized))
	}
	if err := f.wm.Finalize(ClientID(total)); !errors.Is(err, ErrDoubleFinalize) {
		t.Fatalf("expected ErrDoubleFinalize for a recent id, got %v", err)
	}
	if err := f.wm.Finalize(1); !errors.Is(err, ErrUnknownClient) {
		t.Fatalf("expected the oldest id to be forgotten, got %v", err)
	}
}

func TestFinalizeManagedClientFails(t *testing.T) {
	f := newFixture(t)
	f.manage(t, 1, "x")
	if err := f.wm.Finalize(1); !errors.Is(err, ErrDoubleFinalize) {
		t.Fatalf("expected ErrDoubleFinalize, got %v", err)
	}
	if err := f.wm.Finalize(99); !errors.Is(err, ErrUnknownClient) {
		t.Fatalf("expected ErrUnknownClient, got %v", err)
	}
}

func TestOperationsOnDyingClientFail(t *testing.T) {
	f := newFixture(t)
	second, err := f.wm.AddTag(f.screen, "2")
	if err != nil {
		t.Fatalf("add tag: %v", err)
	}
	f.manage(t, 1, "x")
	f.manage(t, 2, "x")
	if err := f.wm.BeginDying(1); err != nil {
		t.Fatalf("begin dying: %v", err)
	}

	checks := map[string]error{
		"retag":       f.wm.Retag(1, second),
		"reflow":      f.wm.ReflowRequest(1, geom.Rect{Width: 10, Height: 10}),
		"begin dying": f.wm.BeginDying(1),
		"tab":         f.wm.TabInto(1, 2),
		"focus":       f.wm.Focus(1),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrInvalidClient) {
			t.Fatalf("%s: expected ErrInvalidClient, got %v", name, err)
		}
	}
}

func TestRecycledWindowIDIsManagedAfresh(t *testing.T) {
	f := newFixture(t)
	old := f.manage(t, 1, "x")
	if err := f.wm.BeginDying(1); err != nil {
		t.Fatalf("begin dying: %v", err)
	}
	fresh := f.manage(t, 1, "y")
	if fresh == old {
		t.Fatalf("expected a new client for a recycled id")
	}
	if old.State() != Removed {
		t.Fatalf("expected the old client to be finalized, got %s", old.State())
	}
	if fresh.Attrs().Class != "y" {
		t.Fatalf("expected new attributes, got %q", fresh.Attrs().Class)
	}
}

func TestTabIntoUsesMasterGeometryMinusStrip(t *testing.T) {
	f := newFixture(t, withTitlebar(20))
	a := f.manage(t, 1, "x")
	b := f.manage(t, 2, "x")

	if err := f.wm.TabInto(b.ID, a.ID); err != nil {
		t.Fatalf("tab into: %v", err)
	}
	if !b.Flags().Has(FlagTabbed) || !a.Flags().Has(FlagTabMaster) {
		t.Fatalf("expected tab flags, got a=%s b=%s", a.Flags(), b.Flags())
	}
	if b.TabMaster() != a {
		t.Fatalf("expected a to host b")
	}
	if a.Geometry() != fullHD {
		t.Fatalf("expected master alone in the partition, got %v", a.Geometry())
	}
	if want := (geom.Rect{X: 0, Y: 20, Width: 1920, Height: 1060}); b.Geometry() != want {
		t.Fatalf("expected tabbed geometry %v, got %v", want, b.Geometry())
	}
	if want := (geom.Rect{X: 0, Y: 0, Width: 1920, Height: 20}); a.Titlebar() != want {
		t.Fatalf("expected master titlebar %v, got %v", want, a.Titlebar())
	}
	tg, _ := f.wm.Tag(f.tag)
	if tg.TiledCount() != 1 {
		t.Fatalf("expected tabbed client excluded from slot count, got %d", tg.TiledCount())
	}

	if err := f.wm.Untab(b.ID); err != nil {
		t.Fatalf("untab: %v", err)
	}
	if b.Flags().Has(FlagTabbed) || a.Flags().Has(FlagTabMaster) {
		t.Fatalf("expected tab flags cleared, got a=%s b=%s", a.Flags(), b.Flags())
	}
	if b.Geometry().X != 960 {
		t.Fatalf("expected b back in the right slot, got %v", b.Geometry())
	}
}

func TestMasterDyingReleasesTabs(t *testing.T) {
	f := newFixture(t)
	a := f.manage(t, 1, "x")
	b := f.manage(t, 2, "x")
	if err := f.wm.TabInto(b.ID, a.ID); err != nil {
		t.Fatalf("tab into: %v", err)
	}
	if err := f.wm.BeginDying(a.ID); err != nil {
		t.Fatalf("begin dying: %v", err)
	}
	if b.Flags().Has(FlagTabbed) || b.TabMaster() != nil {
		t.Fatalf("expected b to leave the dead master's tab group")
	}
	if b.Geometry() != fullHD {
		t.Fatalf("expected b tiled alone, got %v", b.Geometry())
	}
}

func TestFocusFallsBackToPreviousSelection(t *testing.T) {
	f := newFixture(t)
	f.manage(t, 1, "x")
	f.manage(t, 2, "x")
	f.manage(t, 3, "x")
	if err := f.wm.Focus(1); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if err := f.wm.Focus(3); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if err := f.wm.BeginDying(3); err != nil {
		t.Fatalf("begin dying: %v", err)
	}
	if f.wm.Focused() != 1 {
		t.Fatalf("expected focus to return to 1, got %d", f.wm.Focused())
	}
	last := f.rec.Focuses[len(f.rec.Focuses)-1]
	if last.Client != 1 || last.Previous != 3 {
		t.Fatalf("unexpected focus event %+v", last)
	}
}

func TestFocusNextWraps(t *testing.T) {
	f := newFixture(t)
	f.manage(t, 1, "x")
	f.manage(t, 2, "x")
	got, err := f.wm.FocusNext(1)
	if err != nil {
		t.Fatalf("focus next: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected wrap to 1, got %d", got)
	}
	got, err = f.wm.FocusPrev()
	if err != nil {
		t.Fatalf("focus prev: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestSetTitleNotifiesFocusedClient(t *testing.T) {
	f := newFixture(t)
	f.manage(t, 1, "x")
	f.rec.Reset()
	if err := f.wm.SetTitle(1, "vim"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	if len(f.rec.Focuses) != 1 || f.rec.Focuses[0].Title != "vim" {
		t.Fatalf("expected one focus event carrying the title, got %+v", f.rec.Focuses)
	}
}
