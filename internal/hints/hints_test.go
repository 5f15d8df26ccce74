package hints

import (
	"testing"

	"github.com/1broseidon/tagtile/internal/geom"
)

func TestApply_RoundsDownOntoIncrementGrid(t *testing.T) {
	var h SizeHints
	h[BaseW] = 100
	h[IncW] = 10

	// 101 is one pixel past base; the next valid width not above it is 100.
	w, _ := h.Apply(101, 50)
	if w != 100 {
		t.Fatalf("expected width 100, got %d", w)
	}

	w, _ = h.Apply(129, 50)
	if w != 120 {
		t.Fatalf("expected width 120, got %d", w)
	}
}

func TestApply_NeverBelowBase(t *testing.T) {
	var h SizeHints
	h[BaseW] = 100
	h[BaseH] = 40
	h[IncW] = 10
	h[IncH] = 10

	w, height := h.Apply(20, 10)
	if w != 100 || height != 40 {
		t.Fatalf("expected 100x40, got %dx%d", w, height)
	}
}

func TestApply_ClampsToMinMax(t *testing.T) {
	cases := []struct {
		name         string
		hints        SizeHints
		inW, inH     int
		wantW, wantH int
	}{
		{
			name:  "below min",
			hints: SizeHints{MinW: 200, MinH: 100},
			inW:   50, inH: 50,
			wantW: 200, wantH: 100,
		},
		{
			name:  "above max",
			hints: SizeHints{MaxW: 300, MaxH: 200},
			inW:   1000, inH: 1000,
			wantW: 300, wantH: 200,
		},
		{
			name:  "max below min is ignored",
			hints: SizeHints{MinW: 400, MaxW: 100},
			inW:   1000, inH: 10,
			wantW: 1000, wantH: 10,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := tc.hints.Apply(tc.inW, tc.inH)
			if w != tc.wantW || h != tc.wantH {
				t.Fatalf("expected %dx%d, got %dx%d", tc.wantW, tc.wantH, w, h)
			}
		})
	}
}

func TestApply_NonPositiveIncrementTreatedAsOne(t *testing.T) {
	h := SizeHints{IncW: 0, IncH: -7}
	w, height := h.Apply(333, 77)
	if w != 333 || height != 77 {
		t.Fatalf("expected 333x77, got %dx%d", w, height)
	}
}

func TestApply_AspectLimitsFirst(t *testing.T) {
	var h SizeHints
	// At most 1:1, at least 1:2.
	h[MaxAX], h[MaxAY] = 1, 1
	h[MinAX], h[MinAY] = 1, 2

	w, height := h.Apply(400, 100)
	if w != 100 || height != 100 {
		t.Fatalf("expected 100x100, got %dx%d", w, height)
	}

	w, height = h.Apply(100, 400)
	if w != 100 || height != 200 {
		t.Fatalf("expected 100x200, got %dx%d", w, height)
	}
}

func TestApply_ResultIsNeverDegenerate(t *testing.T) {
	var h SizeHints
	w, height := h.Apply(0, -20)
	if w < 1 || height < 1 {
		t.Fatalf("expected at least 1x1, got %dx%d", w, height)
	}
}

func TestSanitize(t *testing.T) {
	h := SizeHints{BaseW: -5, IncW: 0, MinAX: 3}
	s := h.Sanitize()
	if s[BaseW] != 0 {
		t.Fatalf("expected negative base to clamp to 0, got %d", s[BaseW])
	}
	if s[IncW] != 1 || s[IncH] != 1 {
		t.Fatalf("expected increments of 1, got %d/%d", s[IncW], s[IncH])
	}
	if s[MinAX] != 0 {
		t.Fatalf("expected half-specified aspect to be cleared, got %d", s[MinAX])
	}
}

func TestConstrainWithinNeverGrowsPastSlot(t *testing.T) {
	h := SizeHints{MinW: 800, MinH: 600}
	slot := geom.Rect{X: 10, Y: 20, Width: 400, Height: 300}

	got := h.ConstrainWithin(slot)
	if got != slot {
		t.Fatalf("expected %v, got %v", slot, got)
	}
}

func TestFixed(t *testing.T) {
	h := SizeHints{MinW: 200, MaxW: 200, MinH: 100, MaxH: 100}
	if !h.Fixed() {
		t.Fatalf("expected fixed size hints")
	}
	h[MaxH] = 150
	if h.Fixed() {
		t.Fatalf("expected resizable hints")
	}
}
