package geom

import "testing"

func TestIntersect(t *testing.T) {
	cases := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", Rect{0, 0, 100, 100}, Rect{50, 50, 100, 100}, Rect{50, 50, 50, 50}},
		{"contained", Rect{0, 0, 100, 100}, Rect{10, 10, 20, 20}, Rect{10, 10, 20, 20}},
		{"touching edges", Rect{0, 0, 100, 100}, Rect{100, 0, 100, 100}, Rect{}},
		{"disjoint", Rect{0, 0, 10, 10}, Rect{50, 50, 10, 10}, Rect{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersect(tc.b); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestContainsExcludesFarEdges(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 10, Height: 10}
	if !r.Contains(10, 10) {
		t.Fatalf("expected origin to be inside")
	}
	if r.Contains(20, 15) {
		t.Fatalf("expected right edge to be outside")
	}
	if r.Contains(15, 20) {
		t.Fatalf("expected bottom edge to be outside")
	}
}

func TestAreaOfEmptyRectIsZero(t *testing.T) {
	if got := (Rect{Width: -5, Height: 10}).Area(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := (Rect{Width: 4, Height: 5}).Area(); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}
}

func TestClampTo(t *testing.T) {
	bounds := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

	cases := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"inside", Rect{10, 10, 100, 100}, Rect{10, 10, 100, 100}},
		{"too large", Rect{-50, -50, 4000, 3000}, Rect{0, 0, 1920, 1080}},
		{"off right edge", Rect{1900, 0, 100, 100}, Rect{1820, 0, 100, 100}},
		{"degenerate", Rect{5, 5, 0, -3}, Rect{5, 5, 1, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.ClampTo(bounds); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestInsetNeverDegenerates(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 4, Height: 4}.Inset(10)
	if r.Width != 1 || r.Height != 1 {
		t.Fatalf("expected 1x1, got %v", r)
	}
}
