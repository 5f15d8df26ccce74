package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagtile/internal/geom"
)

var screen = geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

func halves() *Set {
	return &Set{
		Name: "halves",
		Partitions: []Partition{
			{{X: 0, Y: 0, W: 0.5, H: 1}, {X: 0.5, Y: 0, W: 0.5, H: 1}},
		},
	}
}

func TestCompute_ExactPartition(t *testing.T) {
	got := Compute(2, halves(), screen)
	want := []geom.Rect{
		{X: 0, Y: 0, Width: 960, Height: 1080},
		{X: 960, Y: 0, Width: 960, Height: 1080},
	}
	if diff := cmp.Diff(want, got.Rects); diff != "" {
		t.Fatalf("rects mismatch (-want +got):\n%s", diff)
	}
	if got.Shared != 0 {
		t.Fatalf("expected no shared members, got %d", got.Shared)
	}
}

func TestCompute_AllPartitionsLargerFallsBackToFullArea(t *testing.T) {
	got := Compute(1, halves(), screen)
	want := []geom.Rect{screen}
	if diff := cmp.Diff(want, got.Rects); diff != "" {
		t.Fatalf("rects mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_OverflowSharesLastSlot(t *testing.T) {
	got := Compute(4, halves(), screen)
	if len(got.Rects) != 4 {
		t.Fatalf("expected 4 rects, got %d", len(got.Rects))
	}
	right := geom.Rect{X: 960, Y: 0, Width: 960, Height: 1080}
	for i := 1; i < 4; i++ {
		if got.Rects[i] != right {
			t.Fatalf("expected rect %d to share the right slot, got %v", i, got.Rects[i])
		}
	}
	if got.Shared != 2 {
		t.Fatalf("expected 2 shared members, got %d", got.Shared)
	}
}

func TestCompute_NoPartitionsGivesFullAreaCopies(t *testing.T) {
	set := &Set{Name: "monocle"}
	got := Compute(3, set, screen)
	want := []geom.Rect{screen, screen, screen}
	if diff := cmp.Diff(want, got.Rects); diff != "" {
		t.Fatalf("rects mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_NilSetGivesFullAreaCopies(t *testing.T) {
	got := Compute(2, nil, screen)
	want := []geom.Rect{screen, screen}
	if diff := cmp.Diff(want, got.Rects); diff != "" {
		t.Fatalf("rects mismatch (-want +got):\n%s", diff)
	}
	if got.Shared != 1 {
		t.Fatalf("expected 1 shared member, got %d", got.Shared)
	}
}

func TestCompute_ZeroAndNegativeCounts(t *testing.T) {
	for _, n := range []int{0, -1} {
		if got := Compute(n, halves(), screen); len(got.Rects) != 0 {
			t.Fatalf("n=%d: expected no rects, got %d", n, len(got.Rects))
		}
	}
}

func TestCompute_FloatingPlacesNothing(t *testing.T) {
	set := &Set{Name: "float", Floating: true}
	if got := Compute(3, set, screen); len(got.Rects) != 0 {
		t.Fatalf("expected no rects for floating set, got %d", len(got.Rects))
	}
}

func TestCompute_ExactCountAndNonDegenerate(t *testing.T) {
	areas := []geom.Rect{
		screen,
		{X: 1920, Y: 0, Width: 1280, Height: 1024},
		{X: 0, Y: 0, Width: 3, Height: 2},
	}
	for _, algo := range Algorithms {
		set, err := Generate(string(algo), algo, GenerateOptions{Gap: 4})
		if err != nil {
			t.Fatalf("generate %s: %v", algo, err)
		}
		for _, area := range areas {
			for n := 1; n <= 15; n++ {
				got := Compute(n, &set, area)
				if set.Floating {
					if len(got.Rects) != 0 {
						t.Fatalf("%s: expected floating set to place nothing", algo)
					}
					continue
				}
				if len(got.Rects) != n {
					t.Fatalf("%s n=%d: expected %d rects, got %d", algo, n, n, len(got.Rects))
				}
				for i, r := range got.Rects {
					if r.Width < 1 || r.Height < 1 {
						t.Fatalf("%s n=%d rect %d degenerate: %v", algo, n, i, r)
					}
				}
			}
		}
	}
}

func TestCompute_Idempotent(t *testing.T) {
	set, err := Generate("spiral", AlgoSpiral, GenerateOptions{Gap: 3})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	area := geom.Rect{X: 13, Y: 27, Width: 1917, Height: 1053}
	for n := 1; n <= 12; n++ {
		first := Compute(n, &set, area)
		second := Compute(n, &set, area)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("n=%d: recompute differs:\n%s", n, diff)
		}
	}
}

func TestCompute_AdjacentSlotsTileWithoutGaps(t *testing.T) {
	set, err := Generate("cols", AlgoColumns, GenerateOptions{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	area := geom.Rect{X: 0, Y: 0, Width: 1000, Height: 100}
	got := Compute(3, &set, area)

	total := 0
	for i, r := range got.Rects {
		total += r.Width
		if i > 0 {
			prev := got.Rects[i-1]
			if prev.X+prev.Width != r.X {
				t.Fatalf("slot %d does not start where slot %d ends: %v vs %v", i, i-1, prev, r)
			}
		}
	}
	if total != area.Width {
		t.Fatalf("expected widths to sum to %d, got %d", area.Width, total)
	}
}

func TestCompute_GapIsUniform(t *testing.T) {
	set := halves()
	set.Gap = 10
	got := Compute(2, set, geom.Rect{X: 0, Y: 0, Width: 200, Height: 100})
	want := []geom.Rect{
		{X: 10, Y: 10, Width: 85, Height: 80},
		{X: 105, Y: 10, Width: 85, Height: 80},
	}
	if diff := cmp.Diff(want, got.Rects); diff != "" {
		t.Fatalf("rects mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		set  Set
		want error
	}{
		{"ok", *halves(), nil},
		{"empty partition", Set{Name: "x", Partitions: []Partition{{}}}, ErrEmptyPartition},
		{
			"duplicate count",
			Set{Name: "x", Partitions: []Partition{{full()}, {{X: 0, Y: 0, W: 0.5, H: 0.5}}}},
			ErrDuplicateCount,
		},
		{
			"out of range",
			Set{Name: "x", Partitions: []Partition{{{X: 0.6, Y: 0, W: 0.6, H: 1}}}},
			ErrSlotOutOfRange,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.set.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
