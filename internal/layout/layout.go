// Package layout turns a member count and a layout set into window geometry.
package layout

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/1broseidon/tagtile/internal/geom"
)

// Slot is a rectangle relative to the usable area, each field in [0,1].
type Slot struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	W float64 `yaml:"w" json:"w"`
	H float64 `yaml:"h" json:"h"`
}

// Partition is the ordered slot list used when a tag has exactly len(p)
// tiled members.
type Partition []Slot

// Set is a named family of partitions, at most one per member count.
type Set struct {
	Name       string
	Floating   bool
	Gap        int
	Partitions []Partition
}

// Arrangement is the result of Compute.
type Arrangement struct {
	// Rects holds one rectangle per member, in member order.
	Rects []geom.Rect
	// Shared counts members placed on a slot already used by another member.
	Shared int
}

var (
	ErrEmptyPartition = errors.New("partition has no slots")
	ErrDuplicateCount = errors.New("duplicate partition slot count")
	ErrSlotOutOfRange = errors.New("slot outside unit square")
)

// Validate checks that every partition is usable by Compute.
func (s *Set) Validate() error {
	seen := make(map[int]bool, len(s.Partitions))
	for i, p := range s.Partitions {
		if len(p) == 0 {
			return fmt.Errorf("layout %q partition %d: %w", s.Name, i, ErrEmptyPartition)
		}
		if seen[len(p)] {
			return fmt.Errorf("layout %q partition %d (%d slots): %w", s.Name, i, len(p), ErrDuplicateCount)
		}
		seen[len(p)] = true
		for j, sl := range p {
			if !sl.valid() {
				return fmt.Errorf("layout %q partition %d slot %d: %w", s.Name, i, j, ErrSlotOutOfRange)
			}
		}
	}
	if s.Gap < 0 {
		return fmt.Errorf("layout %q: gap must be >= 0", s.Name)
	}
	return nil
}

func (sl Slot) valid() bool {
	in := func(v float64) bool { return v >= 0 && v <= 1 && !math.IsNaN(v) }
	if !in(sl.X) || !in(sl.Y) || !in(sl.W) || !in(sl.H) {
		return false
	}
	if sl.W <= 0 || sl.H <= 0 {
		return false
	}
	const eps = 1e-9
	return sl.X+sl.W <= 1+eps && sl.Y+sl.H <= 1+eps
}

// Counts returns the member counts that have a stored partition, ascending.
func (s *Set) Counts() []int {
	out := make([]int, 0, len(s.Partitions))
	for _, p := range s.Partitions {
		out = append(out, len(p))
	}
	sort.Ints(out)
	return out
}

// Lookup returns the partition for exactly n members.
func (s *Set) Lookup(n int) (Partition, bool) {
	for _, p := range s.Partitions {
		if len(p) == n {
			return p, true
		}
	}
	return nil, false
}

// fallback returns the largest stored partition with fewer than n slots.
func (s *Set) fallback(n int) (Partition, bool) {
	var best Partition
	for _, p := range s.Partitions {
		if len(p) < n && len(p) > len(best) {
			best = p
		}
	}
	return best, best != nil
}

// Compute assigns one rectangle to each of n members inside usable.
//
// With no set, no partitions, or when every stored partition is larger
// than n, all members get the full area. An exact partition is scaled as
// is. Otherwise the largest smaller partition is used and the members past
// its last slot share that slot. Floating sets place nothing.
func Compute(n int, set *Set, usable geom.Rect) Arrangement {
	if n <= 0 || (set != nil && set.Floating) {
		return Arrangement{}
	}

	var (
		gap int
		p   Partition
		ok  bool
	)
	if set != nil {
		gap = max(set.Gap, 0)
		p, ok = set.Lookup(n)
		if !ok {
			p, ok = set.fallback(n)
		}
	}
	if !ok {
		full := usable.Inset(gap)
		rects := make([]geom.Rect, n)
		for i := range rects {
			rects[i] = full
		}
		return Arrangement{Rects: rects, Shared: n - 1}
	}

	// Half the gap frames the area and half surrounds each slot, so the
	// space between two slots equals the space at the edges.
	frame := usable.Inset(gap - gap/2)
	rects := make([]geom.Rect, 0, n)
	for _, sl := range p {
		rects = append(rects, Scale(sl, frame).Inset(gap/2))
	}
	last := rects[len(rects)-1]
	for len(rects) < n {
		rects = append(rects, last)
	}
	return Arrangement{Rects: rects, Shared: n - len(p)}
}

// Scale maps a relative slot onto area. Edges are rounded rather than
// sizes, so slots that touch in relative space touch in pixels.
func Scale(sl Slot, area geom.Rect) geom.Rect {
	x0 := area.X + round(sl.X*float64(area.Width))
	x1 := area.X + round((sl.X+sl.W)*float64(area.Width))
	y0 := area.Y + round(sl.Y*float64(area.Height))
	y1 := area.Y + round((sl.Y+sl.H)*float64(area.Height))

	r := geom.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}
	return r
}

func round(v float64) int {
	return int(math.Round(v))
}
