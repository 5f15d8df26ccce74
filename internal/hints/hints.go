// Package hints implements ICCCM WM_NORMAL_HINTS size constraints.
package hints

import (
	"math"

	"github.com/1broseidon/tagtile/internal/geom"
)

// Field indexes into SizeHints, in WM_NORMAL_HINTS order.
const (
	BaseW = iota
	BaseH
	IncW
	IncH
	MaxW
	MaxH
	MinW
	MinH
	MinAX
	MinAY
	MaxAX
	MaxAY
	Count
)

// SizeHints is the fixed twelve-field sizing vector of a client.
// A zero value means "no constraint".
type SizeHints [Count]int

// Sanitize returns a copy with malformed fields repaired: negative values
// become zero, increments are at least 1, a max smaller than min is
// dropped, and half-specified aspect pairs are cleared.
func (h SizeHints) Sanitize() SizeHints {
	out := h
	for i := range out {
		if out[i] < 0 {
			out[i] = 0
		}
	}
	if out[IncW] < 1 {
		out[IncW] = 1
	}
	if out[IncH] < 1 {
		out[IncH] = 1
	}
	if out[MaxW] > 0 && out[MaxW] < out[MinW] {
		out[MaxW] = 0
	}
	if out[MaxH] > 0 && out[MaxH] < out[MinH] {
		out[MaxH] = 0
	}
	if out[MinAX] == 0 || out[MinAY] == 0 {
		out[MinAX], out[MinAY] = 0, 0
	}
	if out[MaxAX] == 0 || out[MaxAY] == 0 {
		out[MaxAX], out[MaxAY] = 0, 0
	}
	return out
}

// Fixed reports whether min and max pin the client to a single size.
func (h SizeHints) Fixed() bool {
	return h[MaxW] > 0 && h[MaxH] > 0 && h[MaxW] == h[MinW] && h[MaxH] == h[MinH]
}

// Apply constrains a width and height. Aspect limits are applied first,
// then each dimension is rounded down onto the base+k*increment grid
// (never below base), then clamped to [min, max]. The result is at least 1x1.
func (h SizeHints) Apply(w, height int) (int, int) {
	s := h.Sanitize()

	if w < 1 {
		w = 1
	}
	if height < 1 {
		height = 1
	}

	if s[MinAX] > 0 || s[MaxAX] > 0 {
		// Ratios compare the size above the base size.
		bw := w - s[BaseW]
		bh := height - s[BaseH]
		if bw > 0 && bh > 0 {
			ratio := float64(bw) / float64(bh)
			if s[MaxAX] > 0 {
				maxRatio := float64(s[MaxAX]) / float64(s[MaxAY])
				if ratio > maxRatio {
					bw = int(math.Round(float64(bh) * maxRatio))
				}
			}
			if s[MinAX] > 0 {
				minRatio := float64(s[MinAX]) / float64(s[MinAY])
				if float64(bw)/float64(bh) < minRatio {
					bh = int(math.Round(float64(bw) / minRatio))
				}
			}
			w = bw + s[BaseW]
			height = bh + s[BaseH]
		}
	}

	w = step(w, s[BaseW], s[IncW])
	height = step(height, s[BaseH], s[IncH])

	w = clamp(w, s[MinW], s[MaxW])
	height = clamp(height, s[MinH], s[MaxH])

	if w < 1 {
		w = 1
	}
	if height < 1 {
		height = 1
	}
	return w, height
}

// Constrain applies the hints to r's size, keeping its origin.
func (h SizeHints) Constrain(r geom.Rect) geom.Rect {
	r.Width, r.Height = h.Apply(r.Width, r.Height)
	return r
}

// ConstrainWithin applies the hints to r and then shrinks the result so
// it never exceeds r. Tiled slots use this: a slot is a hard upper bound,
// min sizes larger than the slot are not honoured.
func (h SizeHints) ConstrainWithin(r geom.Rect) geom.Rect {
	out := h.Constrain(r)
	if out.Width > r.Width {
		out.Width = r.Width
	}
	if out.Height > r.Height {
		out.Height = r.Height
	}
	return out
}

func step(v, base, inc int) int {
	if v <= base {
		return base
	}
	return base + ((v-base)/inc)*inc
}

func clamp(v, lo, hi int) int {
	if lo > 0 && v < lo {
		v = lo
	}
	if hi > 0 && v > hi {
		v = hi
	}
	return v
}
