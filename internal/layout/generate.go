package layout

import (
	"fmt"
	"math"
	"strings"
)

// Algorithm names a builtin partition generator.
type Algorithm string

const (
	AlgoTile    Algorithm = "tile"
	AlgoGrid    Algorithm = "grid"
	AlgoColumns Algorithm = "columns"
	AlgoRows    Algorithm = "rows"
	AlgoMonocle Algorithm = "monocle"
	AlgoSpiral  Algorithm = "spiral"
	AlgoFloat   Algorithm = "float"
)

// Algorithms lists every builtin generator in display order.
var Algorithms = []Algorithm{AlgoTile, AlgoGrid, AlgoColumns, AlgoRows, AlgoMonocle, AlgoSpiral, AlgoFloat}

// DefaultMaxSlots is the largest member count generators emit a partition for.
const DefaultMaxSlots = 9

// DefaultMasterFactor is the master column width used by the tile generator.
const DefaultMasterFactor = 0.55

// GenerateOptions tunes Generate.
type GenerateOptions struct {
	MaxSlots     int
	MasterFactor float64
	Gap          int
}

// ParseAlgorithm resolves a generator by name, case-insensitively.
func ParseAlgorithm(name string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Algorithms {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown layout algorithm %q", name)
}

// Generate builds a Set named name whose partitions come from algo for
// member counts 1..MaxSlots. Monocle produces no partitions, so every
// member gets the full area; float produces a floating set.
func Generate(name string, algo Algorithm, opts GenerateOptions) (Set, error) {
	if opts.MaxSlots <= 0 {
		opts.MaxSlots = DefaultMaxSlots
	}
	if opts.MasterFactor <= 0 || opts.MasterFactor >= 1 {
		opts.MasterFactor = DefaultMasterFactor
	}

	set := Set{Name: name, Gap: opts.Gap}

	var gen func(n int) Partition
	switch algo {
	case AlgoTile:
		gen = func(n int) Partition { return tile(n, opts.MasterFactor) }
	case AlgoGrid:
		gen = grid
	case AlgoColumns:
		gen = columns
	case AlgoRows:
		gen = rows
	case AlgoSpiral:
		gen = spiral
	case AlgoMonocle:
		return set, nil
	case AlgoFloat:
		set.Floating = true
		return set, nil
	default:
		return Set{}, fmt.Errorf("unknown layout algorithm %q", algo)
	}

	set.Partitions = make([]Partition, 0, opts.MaxSlots)
	for n := 1; n <= opts.MaxSlots; n++ {
		set.Partitions = append(set.Partitions, gen(n))
	}
	return set, nil
}

func full() Slot {
	return Slot{X: 0, Y: 0, W: 1, H: 1}
}

// tile places a master column on the left and stacks the rest on the right.
func tile(n int, mfact float64) Partition {
	if n == 1 {
		return Partition{full()}
	}
	p := make(Partition, 0, n)
	p = append(p, Slot{X: 0, Y: 0, W: mfact, H: 1})
	stack := n - 1
	h := 1 / float64(stack)
	for i := 0; i < stack; i++ {
		p = append(p, Slot{X: mfact, Y: float64(i) * h, W: 1 - mfact, H: h})
	}
	return p
}

// grid uses ceil(sqrt(n)) columns. The last row stretches to full width.
func grid(n int) Partition {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rowCount := int(math.Ceil(float64(n) / float64(cols)))
	h := 1 / float64(rowCount)

	p := make(Partition, 0, n)
	for row := 0; row < rowCount; row++ {
		inRow := cols
		if remaining := n - row*cols; remaining < cols {
			inRow = remaining
		}
		w := 1 / float64(inRow)
		for col := 0; col < inRow; col++ {
			p = append(p, Slot{X: float64(col) * w, Y: float64(row) * h, W: w, H: h})
		}
	}
	return p
}

func columns(n int) Partition {
	w := 1 / float64(n)
	p := make(Partition, n)
	for i := range p {
		p[i] = Slot{X: float64(i) * w, Y: 0, W: w, H: 1}
	}
	return p
}

func rows(n int) Partition {
	h := 1 / float64(n)
	p := make(Partition, n)
	for i := range p {
		p[i] = Slot{X: 0, Y: float64(i) * h, W: 1, H: h}
	}
	return p
}

// spiral halves the remaining area for each member, alternating between
// vertical and horizontal splits. The last member takes what is left.
func spiral(n int) Partition {
	p := make(Partition, 0, n)
	rest := full()
	for i := 0; i < n; i++ {
		if i == n-1 {
			p = append(p, rest)
			break
		}
		if i%2 == 0 {
			half := rest.W / 2
			p = append(p, Slot{X: rest.X, Y: rest.Y, W: half, H: rest.H})
			rest = Slot{X: rest.X + half, Y: rest.Y, W: rest.W - half, H: rest.H}
		} else {
			half := rest.H / 2
			p = append(p, Slot{X: rest.X, Y: rest.Y, W: rest.W, H: half})
			rest = Slot{X: rest.X, Y: rest.Y + half, W: rest.W, H: rest.H - half}
		}
	}
	return p
}
