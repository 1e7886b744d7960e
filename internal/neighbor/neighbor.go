// Package neighbor computes per-cell neighbor totals under a boundary
// policy and an optional 3x3 weight mask.
package neighbor

import (
	"math"

	"github.com/san-kum/cellsim/internal/grid"
)

// Offsets lists the Moore neighborhood in scan order.
var Offsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// ceilTolerance keeps sums like 3.0000000001 from rounding up to 4.
const ceilTolerance = 1e-9

// Resolve maps (row+dr, col+dc) onto the grid. ok is false when the
// coordinate falls off a clamped edge.
func Resolve(g *grid.Grid, row, col, dr, dc int, b Boundary) (r, c int, ok bool) {
	r, c = row+dr, col+dc
	if b == Toroidal {
		return wrap(r, g.Rows()), wrap(c, g.Cols()), true
	}
	if !g.InBounds(r, c) {
		return 0, 0, false
	}
	return r, c, true
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Sum is the mask-weighted total of live neighbors.
func Sum(g *grid.Grid, row, col int, m Mask, b Boundary) float64 {
	var s float64
	for _, off := range Offsets {
		w := m.Weight(off[0], off[1])
		if w == 0 {
			continue
		}
		r, c, ok := Resolve(g, row, col, off[0], off[1], b)
		if ok && g.Alive(r, c) {
			s += w
		}
	}
	return s
}

// Aggregate rounds Sum up to the next integer.
func Aggregate(g *grid.Grid, row, col int, m Mask, b Boundary) int {
	return int(math.Ceil(Sum(g, row, col, m, b) - ceilTolerance))
}

// Count is the plain live-neighbor count.
func Count(g *grid.Grid, row, col int, b Boundary) int {
	n := 0
	for _, off := range Offsets {
		r, c, ok := Resolve(g, row, col, off[0], off[1], b)
		if ok && g.Alive(r, c) {
			n++
		}
	}
	return n
}
