// Package grid holds the cell-state buffer shared by every rule variant.
//
// Cells are stored row-major. Alongside the alive/dead state each cell
// carries an age (generations survived), a vitality counter and a selfish
// flag. A dead cell always has its attributes zeroed.
package grid

import (
	"fmt"
	"strings"
)

type Grid struct {
	rows, cols int
	alive      []bool
	age        []int
	vitality   []int
	selfish    []bool
}

// New allocates an all-dead grid. Non-positive dimensions are clamped to 1.
func New(rows, cols int) *Grid {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	n := rows * cols
	return &Grid{
		rows:     rows,
		cols:     cols,
		alive:    make([]bool, n),
		age:      make([]int, n),
		vitality: make([]int, n),
		selfish:  make([]bool, n),
	}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Len() int  { return g.rows * g.cols }

// InBounds reports whether (row, col) addresses a cell.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) index(row, col int) int { return row*g.cols + col }

// Alive reports the state of a cell. Out-of-bounds cells are dead.
func (g *Grid) Alive(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	return g.alive[g.index(row, col)]
}

// Set seeds or edits a cell. Out-of-bounds coordinates are ignored.
// Placing a live cell on a dead one starts it at age 0; clearing a cell
// zeroes its attributes.
func (g *Grid) Set(row, col int, alive bool) {
	if !g.InBounds(row, col) {
		return
	}
	i := g.index(row, col)
	if alive {
		if !g.alive[i] {
			g.age[i] = 0
			g.vitality[i] = 0
			g.selfish[i] = false
		}
		g.alive[i] = true
		return
	}
	g.kill(i)
}

// Toggle flips a cell and reports its new state.
func (g *Grid) Toggle(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	next := !g.Alive(row, col)
	g.Set(row, col, next)
	return next
}

func (g *Grid) kill(i int) {
	g.alive[i] = false
	g.age[i] = 0
	g.vitality[i] = 0
	g.selfish[i] = false
}

func (g *Grid) Age(row, col int) int {
	if !g.InBounds(row, col) {
		return 0
	}
	return g.age[g.index(row, col)]
}

func (g *Grid) SetAge(row, col, age int) {
	if !g.InBounds(row, col) || age < 0 {
		return
	}
	i := g.index(row, col)
	if g.alive[i] {
		g.age[i] = age
	}
}

func (g *Grid) Vitality(row, col int) int {
	if !g.InBounds(row, col) {
		return 0
	}
	return g.vitality[g.index(row, col)]
}

// SetVitality only applies to live cells.
func (g *Grid) SetVitality(row, col, v int) {
	if !g.InBounds(row, col) {
		return
	}
	i := g.index(row, col)
	if g.alive[i] {
		g.vitality[i] = v
	}
}

func (g *Grid) Selfish(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	return g.selfish[g.index(row, col)]
}

// SetSelfish only applies to live cells.
func (g *Grid) SetSelfish(row, col int, selfish bool) {
	if !g.InBounds(row, col) {
		return
	}
	i := g.index(row, col)
	if g.alive[i] {
		g.selfish[i] = selfish
	}
}

// AliveCount scans the whole grid.
func (g *Grid) AliveCount() int {
	n := 0
	for _, a := range g.alive {
		if a {
			n++
		}
	}
	return n
}

// Clear kills every cell.
func (g *Grid) Clear() {
	for i := range g.alive {
		g.kill(i)
	}
}

func (g *Grid) Clone() *Grid {
	c := New(g.rows, g.cols)
	c.CopyFrom(g)
	return c
}

// CopyFrom overwrites g with src. Both grids must share dimensions.
func (g *Grid) CopyFrom(src *Grid) {
	if g.rows != src.rows || g.cols != src.cols {
		panic(fmt.Sprintf("grid: copy %dx%d into %dx%d", src.rows, src.cols, g.rows, g.cols))
	}
	copy(g.alive, src.alive)
	copy(g.age, src.age)
	copy(g.vitality, src.vitality)
	copy(g.selfish, src.selfish)
}

// Equal compares alive/dead state only.
func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for i := range g.alive {
		if g.alive[i] != o.alive[i] {
			return false
		}
	}
	return true
}

// Cells returns a copy of the alive states as 0/1 bytes in row-major order.
func (g *Grid) Cells() []uint8 {
	out := make([]uint8, len(g.alive))
	for i, a := range g.alive {
		if a {
			out[i] = 1
		}
	}
	return out
}

// Each calls fn for every live cell in row-major order.
func (g *Grid) Each(fn func(row, col int)) {
	for i, a := range g.alive {
		if a {
			fn(i/g.cols, i%g.cols)
		}
	}
}

const (
	aliveRune = '#'
	deadRune  = '.'
)

// String renders the plain snapshot format: one line per row, '#' for a
// live cell and '.' for a dead one.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.rows * (g.cols + 1))
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.alive[g.index(r, c)] {
				b.WriteByte(aliveRune)
			} else {
				b.WriteByte(deadRune)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Parse reads the plain snapshot format produced by String. Blank lines are
// skipped; 'O', 'o', '*', '1' and '#' all mark a live cell.
func Parse(s string) (*Grid, error) {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r \t")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("grid: empty snapshot")
	}
	cols := len(lines[0])
	g := New(len(lines), cols)
	for r, line := range lines {
		if len(line) != cols {
			return nil, fmt.Errorf("grid: row %d has %d cells, want %d", r, len(line), cols)
		}
		for c := 0; c < cols; c++ {
			switch line[c] {
			case aliveRune, 'O', 'o', '*', '1':
				g.Set(r, c, true)
			case deadRune, '0', '_', '-':
			default:
				return nil, fmt.Errorf("grid: row %d col %d: unexpected %q", r, c, line[c])
			}
		}
	}
	return g, nil
}
