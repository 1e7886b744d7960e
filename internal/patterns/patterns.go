// Package patterns holds a small library of well-known seed shapes and the
// helpers that stamp them, or random noise, onto a grid.
package patterns

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/cellsim/internal/grid"
)

// Pattern is a rectangular stamp. Cells[r][c] is true for a live cell.
type Pattern struct {
	Name  string
	Cells [][]bool
}

func (p Pattern) Height() int { return len(p.Cells) }

func (p Pattern) Width() int {
	if len(p.Cells) == 0 {
		return 0
	}
	return len(p.Cells[0])
}

// Population counts the live cells of the stamp.
func (p Pattern) Population() int {
	n := 0
	for _, row := range p.Cells {
		for _, alive := range row {
			if alive {
				n++
			}
		}
	}
	return n
}

// mustParse builds a pattern from '#'/'.' rows separated by '/'.
func mustParse(name, rows string) Pattern {
	lines := strings.Split(rows, "/")
	cells := make([][]bool, len(lines))
	for i, line := range lines {
		cells[i] = make([]bool, len(line))
		for j, ch := range line {
			cells[i][j] = ch == '#'
		}
	}
	return Pattern{Name: name, Cells: cells}
}

var library = map[string]Pattern{
	"glider":      mustParse("glider", "..#/#.#/.##"),
	"block":       mustParse("block", "##/##"),
	"blinker":     mustParse("blinker", "###"),
	"spaceship":   mustParse("spaceship", ".#..#/#..../#...#/####."),
	"r_pentomino": mustParse("r_pentomino", ".##/##./.#."),
}

// Get returns the named pattern.
func Get(name string) (Pattern, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	p, ok := library[key]
	if !ok {
		return Pattern{}, fmt.Errorf("unknown pattern: %s", name)
	}
	return p, nil
}

func Names() []string {
	names := make([]string, 0, len(library))
	for name := range library {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Place overwrites the rectangle whose top-left corner is (row, col) with
// the stamp, dead cells included. Cells falling off the grid are dropped.
func Place(g *grid.Grid, p Pattern, row, col int) {
	for r, line := range p.Cells {
		for c, alive := range line {
			g.Set(row+r, col+c, alive)
		}
	}
}

// Rand is the subset of math/rand/v2 used for random fills.
type Rand interface {
	Float64() float64
}

// Fill sets each cell alive with probability density, row-major, one draw
// per cell. The grid is cleared first.
func Fill(g *grid.Grid, density float64, rng Rand) {
	g.Clear()
	if density <= 0 {
		return
	}
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if rng.Float64() < density {
				g.Set(r, c, true)
			}
		}
	}
}
