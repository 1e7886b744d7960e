package viz

import (
	"strings"

	"github.com/san-kum/cellsim/internal/grid"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a character grid where every rune packs 2x4 sub-pixels, so one
// terminal cell shows eight automaton cells.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
	return c
}

// CanvasFor returns the smallest canvas that shows g one cell per dot.
func CanvasFor(g *grid.Grid) *Canvas {
	return NewCanvas((g.Cols()+1)/2, (g.Rows()+3)/4)
}

func (c *Canvas) locate(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, col, rune(pixelMap[y%4][x%2]), true
}

// Set sets a pixel at (x, y) in sub-pixel coordinates. The canvas size in
// sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if row, col, bit, ok := c.locate(x, y); ok {
		c.Grid[row][col] |= bit
	}
}

func (c *Canvas) Unset(x, y int) {
	if row, col, bit, ok := c.locate(x, y); ok {
		c.Grid[row][col] &^= bit
		if c.Grid[row][col] < brailleBlank {
			c.Grid[row][col] = brailleBlank
		}
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	row, col, bit, ok := c.locate(x, y)
	return ok && c.Grid[row][col]&bit != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawGrid clears the canvas and plots every live cell of g. Grids larger
// than the canvas are downsampled: a dot is lit when any cell it covers is
// alive.
func (c *Canvas) DrawGrid(g *grid.Grid) {
	c.Clear()
	sx := ceilDiv(g.Cols(), c.Width*2)
	sy := ceilDiv(g.Rows(), c.Height*4)
	g.Each(func(r, col int) {
		c.Set(col/sx, r/sy)
	})
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 1
	}
	n := (a + b - 1) / b
	if n < 1 {
		return 1
	}
	return n
}
