package sim

import (
	"sync"

	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/rules"
)

// Driver owns a live grid and advances it one generation per Step. It is
// what interactive front ends hold on to; batch runs use Simulator.
type Driver struct {
	mu         sync.Mutex
	engine     *rules.Engine
	rng        rules.Rand
	grid       *grid.Grid
	generation int
}

func NewDriver(engine *rules.Engine, g *grid.Grid, seed int64) *Driver {
	return &Driver{
		engine: engine,
		rng:    rules.NewRand(seed),
		grid:   g.Clone(),
	}
}

// Step advances one generation and returns the population.
func (d *Driver) Step() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.grid = d.engine.Step(d.grid, d.rng)
	d.generation++
	return d.grid.AliveCount()
}

func (d *Driver) Generation() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

func (d *Driver) Alive() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.grid.AliveCount()
}

// Clear kills every cell and rewinds the generation counter together.
func (d *Driver) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.grid.Clear()
	d.generation = 0
}

// Reset replaces the grid and rewinds the generation counter.
func (d *Driver) Reset(g *grid.Grid) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.grid = g.Clone()
	d.generation = 0
}

// Toggle flips one cell between generations.
func (d *Driver) Toggle(row, col int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.grid.Toggle(row, col)
}

// Grid returns a copy of the current generation.
func (d *Driver) Grid() *grid.Grid {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.grid.Clone()
}
