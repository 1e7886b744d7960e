package analysis

import (
	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/rules"
)

// Cycle describes a trajectory that revisits an earlier generation:
// generation Transient+Period equals generation Transient.
type Cycle struct {
	Transient int
	Period    int
}

// FindCycle steps g0 until the alive pattern repeats an earlier one or
// maxGenerations pass. Cell attributes are not compared, and for random
// variants a repeat says nothing about the future.
func FindCycle(e *rules.Engine, g0 *grid.Grid, rng rules.Rand, maxGenerations int) (Cycle, bool) {
	seen := map[string]int{string(g0.Cells()): 0}
	g := g0
	for gen := 1; gen <= maxGenerations; gen++ {
		g = e.Step(g, rng)
		key := string(g.Cells())
		if first, ok := seen[key]; ok {
			return Cycle{Transient: first, Period: gen - first}, true
		}
		seen[key] = gen
	}
	return Cycle{}, false
}
