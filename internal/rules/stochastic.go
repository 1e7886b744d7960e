package rules

import (
	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/neighbor"
)

// Stochastic follows B3/S23 but lets chance intervene: a survivor dies with
// probability PDeath and a birth goes through only when the draw exceeds
// PDeath. One draw is taken per qualifying cell, in row-major order.
type Stochastic struct{}

func (*Stochastic) Name() string { return string(KindStochastic) }

func (*Stochastic) Transition(g *grid.Grid, cfg Config, rng Rand) *grid.Grid {
	next := grid.New(g.Rows(), g.Cols())
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			k := neighbor.Count(g, r, c, cfg.Boundary)
			if g.Alive(r, c) {
				if (k == 2 || k == 3) && rng.Float64() >= cfg.PDeath {
					survive(next, g, r, c)
				}
				continue
			}
			if k == 3 && rng.Float64() > cfg.PDeath {
				born(next, r, c)
			}
		}
	}
	return next
}
