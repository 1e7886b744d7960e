package rules

import (
	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/neighbor"
)

// Standard is Conway's B3/S23.
type Standard struct{}

func (*Standard) Name() string { return string(KindStandard) }

func (*Standard) Transition(g *grid.Grid, cfg Config, _ Rand) *grid.Grid {
	return conway(g, cfg.Boundary)
}

// conway applies B3/S23 reading only from src.
func conway(src *grid.Grid, b neighbor.Boundary) *grid.Grid {
	next := grid.New(src.Rows(), src.Cols())
	for r := 0; r < src.Rows(); r++ {
		for c := 0; c < src.Cols(); c++ {
			k := neighbor.Count(src, r, c, b)
			switch {
			case src.Alive(r, c) && (k == 2 || k == 3):
				survive(next, src, r, c)
			case !src.Alive(r, c) && k == 3:
				born(next, r, c)
			}
		}
	}
	return next
}
