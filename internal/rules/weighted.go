package rules

import (
	"math"

	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/neighbor"
)

// Weighted thresholds the ceiling of the mask-weighted neighbor sum. With
// DeathSampling on, only round(PDeath * candidates) of the cells that would
// die actually do, chosen uniformly.
type Weighted struct {
	doomed []int
}

func (*Weighted) Name() string { return string(KindWeighted) }

func (w *Weighted) Transition(g *grid.Grid, cfg Config, rng Rand) *grid.Grid {
	next := grid.New(g.Rows(), g.Cols())
	w.doomed = w.doomed[:0]

	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			k := neighbor.Aggregate(g, r, c, cfg.Mask, cfg.Boundary)
			if g.Alive(r, c) {
				if k == 2 || k == 3 {
					survive(next, g, r, c)
				} else {
					w.doomed = append(w.doomed, r*g.Cols()+c)
				}
				continue
			}
			if k == 3 {
				born(next, r, c)
			}
		}
	}

	if !cfg.DeathSampling {
		return next
	}

	n := len(w.doomed)
	expected := int(math.RoundToEven(cfg.PDeath * float64(n)))
	if expected >= n {
		return next
	}

	// Partial Fisher-Yates: the first `expected` entries die, the rest are
	// spared.
	for i := 0; i < expected; i++ {
		j := i + rng.IntN(n-i)
		w.doomed[i], w.doomed[j] = w.doomed[j], w.doomed[i]
	}
	for _, idx := range w.doomed[expected:] {
		survive(next, g, idx/g.Cols(), idx%g.Cols())
	}
	return next
}
