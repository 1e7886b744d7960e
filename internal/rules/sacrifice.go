package rules

import (
	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/neighbor"
)

// Sacrifice runs a culling pass before B3/S23: live cells are visited in
// shuffled order and each one whose current neighbor count equals
// SacrificeN dies on the spot. Later visits see earlier removals.
type Sacrifice struct {
	scratch
	order []int
}

func (*Sacrifice) Name() string { return string(KindSacrifice) }

func (s *Sacrifice) Transition(g *grid.Grid, cfg Config, rng Rand) *grid.Grid {
	work := s.copyOf(g)
	defer s.release(work)

	s.order = s.order[:0]
	g.Each(func(r, c int) {
		s.order = append(s.order, r*g.Cols()+c)
	})
	rng.Shuffle(len(s.order), func(i, j int) {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	})

	for _, idx := range s.order {
		r, c := idx/g.Cols(), idx%g.Cols()
		if neighbor.Count(work, r, c, cfg.Boundary) == cfg.SacrificeN {
			work.Set(r, c, false)
		}
	}

	return conway(work, cfg.Boundary)
}
