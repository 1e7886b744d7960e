package rules

import (
	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/neighbor"
)

// Kill rings are visited in order, once, starting at the left neighbor.
var (
	ring4 = [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	ring8 = [][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
)

func killRing(size int) [][2]int {
	if size == 8 {
		return ring8
	}
	return ring4
}

// Selfish lets crowded selfish cells prey on their neighbors. Cells are
// processed row-major against a working buffer so kills made early in the
// pass are visible to every later cell.
type Selfish struct {
	scratch
	killed []bool
}

func (*Selfish) Name() string { return string(KindSelfish) }

func (s *Selfish) Transition(g *grid.Grid, cfg Config, rng Rand) *grid.Grid {
	work := s.copyOf(g)
	defer s.release(work)
	next := grid.New(g.Rows(), g.Cols())

	if cap(s.killed) < g.Len() {
		s.killed = make([]bool, g.Len())
	}
	s.killed = s.killed[:g.Len()]
	clear(s.killed)

	ring := killRing(cfg.KillRing)

	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			k := neighbor.Count(work, r, c, cfg.Boundary)

			if !work.Alive(r, c) {
				if s.killed[r*g.Cols()+c] {
					continue
				}
				if k == 3 || k == 4 {
					born(next, r, c)
					next.SetSelfish(r, c, rng.Float64() < cfg.Selfishness)
				}
				continue
			}

			if !work.Selfish(r, c) {
				if k == 2 || k == 3 {
					survive(next, work, r, c)
				}
				continue
			}

			switch {
			case k >= cfg.AggressiveThreshold:
				s.prey(work, next, r, c, k-3, ring)
				survive(next, work, r, c)
				next.SetVitality(r, c, work.Vitality(r, c)+1)
			case k <= 1:
				if v := work.Vitality(r, c); v > 0 {
					survive(next, work, r, c)
					next.SetVitality(r, c, v-1)
				}
			default:
				survive(next, work, r, c)
			}
		}
	}
	return next
}

// prey kills up to quota live neighbors of (row, col) along ring. The ring
// is walked once and stops at the grid edge, even on a torus.
func (s *Selfish) prey(work, next *grid.Grid, row, col, quota int, ring [][2]int) {
	for _, d := range ring {
		if quota <= 0 {
			return
		}
		r, c, ok := neighbor.Resolve(work, row, col, d[0], d[1], neighbor.Clamped)
		if !ok || (r == row && c == col) || !work.Alive(r, c) {
			continue
		}
		work.Set(r, c, false)
		next.Set(r, c, false)
		s.killed[r*work.Cols()+c] = true
		quota--
	}
}
