package metrics

import "github.com/san-kum/cellsim/internal/grid"

// Stability is the fraction of generations that left the grid unchanged.
type Stability struct {
	name    string
	still   int
	samples int
}

func NewStability() *Stability {
	return &Stability{
		name: "stability",
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(prev, next *grid.Grid, generation int) {
	s.samples++
	if prev.Equal(next) {
		s.still++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return float64(s.still) / float64(s.samples)
}

func (s *Stability) Reset() {
	s.still = 0
	s.samples = 0
}
