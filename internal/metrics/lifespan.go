package metrics

import "github.com/san-kum/cellsim/internal/grid"

// Lifespan records how many generations each cell lived when it dies and
// reports the mean. A cell that dies at age a lived a+1 generations.
type Lifespan struct {
	spans []int
}

func NewLifespan() *Lifespan { return &Lifespan{} }

func (l *Lifespan) Name() string { return "mean_lifespan" }

func (l *Lifespan) Observe(prev, next *grid.Grid, generation int) {
	prev.Each(func(r, c int) {
		if !next.Alive(r, c) {
			l.spans = append(l.spans, prev.Age(r, c)+1)
		}
	})
}

func (l *Lifespan) Value() float64 {
	if len(l.spans) == 0 {
		return 0
	}
	total := 0
	for _, s := range l.spans {
		total += s
	}
	return float64(total) / float64(len(l.spans))
}

// Spans returns the recorded lifespans in the order the cells died.
func (l *Lifespan) Spans() []int {
	out := make([]int, len(l.spans))
	copy(out, l.spans)
	return out
}

func (l *Lifespan) Max() int {
	m := 0
	for _, s := range l.spans {
		if s > m {
			m = s
		}
	}
	return m
}

func (l *Lifespan) Reset() { l.spans = l.spans[:0] }
