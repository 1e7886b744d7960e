package metrics

import "github.com/san-kum/cellsim/internal/grid"

// Turnover is the mean number of births plus deaths per generation.
type Turnover struct {
	births  int
	deaths  int
	samples int
}

func NewTurnover() *Turnover { return &Turnover{} }

func (t *Turnover) Name() string { return "turnover" }

func (t *Turnover) Observe(prev, next *grid.Grid, generation int) {
	b, d := Diff(prev, next)
	t.births += b
	t.deaths += d
	t.samples++
}

func (t *Turnover) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return float64(t.births+t.deaths) / float64(t.samples)
}

func (t *Turnover) Births() int { return t.births }
func (t *Turnover) Deaths() int { return t.deaths }

func (t *Turnover) Reset() {
	t.births = 0
	t.deaths = 0
	t.samples = 0
}

// Diff counts the cells born and the cells that died between two
// generations of the same size.
func Diff(prev, next *grid.Grid) (births, deaths int) {
	for r := 0; r < next.Rows(); r++ {
		for c := 0; c < next.Cols(); c++ {
			was, is := prev.Alive(r, c), next.Alive(r, c)
			switch {
			case is && !was:
				births++
			case was && !is:
				deaths++
			}
		}
	}
	return births, deaths
}
