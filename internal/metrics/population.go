package metrics

import "github.com/san-kum/cellsim/internal/grid"

// MeanPopulation averages the live-cell count over the generations observed.
type MeanPopulation struct {
	name    string
	sum     float64
	samples int
}

func NewMeanPopulation() *MeanPopulation {
	return &MeanPopulation{
		name: "mean_population",
	}
}

func (m *MeanPopulation) Name() string {
	return m.name
}

func (m *MeanPopulation) Observe(prev, next *grid.Grid, generation int) {
	m.sum += float64(next.AliveCount())
	m.samples++
}

func (m *MeanPopulation) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanPopulation) Reset() {
	m.sum = 0
	m.samples = 0
}

type PeakPopulation struct {
	peak int
}

func NewPeakPopulation() *PeakPopulation { return &PeakPopulation{} }

func (p *PeakPopulation) Name() string { return "peak_population" }

func (p *PeakPopulation) Observe(prev, next *grid.Grid, generation int) {
	if n := prev.AliveCount(); n > p.peak {
		p.peak = n
	}
	if n := next.AliveCount(); n > p.peak {
		p.peak = n
	}
}

func (p *PeakPopulation) Value() float64 { return float64(p.peak) }
func (p *PeakPopulation) Reset()         { p.peak = 0 }

// Extinction records the first generation with no live cells, or -1.
type Extinction struct {
	at int
}

func NewExtinction() *Extinction { return &Extinction{at: -1} }

func (e *Extinction) Name() string { return "extinction_generation" }

func (e *Extinction) Observe(prev, next *grid.Grid, generation int) {
	if e.at < 0 && next.AliveCount() == 0 {
		e.at = generation
	}
}

func (e *Extinction) Value() float64 { return float64(e.at) }
func (e *Extinction) Reset()         { e.at = -1 }
