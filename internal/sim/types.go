package sim

import (
	"fmt"

	"github.com/san-kum/cellsim/internal/grid"
)

// Metric accumulates a statistic over the transitions of a run.
type Metric interface {
	Name() string
	Observe(prev, next *grid.Grid, generation int)
	Value() float64
	Reset()
}

// Observer sees every generation, the seed grid included as generation 0.
type Observer interface {
	OnGeneration(g *grid.Grid, generation int)
}

type Config struct {
	Generations int
	Seed        int64
	// StopOnExtinction ends the run at the first empty generation.
	StopOnExtinction bool
	// StopOnStable ends the run when a generation repeats its predecessor.
	StopOnStable bool
	// SnapshotEvery keeps a copy of every n-th grid. Zero disables snapshots.
	SnapshotEvery int
	// LogEvery emits a debug progress line every n generations.
	LogEvery int
}

func DefaultConfig() Config {
	return Config{
		Generations: 200,
		Seed:        42,
		LogEvery:    50,
	}
}

type Snapshot struct {
	Generation int
	Grid       *grid.Grid
}

type Result struct {
	Seed int64
	// Alive[i] is the population after generation i; Alive[0] is the seed.
	Alive       []int
	Generations int
	Final       *grid.Grid
	Snapshots   []Snapshot
	Metrics     map[string]float64
	Extinct     bool
	ExtinctAt   int
	Stable      bool
	Errors      []error
}

// PeakAlive is the largest population seen.
func (r *Result) PeakAlive() int {
	peak := 0
	for _, n := range r.Alive {
		if n > peak {
			peak = n
		}
	}
	return peak
}

// AliveSeries converts the population history for plotting.
func (r *Result) AliveSeries() []float64 {
	out := make([]float64, len(r.Alive))
	for i, n := range r.Alive {
		out[i] = float64(n)
	}
	return out
}

type SimError struct {
	Generation int
	Message    string
}

func (e SimError) Error() string {
	return fmt.Sprintf("generation %d: %s", e.Generation, e.Message)
}
