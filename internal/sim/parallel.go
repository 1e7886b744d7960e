package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/cellsim/internal/grid"
)

// Ensemble repeats a run over consecutive seeds. Each run gets its own
// Simulator from build so metric state is never shared.
type Ensemble struct {
	build     func() (*Simulator, error)
	numRuns   int
	seedStart int64
	limit     int
}

func NewEnsemble(build func() (*Simulator, error), numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// SetLimit caps the number of concurrent runs. Zero or less means no cap.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

// Run starts every simulation from a copy of g0. The first failure cancels
// the remaining runs.
func (e *Ensemble) Run(ctx context.Context, g0 *grid.Grid, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	eg, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		eg.SetLimit(e.limit)
	}

	for i := 0; i < e.numRuns; i++ {
		idx := i
		eg.Go(func() error {
			s, err := e.build()
			if err != nil {
				return err
			}
			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			res, err := s.Run(ctx, g0.Clone(), cfgCopy)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
