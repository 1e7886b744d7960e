// Package rules implements the generation transition for every supported
// automaton variant.
//
// A transition never modifies its input grid. Variants that need
// intra-generation ordering (sacrifice, selfish) do so on a private working
// copy. All randomness comes from the Rand passed to Step, so a seeded
// generator replays a run exactly.
package rules

import (
	"sort"

	"github.com/san-kum/cellsim/internal/grid"
)

// Variant computes one generation. Implementations may keep scratch
// buffers and are not safe for concurrent use.
type Variant interface {
	Name() string
	Transition(g *grid.Grid, cfg Config, rng Rand) *grid.Grid
}

type variantFactory func() Variant

var registry = map[Kind]variantFactory{
	KindStandard:   func() Variant { return &Standard{} },
	KindStochastic: func() Variant { return &Stochastic{} },
	KindWeighted:   func() Variant { return &Weighted{} },
	KindSacrifice:  func() Variant { return &Sacrifice{} },
	KindSelfish:    func() Variant { return &Selfish{} },
}

// Kinds lists the registered variants.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

type Engine struct {
	cfg      Config
	variant  Variant
	fallback Rand
}

// NewEngine validates cfg and binds the variant it selects.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:     cfg,
		variant: registry[cfg.Variant](),
	}, nil
}

func (e *Engine) Config() Config   { return e.cfg }
func (e *Engine) Variant() Variant { return e.variant }

// Step returns the next generation of g. A nil rng falls back to a
// zero-seeded generator owned by the engine.
func (e *Engine) Step(g *grid.Grid, rng Rand) *grid.Grid {
	if rng == nil {
		if e.fallback == nil {
			e.fallback = NewRand(0)
		}
		rng = e.fallback
	}
	return e.variant.Transition(g, e.cfg, rng)
}

// Step is a one-shot transition for callers without an Engine.
func Step(g *grid.Grid, cfg Config, rng Rand) (*grid.Grid, error) {
	e, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	return e.Step(g, rng), nil
}

// survive carries a live cell into next, one generation older.
func survive(next, prev *grid.Grid, row, col int) {
	next.Set(row, col, true)
	next.SetAge(row, col, prev.Age(row, col)+1)
	next.SetVitality(row, col, prev.Vitality(row, col))
	next.SetSelfish(row, col, prev.Selfish(row, col))
}

// born places a newborn with zeroed attributes.
func born(next *grid.Grid, row, col int) {
	next.Set(row, col, true)
}

// scratch hands out working copies of g, recycling buffers while the grid
// size stays the same.
type scratch struct {
	pool *grid.Pool
}

func (s *scratch) copyOf(g *grid.Grid) *grid.Grid {
	if s.pool == nil || !s.pool.Fits(g) {
		s.pool = grid.NewPool(g.Rows(), g.Cols())
	}
	return s.pool.GetAndCopy(g)
}

func (s *scratch) release(g *grid.Grid) {
	if s.pool != nil {
		s.pool.Put(g)
	}
}
