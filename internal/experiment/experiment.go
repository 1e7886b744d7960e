package experiment

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/patterns"
	"github.com/san-kum/cellsim/internal/rules"
	"github.com/san-kum/cellsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	rules     rules.Config
	simulator *sim.Simulator
	logger    *log.Logger
}

type Option func(*Experiment)

func WithLogger(l *log.Logger) Option {
	return func(e *Experiment) {
		if l != nil {
			e.logger = l
		}
	}
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Setup validates the configuration and builds the simulator.
func (e *Experiment) Setup(metrics []sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	rc, err := e.cfg.RuleConfig()
	if err != nil {
		return err
	}
	s, err := sim.New(rc, sim.WithLogger(e.logger))
	if err != nil {
		return err
	}
	for _, m := range metrics {
		s.AddMetric(m)
	}
	e.rules = rc
	e.simulator = s
	return nil
}

// SeedGrid builds generation 0 from the init section of the config.
func (e *Experiment) SeedGrid() (*grid.Grid, error) {
	return InitialGrid(e.cfg)
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	g0, err := e.SeedGrid()
	if err != nil {
		return nil, err
	}
	return e.simulator.Run(ctx, g0, e.cfg.SimConfig())
}

// RunEnsemble repeats the run over seeds cfg.Seed, cfg.Seed+1, ... starting
// from the same seed grid. Each member gets fresh metrics from newMetrics.
func (e *Experiment) RunEnsemble(ctx context.Context, runs, parallel int, newMetrics func() []sim.Metric) ([]*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	if runs <= 0 {
		return nil, fmt.Errorf("ensemble size must be positive, got %d", runs)
	}
	g0, err := e.SeedGrid()
	if err != nil {
		return nil, err
	}

	build := func() (*sim.Simulator, error) {
		s, err := sim.New(e.rules, sim.WithLogger(e.logger))
		if err != nil {
			return nil, err
		}
		if newMetrics != nil {
			for _, m := range newMetrics() {
				s.AddMetric(m)
			}
		}
		return s, nil
	}

	ens := sim.NewEnsemble(build, runs, e.cfg.Seed)
	ens.SetLimit(parallel)
	return ens.Run(ctx, g0, e.cfg.SimConfig())
}

// NewDriver returns a stateful driver over the seed grid for interactive use.
func (e *Experiment) NewDriver() (*sim.Driver, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	engine, err := rules.NewEngine(e.rules)
	if err != nil {
		return nil, err
	}
	g0, err := e.SeedGrid()
	if err != nil {
		return nil, err
	}
	return sim.NewDriver(engine, g0, e.cfg.Seed), nil
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// InitialGrid stamps the configured pattern, or fills the grid at random
// from the config seed. Selfish runs then mark a share of the live cells
// selfish.
func InitialGrid(cfg *config.Config) (*grid.Grid, error) {
	g := grid.New(cfg.Rows, cfg.Cols)
	rng := rules.NewRand(cfg.Seed)

	if cfg.Init.Pattern != "" {
		p, err := patterns.Get(cfg.Init.Pattern)
		if err != nil {
			return nil, err
		}
		patterns.Place(g, p, cfg.Init.Row, cfg.Init.Col)
	} else {
		patterns.Fill(g, cfg.Init.Density, rng)
	}

	kind, err := rules.ParseKind(cfg.Variant)
	if err != nil {
		return nil, err
	}
	if kind == rules.KindSelfish {
		rules.AssignSelfishness(g, cfg.Rules.Selfishness, rng)
	}
	return g, nil
}
