package sim

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/rules"
)

type Simulator struct {
	rules     rules.Config
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

type Option func(*Simulator)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// New validates the rule configuration up front; every Run builds its own
// engine from it, so one Simulator may serve several goroutines as long as
// its metrics and observers are not shared.
func New(cfg rules.Config, opts ...Option) (*Simulator, error) {
	if _, err := rules.NewEngine(cfg); err != nil {
		return nil, err
	}
	s := &Simulator{
		rules:     cfg,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Rules() rules.Config    { return s.rules }

func (s *Simulator) Run(ctx context.Context, g0 *grid.Grid, cfg Config) (*Result, error) {
	if err := s.validateConfig(g0, cfg); err != nil {
		return nil, err
	}

	engine, err := rules.NewEngine(s.rules)
	if err != nil {
		return nil, err
	}
	rng := rules.NewRand(cfg.Seed)

	result := &Result{
		Seed:    cfg.Seed,
		Alive:   make([]int, 0, cfg.Generations+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	g := g0.Clone()
	alive := g.AliveCount()
	result.Alive = append(result.Alive, alive)
	if alive == 0 {
		result.Extinct = true
	}
	for _, obs := range s.observers {
		obs.OnGeneration(g, 0)
	}

	start := time.Now()
	s.logger.Info("run started",
		"variant", engine.Config().Variant,
		"rows", g.Rows(),
		"cols", g.Cols(),
		"generations", cfg.Generations,
		"seed", cfg.Seed,
		"alive", alive,
	)

	// an empty seed grid is already extinct at generation 0
	stopped := result.Extinct && cfg.StopOnExtinction
	if stopped {
		s.logger.Info("population extinct", "generation", 0)
	}

	for gen := 1; gen <= cfg.Generations && !stopped; gen++ {
		select {
		case <-ctx.Done():
			result.Final = g
			return result, ctx.Err()
		default:
		}

		next := engine.Step(g, rng)
		if next == nil || next.Rows() != g.Rows() || next.Cols() != g.Cols() {
			result.Errors = append(result.Errors, SimError{Generation: gen, Message: "transition produced a mismatched grid"})
			break
		}

		for _, m := range s.metrics {
			m.Observe(g, next, gen)
		}

		alive = next.AliveCount()
		result.Alive = append(result.Alive, alive)
		result.Generations = gen

		if cfg.SnapshotEvery > 0 && gen%cfg.SnapshotEvery == 0 {
			result.Snapshots = append(result.Snapshots, Snapshot{Generation: gen, Grid: next.Clone()})
		}
		for _, obs := range s.observers {
			obs.OnGeneration(next, gen)
		}
		if cfg.LogEvery > 0 && gen%cfg.LogEvery == 0 {
			s.logger.Debug("generation", "n", gen, "alive", alive)
		}

		stable := next.Equal(g)
		g = next

		if alive == 0 && !result.Extinct {
			result.Extinct = true
			result.ExtinctAt = gen
			s.logger.Info("population extinct", "generation", gen)
			if cfg.StopOnExtinction {
				break
			}
		}
		if stable && cfg.StopOnStable {
			result.Stable = true
			s.logger.Info("population stable", "generation", gen, "alive", alive)
			break
		}
	}

	result.Final = g
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Info("run finished",
		"generations", result.Generations,
		"alive", alive,
		"peak", result.PeakAlive(),
		"elapsed", time.Since(start),
	)
	return result, nil
}

func (s *Simulator) validateConfig(g0 *grid.Grid, cfg Config) error {
	if g0 == nil {
		return fmt.Errorf("initial grid is nil")
	}
	if cfg.Generations <= 0 {
		return fmt.Errorf("generations must be positive, got %d", cfg.Generations)
	}
	if cfg.SnapshotEvery < 0 {
		return fmt.Errorf("snapshot interval must not be negative, got %d", cfg.SnapshotEvery)
	}
	return nil
}
