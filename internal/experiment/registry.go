package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/cellsim/internal/metrics"
	"github.com/san-kum/cellsim/internal/patterns"
	"github.com/san-kum/cellsim/internal/rules"
	"github.com/san-kum/cellsim/internal/sim"
)

type Registry struct {
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() sim.Metric),
	}

	r.metrics["mean_population"] = func() sim.Metric { return metrics.NewMeanPopulation() }
	r.metrics["peak_population"] = func() sim.Metric { return metrics.NewPeakPopulation() }
	r.metrics["turnover"] = func() sim.Metric { return metrics.NewTurnover() }
	r.metrics["stability"] = func() sim.Metric { return metrics.NewStability() }
	r.metrics["extinction_generation"] = func() sim.Metric { return metrics.NewExtinction() }
	r.metrics["mean_lifespan"] = func() sim.Metric { return metrics.NewLifespan() }

	return r
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListVariants() []string {
	kinds := rules.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

func (r *Registry) ListPatterns() []string {
	return patterns.Names()
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []sim.Metric {
	names := r.ListMetrics()
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		out = append(out, r.metrics[name]())
	}
	return out
}
