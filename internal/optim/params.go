package optim

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/experiment"
	"github.com/san-kum/cellsim/internal/sim"
)

// setters maps sweepable parameter names onto a config. Integer parameters
// are rounded to the nearest whole number.
var setters = map[string]func(*config.Config, float64){
	"p_death":              func(c *config.Config, v float64) { c.Rules.PDeath = v },
	"sacrifice_n":          func(c *config.Config, v float64) { c.Rules.SacrificeN = int(math.Round(v)) },
	"selfishness":          func(c *config.Config, v float64) { c.Rules.Selfishness = v },
	"aggressive_threshold": func(c *config.Config, v float64) { c.Rules.AggressiveThreshold = int(math.Round(v)) },
	"density":              func(c *config.Config, v float64) { c.Init.Density = v },
}

func Params() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply returns a copy of base with the given parameters set.
func Apply(base *config.Config, params map[string]float64) (*config.Config, error) {
	cfg := base.Clone()
	for name, v := range params {
		set, ok := setters[name]
		if !ok {
			return nil, fmt.Errorf("unknown sweep parameter: %s", name)
		}
		set(cfg, v)
	}
	return cfg, nil
}

// Builder returns an experiment factory for GridSearch. Every trial starts
// from base and gets fresh metrics from newMetrics.
func Builder(base *config.Config, newMetrics func() []sim.Metric, logger *log.Logger) func(map[string]float64) (*experiment.Experiment, error) {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg, err := Apply(base, params)
		if err != nil {
			return nil, err
		}
		exp := experiment.New(cfg, experiment.WithLogger(logger))
		var metrics []sim.Metric
		if newMetrics != nil {
			metrics = newMetrics()
		}
		if err := exp.Setup(metrics); err != nil {
			return nil, err
		}
		return exp, nil
	}
}

// ParseRange reads either a comma separated list ("0.1,0.2,0.5") or an
// inclusive "start:stop:step" range.
func ParseRange(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty range")
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("range %q must be start:stop:step", s)
		}
		var nums [3]float64
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("bad range %q: %w", s, err)
			}
			nums[i] = v
		}
		start, stop, step := nums[0], nums[1], nums[2]
		if step <= 0 || stop < start {
			return nil, fmt.Errorf("range %q must have step > 0 and stop >= start", s)
		}
		var out []float64
		n := int(math.Floor((stop-start)/step + 1e-9))
		for i := 0; i <= n; i++ {
			// rounded to suppress float drift in printed values
			out = append(out, math.Round((start+float64(i)*step)*1e9)/1e9)
		}
		return out, nil
	}

	var out []float64
	for _, p := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value in %q: %w", s, err)
		}
		out = append(out, v)
	}
	return out, nil
}
