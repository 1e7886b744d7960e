package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/cellsim/internal/experiment"
)

type Goal int

const (
	Minimize Goal = iota
	Maximize
)

func (g Goal) better(a, b float64) bool {
	if g == Maximize {
		return a > b
	}
	return a < b
}

// Trial is one point of the sweep. Err is set when the point could not be
// built or run; Value is then meaningless.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type SearchResult struct {
	Best      map[string]float64
	BestValue float64
	Trials    []Trial
}

// GridSearch runs one experiment per point of the cartesian product of the
// parameter ranges.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	goal       Goal
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("no parameters to sweep")
	}
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("got %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

func (g *GridSearch) SetGoal(goal Goal) { g.goal = goal }

func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (*SearchResult, error) {
	best := math.Inf(1)
	if g.goal == Maximize {
		best = math.Inf(-1)
	}
	res := &SearchResult{BestValue: best, Trials: make([]Trial, 0, g.Size())}

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, res); err != nil {
		return nil, err
	}
	if res.Best == nil {
		return res, fmt.Errorf("no trial produced metric %s", metricName)
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	res *SearchResult,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		trial := Trial{Params: current}
		trial.Value, trial.Err = g.evaluate(ctx, buildExperiment, current, metricName)
		res.Trials = append(res.Trials, trial)
		if trial.Err == nil && (res.Best == nil || g.goal.better(trial.Value, res.BestValue)) {
			res.BestValue = trial.Value
			res.Best = make(map[string]float64, len(current))
			for k, v := range current {
				res.Best[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, res); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(
	ctx context.Context,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	params map[string]float64,
	metricName string,
) (float64, error) {
	exp, err := buildExperiment(params)
	if err != nil {
		return 0, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("metric %s not recorded", metricName)
	}
	return val, nil
}
