package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/experiment"
	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/optim"
	"github.com/san-kum/cellsim/internal/sim"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. The config is built from Preset or Config
// (a yaml path, relative to the working directory), then Variant and the
// non-zero overrides, then Params using the sweep parameter names.
type ScenarioStep struct {
	Name        string             `yaml:"name"`
	Variant     string             `yaml:"variant"`
	Preset      string             `yaml:"preset,omitempty"`
	Config      string             `yaml:"config,omitempty"`
	Rows        int                `yaml:"rows,omitempty"`
	Cols        int                `yaml:"cols,omitempty"`
	Generations int                `yaml:"generations,omitempty"`
	Seed        int64              `yaml:"seed,omitempty"`
	Boundary    string             `yaml:"boundary,omitempty"`
	Pattern     string             `yaml:"pattern,omitempty"`
	Params      map[string]float64 `yaml:"params,omitempty"`
	Save        bool               `yaml:"save"`
}

// StepResult pairs a finished step with the config it ran under.
type StepResult struct {
	Step    ScenarioStep
	Config  *config.Config
	Initial *grid.Grid
	Result  *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// StepConfig resolves the run configuration of one step.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case step.Config != "":
		c, err := config.Load(step.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	case step.Preset != "":
		variant := step.Variant
		if variant == "" {
			variant = cfg.Variant
		}
		p := config.GetPreset(variant, step.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", step.Preset, config.ListPresets(variant))
		}
		cfg = p
	}

	if step.Variant != "" {
		cfg.Variant = step.Variant
	}
	if step.Rows > 0 {
		cfg.Rows = step.Rows
	}
	if step.Cols > 0 {
		cfg.Cols = step.Cols
	}
	if step.Generations > 0 {
		cfg.Generations = step.Generations
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	if step.Boundary != "" {
		cfg.Boundary = step.Boundary
	}
	if step.Pattern != "" {
		cfg.Init.Pattern = step.Pattern
	}
	if len(step.Params) > 0 {
		return optim.Apply(cfg, step.Params)
	}
	return cfg, nil
}

// RunScenario executes all steps in order and stops at the first failure,
// returning the steps that completed.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		logger.Info("scenario step", "scenario", scenario.Name, "step", name, "n", i+1, "of", len(scenario.Steps))

		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}

		exp := experiment.New(cfg, experiment.WithLogger(logger))
		if err := exp.Setup(registry.DefaultMetrics()); err != nil {
			return results, fmt.Errorf("%s setup: %w", name, err)
		}
		initial, err := exp.SeedGrid()
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s run: %w", name, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Initial: initial, Result: result})
	}

	return results, nil
}
