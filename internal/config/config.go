package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cellsim/internal/neighbor"
	"github.com/san-kum/cellsim/internal/rules"
	"github.com/san-kum/cellsim/internal/sim"
)

const (
	DefaultRows        = 40
	DefaultCols        = 60
	DefaultGenerations = 200
	DefaultDensity     = 0.25
	DefaultSeed        = 42
)

type Config struct {
	Variant     string     `yaml:"variant"`
	Rows        int        `yaml:"rows"`
	Cols        int        `yaml:"cols"`
	Boundary    string     `yaml:"boundary"`
	Generations int        `yaml:"generations"`
	Seed        int64      `yaml:"seed"`
	Init        InitConfig `yaml:"init"`
	Rules       RuleParams `yaml:"rules"`
	Run         RunOptions `yaml:"run"`
}

// InitConfig describes the seed grid: a named pattern stamped at (row, col),
// or random noise at the given density when no pattern is set.
type InitConfig struct {
	Pattern string  `yaml:"pattern,omitempty"`
	Row     int     `yaml:"row"`
	Col     int     `yaml:"col"`
	Density float64 `yaml:"density"`
}

type RuleParams struct {
	Mask                string      `yaml:"mask" json:"mask"`
	CustomMask          [][]float64 `yaml:"custom_mask,omitempty" json:"custom_mask,omitempty"`
	PDeath              float64     `yaml:"p_death" json:"p_death"`
	DeathSampling       bool        `yaml:"death_sampling" json:"death_sampling"`
	SacrificeN          int         `yaml:"sacrifice_n" json:"sacrifice_n"`
	Selfishness         float64     `yaml:"selfishness" json:"selfishness"`
	KillRing            int         `yaml:"kill_ring" json:"kill_ring"`
	AggressiveThreshold int         `yaml:"aggressive_threshold" json:"aggressive_threshold"`
}

type RunOptions struct {
	StopOnExtinction bool `yaml:"stop_on_extinction"`
	StopOnStable     bool `yaml:"stop_on_stable"`
	SnapshotEvery    int  `yaml:"snapshot_every"`
	LogEvery         int  `yaml:"log_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Variant:     string(rules.KindStandard),
		Rows:        DefaultRows,
		Cols:        DefaultCols,
		Boundary:    neighbor.Toroidal.String(),
		Generations: DefaultGenerations,
		Seed:        DefaultSeed,
		Init: InitConfig{
			Density: DefaultDensity,
		},
		Rules: RuleParams{
			Mask:                "standard",
			KillRing:            rules.DefaultKillRing,
			AggressiveThreshold: rules.DefaultAggressiveThreshold,
		},
		Run: RunOptions{
			LogEvery: 50,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Clone returns a deep copy, so presets can be edited by flags safely.
func (c *Config) Clone() *Config {
	cp := *c
	if c.Rules.CustomMask != nil {
		cp.Rules.CustomMask = make([][]float64, len(c.Rules.CustomMask))
		for i, row := range c.Rules.CustomMask {
			cp.Rules.CustomMask[i] = append([]float64(nil), row...)
		}
	}
	return &cp
}

// RuleConfig resolves names into a validated rules.Config.
func (c *Config) RuleConfig() (rules.Config, error) {
	kind, err := rules.ParseKind(c.Variant)
	if err != nil {
		return rules.Config{}, err
	}
	boundary, err := neighbor.ParseBoundary(c.Boundary)
	if err != nil {
		return rules.Config{}, &rules.ConfigError{Field: "boundary", Value: c.Boundary, Reason: "unknown boundary", Err: err}
	}
	mask, err := c.mask()
	if err != nil {
		return rules.Config{}, err
	}

	rc := rules.Config{
		Variant:             kind,
		Boundary:            boundary,
		Mask:                mask,
		PDeath:              c.Rules.PDeath,
		DeathSampling:       c.Rules.DeathSampling,
		SacrificeN:          c.Rules.SacrificeN,
		Selfishness:         c.Rules.Selfishness,
		KillRing:            c.Rules.KillRing,
		AggressiveThreshold: c.Rules.AggressiveThreshold,
	}
	if err := rc.Validate(); err != nil {
		return rules.Config{}, err
	}
	return rc, nil
}

func (c *Config) mask() (neighbor.Mask, error) {
	if len(c.Rules.CustomMask) == 0 {
		m, err := neighbor.MaskByName(c.Rules.Mask)
		if err != nil {
			return neighbor.Mask{}, &rules.ConfigError{Field: "mask", Value: c.Rules.Mask, Reason: "unknown mask", Err: err}
		}
		return m, nil
	}

	var m neighbor.Mask
	if len(c.Rules.CustomMask) != 3 {
		return m, &rules.ConfigError{Field: "custom_mask", Value: c.Rules.CustomMask, Reason: "must be 3x3"}
	}
	for i, row := range c.Rules.CustomMask {
		if len(row) != 3 {
			return m, &rules.ConfigError{Field: "custom_mask", Value: c.Rules.CustomMask, Reason: "must be 3x3"}
		}
		copy(m[i][:], row)
	}
	if m == (neighbor.Mask{}) {
		return m, &rules.ConfigError{Field: "custom_mask", Value: c.Rules.CustomMask, Reason: "all weights are zero"}
	}
	return m, nil
}

// SimConfig extracts the driver settings.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Generations:      c.Generations,
		Seed:             c.Seed,
		StopOnExtinction: c.Run.StopOnExtinction,
		StopOnStable:     c.Run.StopOnStable,
		SnapshotEvery:    c.Run.SnapshotEvery,
		LogEvery:         c.Run.LogEvery,
	}
}

// Validate checks the grid shape and the rule configuration.
func (c *Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("grid size must be positive, got %dx%d", c.Rows, c.Cols)
	}
	if c.Generations <= 0 {
		return fmt.Errorf("generations must be positive, got %d", c.Generations)
	}
	if c.Init.Density < 0 || c.Init.Density > 1 {
		return fmt.Errorf("init density must be in [0,1], got %g", c.Init.Density)
	}
	if _, err := c.RuleConfig(); err != nil {
		return err
	}
	return nil
}
