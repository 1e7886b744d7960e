package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/cellsim/internal/neighbor"
	"github.com/san-kum/cellsim/internal/rules"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Variant != "standard" {
		t.Errorf("expected variant standard, got %s", cfg.Variant)
	}
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		t.Error("grid size should be positive")
	}
	if cfg.Generations <= 0 {
		t.Error("generations should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestRuleConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variant = "weighted"
	cfg.Boundary = "clamped"
	cfg.Rules.Mask = "hex2"
	cfg.Rules.PDeath = 0.25
	cfg.Rules.DeathSampling = true

	rc, err := cfg.RuleConfig()
	if err != nil {
		t.Fatalf("RuleConfig: %v", err)
	}
	if rc.Variant != rules.KindWeighted {
		t.Errorf("variant = %s", rc.Variant)
	}
	if rc.Boundary != neighbor.Clamped {
		t.Errorf("boundary = %s", rc.Boundary)
	}
	if rc.Mask != neighbor.Hex2 {
		t.Errorf("mask = %v", rc.Mask)
	}
	if rc.PDeath != 0.25 || !rc.DeathSampling {
		t.Error("rule parameters not carried over")
	}
}

func TestRuleConfigCustomMask(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variant = "weighted"
	cfg.Rules.CustomMask = [][]float64{{0.5, 1, 0.5}, {1, 0, 1}, {0.5, 1, 0.5}}

	rc, err := cfg.RuleConfig()
	if err != nil {
		t.Fatalf("RuleConfig: %v", err)
	}
	if rc.Mask[0][0] != 0.5 || rc.Mask[1][0] != 1 {
		t.Errorf("custom mask not applied: %v", rc.Mask)
	}
}

func TestRuleConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown variant", func(c *Config) { c.Variant = "brian" }},
		{"unknown boundary", func(c *Config) { c.Boundary = "klein" }},
		{"unknown mask", func(c *Config) { c.Rules.Mask = "octagon" }},
		{"ragged custom mask", func(c *Config) { c.Rules.CustomMask = [][]float64{{1, 1}, {1, 0, 1}, {1, 1, 1}} }},
		{"short custom mask", func(c *Config) { c.Rules.CustomMask = [][]float64{{1, 1, 1}} }},
		{"all-zero custom mask", func(c *Config) { c.Rules.CustomMask = [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}} }},
		{"threshold outside three and four", func(c *Config) { c.Rules.AggressiveThreshold = 1 }},
		{"probability out of range", func(c *Config) { c.Rules.PDeath = 1.2 }},
		{"sacrifice out of range", func(c *Config) { c.Rules.SacrificeN = 12 }},
		{"bad kill ring", func(c *Config) { c.Rules.KillRing = 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			_, err := cfg.RuleConfig()
			if !errors.Is(err, rules.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if cfg.Validate() == nil {
				t.Error("Validate should fail too")
			}
		})
	}
}

func TestValidateShape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows = 0
	if cfg.Validate() == nil {
		t.Error("expected error for zero rows")
	}

	cfg = DefaultConfig()
	cfg.Generations = -1
	if cfg.Validate() == nil {
		t.Error("expected error for negative generations")
	}

	cfg = DefaultConfig()
	cfg.Init.Density = 1.5
	if cfg.Validate() == nil {
		t.Error("expected error for density above 1")
	}
}

func TestSimConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generations = 77
	cfg.Seed = 5
	cfg.Run.StopOnStable = true
	cfg.Run.SnapshotEvery = 10

	sc := cfg.SimConfig()
	if sc.Generations != 77 || sc.Seed != 5 || !sc.StopOnStable || sc.SnapshotEvery != 10 {
		t.Errorf("unexpected sim config %+v", sc)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Variant = "selfish"
	cfg.Rules.Selfishness = 0.4
	cfg.Rules.KillRing = 8
	cfg.Init.Pattern = "glider"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Variant != "selfish" || loaded.Rules.Selfishness != 0.4 || loaded.Rules.KillRing != 8 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.Init.Pattern != "glider" {
		t.Errorf("pattern = %q", loaded.Init.Pattern)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("variant: stochastic\nrules:\n  p_death: 0.1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rows != DefaultRows || cfg.Generations != DefaultGenerations {
		t.Error("missing fields should keep defaults")
	}
	if cfg.Rules.KillRing != rules.DefaultKillRing {
		t.Errorf("kill ring = %d, want default", cfg.Rules.KillRing)
	}
	if cfg.Rules.PDeath != 0.1 {
		t.Errorf("p_death = %f", cfg.Rules.PDeath)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("rows: [not, a, number]\n"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("stochastic", "mild")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Rules.PDeath != 0.02 {
		t.Errorf("expected p_death 0.02, got %f", cfg.Rules.PDeath)
	}

	cfg.Rules.PDeath = 0.9
	if GetPreset("stochastic", "mild").Rules.PDeath != 0.02 {
		t.Error("editing a returned preset changed the catalogue")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("standard", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "soup") != nil {
		t.Error("expected nil for nonexistent variant")
	}
}

func TestPresetsAreValid(t *testing.T) {
	for variant, presets := range Presets {
		for name, cfg := range presets {
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset %s/%s invalid: %v", variant, name, err)
			}
			if cfg.Variant != variant {
				t.Errorf("preset %s/%s has variant %s", variant, name, cfg.Variant)
			}
		}
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("selfish")
	if len(presets) != 2 || presets[0] != "half" {
		t.Errorf("unexpected presets %v", presets)
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent variant")
	}
}
