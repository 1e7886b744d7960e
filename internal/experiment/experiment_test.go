package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/sim"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	for _, name := range r.ListMetrics() {
		m, err := r.GetMetric(name)
		if err != nil {
			t.Fatalf("GetMetric(%q): %v", name, err)
		}
		if m.Name() != name {
			t.Errorf("metric registered as %q reports %q", name, m.Name())
		}
	}

	if _, err := r.GetMetric("entropy"); err == nil {
		t.Error("expected error for unknown metric")
	}
	if len(r.DefaultMetrics()) != len(r.ListMetrics()) {
		t.Error("DefaultMetrics should cover every registered metric")
	}
	if len(r.ListVariants()) != 5 {
		t.Errorf("expected 5 variants, got %v", r.ListVariants())
	}
	if len(r.ListPatterns()) == 0 {
		t.Error("expected patterns")
	}
}

func TestInitialGridPattern(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rows, cfg.Cols = 10, 10
	cfg.Init = config.InitConfig{Pattern: "block", Row: 3, Col: 4}

	g, err := InitialGrid(cfg)
	if err != nil {
		t.Fatalf("InitialGrid: %v", err)
	}
	if g.AliveCount() != 4 || !g.Alive(3, 4) || !g.Alive(4, 5) {
		t.Errorf("block not placed:\n%s", g)
	}

	cfg.Init.Pattern = "unknown"
	if _, err := InitialGrid(cfg); err == nil {
		t.Error("expected error for unknown pattern")
	}
}

func TestInitialGridRandomIsSeeded(t *testing.T) {
	cfg := config.DefaultConfig()
	a, _ := InitialGrid(cfg)
	b, _ := InitialGrid(cfg)
	if !a.Equal(b) {
		t.Error("same seed produced different initial grids")
	}
	cfg.Seed++
	c, _ := InitialGrid(cfg)
	if a.Equal(c) {
		t.Error("different seeds produced the same grid")
	}
}

func TestInitialGridSelfish(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Variant = "selfish"
	cfg.Rules.Selfishness = 0.5

	g, err := InitialGrid(cfg)
	if err != nil {
		t.Fatalf("InitialGrid: %v", err)
	}
	selfish := 0
	g.Each(func(r, c int) {
		if g.Selfish(r, c) {
			selfish++
		}
	})
	if want := int(float64(g.AliveCount()) * 0.5); selfish != want {
		t.Errorf("selfish cells = %d, want %d", selfish, want)
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rows, cfg.Cols = 20, 20
	cfg.Generations = 30

	exp := New(cfg)
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}

	if err := exp.Setup(NewRegistry().DefaultMetrics()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Alive) != 31 {
		t.Errorf("expected 31 alive counts, got %d", len(result.Alive))
	}
	if _, ok := result.Metrics["mean_population"]; !ok {
		t.Error("default metrics missing from result")
	}
}

func TestExperimentSetupRejectsBadConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rules.PDeath = -1
	if err := New(cfg).Setup(nil); err == nil {
		t.Error("expected setup error")
	}
}

func TestExperimentEnsemble(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Variant = "stochastic"
	cfg.Rules.PDeath = 0.1
	cfg.Rows, cfg.Cols = 16, 16
	cfg.Generations = 20

	exp := New(cfg)
	if err := exp.Setup(nil); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	reg := NewRegistry()
	results, err := exp.RunEnsemble(context.Background(), 3, 2, reg.DefaultMetrics)
	if err != nil {
		t.Fatalf("RunEnsemble: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Seed != cfg.Seed+int64(i) {
			t.Errorf("member %d seed %d", i, r.Seed)
		}
		if r.Alive[0] != results[0].Alive[0] {
			t.Error("members should share the seed grid")
		}
	}

	if _, err := exp.RunEnsemble(context.Background(), 0, 1, nil); err == nil {
		t.Error("expected error for empty ensemble")
	}
}

func TestExperimentDriver(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rows, cfg.Cols = 6, 6
	cfg.Init = config.InitConfig{Pattern: "blinker", Row: 2, Col: 1}

	exp := New(cfg)
	if err := exp.Setup([]sim.Metric{}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	d, err := exp.NewDriver()
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	if d.Alive() != 3 || d.Step() != 3 || d.Generation() != 1 {
		t.Error("driver did not advance the blinker")
	}
}
