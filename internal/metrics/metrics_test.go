package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/neighbor"
	"github.com/san-kum/cellsim/internal/rules"
)

func cells(rows, cols int, alive ...[2]int) *grid.Grid {
	g := grid.New(rows, cols)
	for _, c := range alive {
		g.Set(c[0], c[1], true)
	}
	return g
}

// evolve runs n standard generations on a clamped grid and feeds each
// transition to m.
func evolve(t *testing.T, g *grid.Grid, n int, m interface {
	Observe(prev, next *grid.Grid, generation int)
}) *grid.Grid {
	t.Helper()
	cfg := rules.DefaultConfig()
	cfg.Boundary = neighbor.Clamped
	e, err := rules.NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	for i := 1; i <= n; i++ {
		next := e.Step(g, nil)
		m.Observe(g, next, i)
		g = next
	}
	return g
}

func TestDiff(t *testing.T) {
	prev := cells(3, 3, [2]int{0, 0}, [2]int{1, 1})
	next := cells(3, 3, [2]int{1, 1}, [2]int{2, 2}, [2]int{2, 1})
	b, d := Diff(prev, next)
	if b != 2 || d != 1 {
		t.Errorf("Diff = (%d, %d), want (2, 1)", b, d)
	}
}

func TestMeanAndPeakPopulation(t *testing.T) {
	mean := NewMeanPopulation()
	peak := NewPeakPopulation()

	a := cells(5, 5, [2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})
	b := cells(5, 5, [2]int{0, 0}, [2]int{0, 1})
	c := cells(5, 5)

	mean.Observe(a, b, 1)
	mean.Observe(b, c, 2)
	peak.Observe(a, b, 1)
	peak.Observe(b, c, 2)

	if got := mean.Value(); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("mean = %f, want 1.0", got)
	}
	if got := peak.Value(); got != 4 {
		t.Errorf("peak = %f, want 4", got)
	}

	mean.Reset()
	peak.Reset()
	if mean.Value() != 0 || peak.Value() != 0 {
		t.Error("reset did not clear state")
	}
}

func TestExtinction(t *testing.T) {
	m := NewExtinction()
	if m.Value() != -1 {
		t.Errorf("fresh metric = %f, want -1", m.Value())
	}

	evolve(t, cells(5, 5, [2]int{2, 2}, [2]int{2, 3}), 5, m)
	if m.Value() != 1 {
		t.Errorf("domino should vanish at generation 1, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	tests := []struct {
		name string
		seed *grid.Grid
		want float64
	}{
		{"block never changes", cells(4, 4, [2]int{1, 1}, [2]int{1, 2}, [2]int{2, 1}, [2]int{2, 2}), 1.0},
		{"blinker always changes", cells(5, 5, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3}), 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewStability()
			evolve(t, tt.seed, 6, m)
			if got := m.Value(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("stability = %f, want %f", got, tt.want)
			}
		})
	}

	if NewStability().Value() != 1.0 {
		t.Error("empty stability should read as 1")
	}
}

func TestTurnover(t *testing.T) {
	m := NewTurnover()
	evolve(t, cells(5, 5, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3}), 4, m)

	// every blinker phase change kills two cells and births two
	if m.Births() != 8 || m.Deaths() != 8 {
		t.Errorf("births/deaths = %d/%d, want 8/8", m.Births(), m.Deaths())
	}
	if m.Value() != 4 {
		t.Errorf("turnover = %f, want 4", m.Value())
	}
}

func TestLifespan(t *testing.T) {
	m := NewLifespan()
	// blinker ends die after one generation; the center never dies
	evolve(t, cells(5, 5, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3}), 3, m)

	spans := m.Spans()
	if len(spans) != 6 {
		t.Fatalf("expected 6 recorded deaths, got %d", len(spans))
	}
	for _, s := range spans {
		if s != 1 {
			t.Errorf("expected lifespan 1, got %d", s)
		}
	}
	if m.Value() != 1 || m.Max() != 1 {
		t.Errorf("mean/max = %f/%d, want 1/1", m.Value(), m.Max())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset did not clear spans")
	}
}
