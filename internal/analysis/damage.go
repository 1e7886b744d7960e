package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/rules"
)

// Hamming counts cells whose alive state differs. a and b must have the
// same shape.
func Hamming(a, b *grid.Grid) int {
	ca, cb := a.Cells(), b.Cells()
	d := 0
	for i := range ca {
		if ca[i] != cb[i] {
			d++
		}
	}
	return d
}

// Damage runs g0 next to a copy with (row, col) flipped. Both copies use
// generators seeded with seed, so random variants draw the same sequence
// as long as they make the same number of draws. The result holds the
// distance for generations 0..generations.
func Damage(cfg rules.Config, g0 *grid.Grid, row, col, generations int, seed int64) ([]int, error) {
	if !g0.InBounds(row, col) {
		return nil, fmt.Errorf("damage cell (%d,%d) outside %dx%d grid", row, col, g0.Rows(), g0.Cols())
	}
	if generations < 0 {
		return nil, fmt.Errorf("generations must be non-negative, got %d", generations)
	}

	base, err := rules.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	// variants keep scratch state, so each trajectory gets its own engine
	twin, err := rules.NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	a := g0.Clone()
	b := g0.Clone()
	b.Toggle(row, col)
	ra, rb := rules.NewRand(seed), rules.NewRand(seed)

	dist := make([]int, 0, generations+1)
	dist = append(dist, Hamming(a, b))
	for gen := 0; gen < generations; gen++ {
		a = base.Step(a, ra)
		b = twin.Step(b, rb)
		dist = append(dist, Hamming(a, b))
	}
	return dist, nil
}

// DamageRate is the mean per-generation log growth of the distance, taken
// over steps where the damage is present before and after.
func DamageRate(dist []int) float64 {
	sum := 0.0
	count := 0
	for i := 1; i < len(dist); i++ {
		if dist[i-1] > 0 && dist[i] > 0 {
			sum += math.Log(float64(dist[i]) / float64(dist[i-1]))
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
