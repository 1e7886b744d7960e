package rules

import "github.com/san-kum/cellsim/internal/grid"

// AssignSelfishness marks int(alive * level) live cells selfish, chosen
// uniformly without replacement, and clears the flag on the rest. It
// returns the number of cells marked.
func AssignSelfishness(g *grid.Grid, level float64, rng Rand) int {
	var cells [][2]int
	g.Each(func(r, c int) {
		g.SetSelfish(r, c, false)
		cells = append(cells, [2]int{r, c})
	})

	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	n := int(float64(len(cells)) * level)

	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(cells)-i)
		cells[i], cells[j] = cells[j], cells[i]
		g.SetSelfish(cells[i][0], cells[i][1], true)
	}
	return n
}
