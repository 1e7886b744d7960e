package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/viz"
)

const (
	background = "#0a0a0a"
	aliveFill  = "#00ff00"
	// selfish cells get their own colour so predators stand out
	selfishFill = "#ff00ff"
)

// GridToSVG draws one square per live cell, cell pixels wide.
func GridToSVG(g *grid.Grid, cell int) string {
	if g == nil {
		return ""
	}
	if cell < 1 {
		cell = 1
	}

	width := g.Cols() * cell
	height := g.Rows() * cell

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	g.Each(func(r, c int) {
		fill := aliveFill
		if g.Selfish(r, c) {
			fill = selfishFill
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>
`, c*cell, r*cell, cell, cell, fill))
	})

	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, aliveFill))

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// AliveToSVG plots an alive-count series as a polyline, generation on the
// x axis. An empty series yields an empty string.
func AliveToSVG(alive []int, width, height int, strokeColor string) string {
	if len(alive) == 0 {
		return ""
	}

	maxY := 0
	for _, n := range alive {
		if n > maxY {
			maxY = n
		}
	}
	if maxY == 0 {
		maxY = 1
	}
	spanX := len(alive) - 1
	if spanX == 0 {
		spanX = 1
	}

	// 5% headroom above the peak
	top := float64(maxY) * 1.05

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for gen, n := range alive {
		x := float64(gen) / float64(spanX) * float64(width)
		y := float64(height) - float64(n)/top*float64(height)
		if gen == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
