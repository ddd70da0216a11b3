package visualizer

import (
	"strings"

	"github.com/msto63/mcpi/internal/buffon/model"
	"github.com/msto63/mcpi/internal/tui"
)

// maxPlotted caps the samples kept for redrawing after a resize
const maxPlotted = 20_000

type cell uint8

const (
	cellEmpty cell = iota
	cellInside
	cellOutside
)

// canvas rasterizes samples on [-1,1)² into a character grid. A cell shows
// the most recent sample that landed in it.
type canvas struct {
	width, height int
	cells         []cell
	plotted       []model.PointSample
}

func newCanvas(width, height int) *canvas {
	c := &canvas{}
	c.resize(width, height)
	return c
}

func (c *canvas) resize(width, height int) {
	c.width = max(width, 1)
	c.height = max(height, 1)
	c.cells = make([]cell, c.width*c.height)
	for _, p := range c.plotted {
		c.set(p)
	}
}

func (c *canvas) clear() {
	c.plotted = c.plotted[:0]
	for i := range c.cells {
		c.cells[i] = cellEmpty
	}
}

func (c *canvas) plot(p model.PointSample) {
	if len(c.plotted) < maxPlotted {
		c.plotted = append(c.plotted, p)
	}
	c.set(p)
}

func (c *canvas) set(p model.PointSample) {
	col, row := c.cellOf(p.X, p.Y)
	if p.InsideCircle {
		c.cells[row*c.width+col] = cellInside
	} else {
		c.cells[row*c.width+col] = cellOutside
	}
}

// cellOf maps a point to its column and row; y grows upwards
func (c *canvas) cellOf(x, y float64) (int, int) {
	col := int((x + 1) / 2 * float64(c.width))
	row := int((1 - y) / 2 * float64(c.height))
	return clamp(col, 0, c.width-1), clamp(row, 0, c.height-1)
}

func (c *canvas) at(col, row int) cell {
	return c.cells[row*c.width+col]
}

func (c *canvas) render() string {
	var b strings.Builder
	for row := 0; row < c.height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		// runs of equal cells share one styled segment
		start := 0
		for col := 1; col <= c.width; col++ {
			if col < c.width && c.at(col, row) == c.at(start, row) {
				continue
			}
			b.WriteString(renderRun(c.at(start, row), col-start))
			start = col
		}
	}
	return b.String()
}

func renderRun(kind cell, n int) string {
	switch kind {
	case cellInside:
		return tui.InsidePointStyle.Render(strings.Repeat("•", n))
	case cellOutside:
		return tui.OutsidePointStyle.Render(strings.Repeat("•", n))
	default:
		return strings.Repeat(" ", n)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
