// Package canvas provides an off-screen pixel buffer with primitive raster operations.
//
// Pixels hold tcell colors; tcell.ColorDefault marks a pixel that shows the
// terminal's own background. Out-of-bounds writes are clipped silently.
package canvas

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/xarrow/vmath"
)

// Canvas is a row-major pixel buffer
type Canvas struct {
	pix    []tcell.Color
	width  int
	height int
}

// New creates a canvas filled with tcell.ColorDefault
func New(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize adjusts dimensions, reallocates only if capacity insufficient
// Contents are reset to tcell.ColorDefault
func (c *Canvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(c.pix) < size {
		c.pix = make([]tcell.Color, size)
	} else {
		c.pix = c.pix[:size]
	}
	c.width = width
	c.height = height
	c.Fill(tcell.ColorDefault)
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// At returns the pixel color, tcell.ColorDefault when out of bounds
func (c *Canvas) At(x, y int) tcell.Color {
	if !c.inBounds(x, y) {
		return tcell.ColorDefault
	}
	return c.pix[y*c.width+x]
}

// Set writes one pixel
func (c *Canvas) Set(x, y int, color tcell.Color) {
	if !c.inBounds(x, y) {
		return
	}
	c.pix[y*c.width+x] = color
}

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Fill sets every pixel using exponential copy
func (c *Canvas) Fill(color tcell.Color) {
	if len(c.pix) == 0 {
		return
	}
	c.pix[0] = color
	for filled := 1; filled < len(c.pix); filled *= 2 {
		copy(c.pix[filled:], c.pix[:filled])
	}
}

// FillRect fills the area clipped to the canvas
func (c *Canvas) FillRect(a vmath.Area, color tcell.Color) {
	x0, y0 := max(a.X, 0), max(a.Y, 0)
	x1, y1 := min(a.X+a.Width, c.width), min(a.Y+a.Height, c.height)
	for y := y0; y < y1; y++ {
		row := c.pix[y*c.width : (y+1)*c.width]
		for x := x0; x < x1; x++ {
			row[x] = color
		}
	}
}

// DrawLine draws a segment including both endpoints (Bresenham)
func (c *Canvas) DrawLine(from, to vmath.Point, color tcell.Color) {
	x0, y0 := from.X, from.Y
	dx := abs(to.X - x0)
	dy := -abs(to.Y - y0)
	sx, sy := 1, 1
	if x0 > to.X {
		sx = -1
	}
	if y0 > to.Y {
		sy = -1
	}
	e := dx + dy

	for {
		c.Set(x0, y0, color)
		if x0 == to.X && y0 == to.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// FillPolygon fills a convex polygon and its outline
// Each scanline is sampled at the pixel center and filled between the outermost edge crossings
func (c *Canvas) FillPolygon(points []vmath.Point, color tcell.Color) {
	switch len(points) {
	case 0:
		return
	case 1:
		c.Set(points[0].X, points[0].Y, color)
		return
	}

	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	minY = max(minY, 0)
	maxY = min(maxY, c.height-1)

	for y := minY; y <= maxY; y++ {
		sample := float64(y) + 0.5
		left, right := math.Inf(1), math.Inf(-1)
		for i := range points {
			a, b := points[i], points[(i+1)%len(points)]
			if a.Y == b.Y {
				continue
			}
			ya, yb := float64(a.Y), float64(b.Y)
			if (sample < ya) == (sample < yb) {
				continue
			}
			x := float64(a.X) + (sample-ya)*float64(b.X-a.X)/(yb-ya)
			left = math.Min(left, x)
			right = math.Max(right, x)
		}
		if left > right {
			continue
		}
		x0 := max(int(math.Ceil(left-0.5)), 0)
		x1 := min(int(math.Floor(right-0.5)), c.width-1)
		row := c.pix[y*c.width : (y+1)*c.width]
		for x := x0; x <= x1; x++ {
			row[x] = color
		}
	}

	for i := range points {
		c.DrawLine(points[i], points[(i+1)%len(points)], color)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
