package surface

import (
	"github.com/lixenwraith/xarrow/event"
	"github.com/lixenwraith/xarrow/vmath"
)

// Window frame layout, in cells
// The content area is framed by a one-cell border; the top border is the title bar
const (
	closeGlyph = "[x]"
	frameInset = 1
)

// window tracks the panel placement in cell units
// Content pixels: one per column horizontally, two per row vertically
type window struct {
	col, row   int // content top-left cell
	cols, rows int // content size in cells
	side       int // requested square side in pixels
}

// fit clamps the window to a desktop of width x height cells, keeping the content square in pixels
func (w *window) fit(width, height int) {
	side := w.side
	side = min(side, width-2*frameInset, 2*(height-2*frameInset))
	side &^= 1
	if side < 0 {
		side = 0
	}
	w.cols = side
	w.rows = side / 2
	w.col = clamp(w.col, frameInset, width-frameInset-w.cols)
	w.row = clamp(w.row, frameInset, height-frameInset-w.rows)
}

// center places the content in the middle of the desktop
func (w *window) center(width, height int) {
	w.col = (width - w.cols) / 2
	w.row = (height - w.rows) / 2
}

// geometry returns the content area in desktop pixels
func (w *window) geometry() event.Geometry {
	return event.Geometry{
		X:      w.col,
		Y:      w.row * 2,
		Width:  w.cols,
		Height: w.rows * 2,
	}
}

// content returns the content area in cells
func (w *window) content() vmath.Area {
	return vmath.Area{X: w.col, Y: w.row, Width: w.cols, Height: w.rows}
}

// frame returns the content area plus border in cells
func (w *window) frame() vmath.Area {
	return vmath.Area{
		X:      w.col - frameInset,
		Y:      w.row - frameInset,
		Width:  w.cols + 2*frameInset,
		Height: w.rows + 2*frameInset,
	}
}

// onClose reports whether cell (x, y) hits the close glyph on the title bar
func (w *window) onClose(x, y int) bool {
	f := w.frame()
	start := f.X + f.Width - 1 - len(closeGlyph)
	return y == f.Y && x >= start && x < start+len(closeGlyph)
}

// onTitle reports whether cell (x, y) is on the title bar, excluding the close glyph
func (w *window) onTitle(x, y int) bool {
	f := w.frame()
	return y == f.Y && x >= f.X && x < f.X+f.Width && !w.onClose(x, y)
}

// onGrip reports whether cell (x, y) is the bottom-right resize corner
func (w *window) onGrip(x, y int) bool {
	f := w.frame()
	return x == f.X+f.Width-1 && y == f.Y+f.Height-1
}

// cellToPixel maps a terminal cell to the desktop pixel at its upper half
func cellToPixel(x, y int) vmath.Point {
	return vmath.Point{X: x, Y: y * 2}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
