package render

import (
	"github.com/lixenwraith/xarrow/arrow"
	"github.com/lixenwraith/xarrow/vmath"
)

// Drawer is the primitive drawing surface the renderer targets
// Erase/DrawLine/FillPolygon work on an off-screen buffer until Publish
type Drawer interface {
	Erase()
	DrawLine(from, to vmath.Point)
	FillPolygon(points []vmath.Point)
	Publish()
}

// Renderer draws the arrow as a shaft plus a filled head
type Renderer struct {
	frames uint64
}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render executes the frame: erase, shaft, head, publish
func (r *Renderer) Render(a *arrow.Arrow, d Drawer) {
	d.Erase()
	d.DrawLine(a.Center(), a.Target())
	head := a.Head()
	d.FillPolygon(head[:])
	d.Publish()
	r.frames++
}

// Frames returns the number of frames published
func (r *Renderer) Frames() uint64 {
	return r.frames
}
