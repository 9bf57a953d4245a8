// Package arrow holds the mutable state of the direction indicator.
//
// An Arrow is owned by exactly one control-flow owner and is not safe for
// concurrent use; callers serialize access by construction rather than locking.
package arrow

import (
	"errors"

	"github.com/lixenwraith/xarrow/vmath"
)

// ErrInvalidLength is returned when a non-positive length is requested
var ErrInvalidLength = errors.New("arrow: length must be positive")

// Arrow is a fixed-length shaft pivoting around a center point
type Arrow struct {
	length  int
	center  vmath.Point
	end     vmath.Point
	lastEnd vmath.Point // Last non-degenerate end, reused when a target has no direction
}

// New creates an arrow of the given length pointing along +x from center
func New(length int, center vmath.Point) (*Arrow, error) {
	if length <= 0 {
		return nil, ErrInvalidLength
	}
	end := center.Add(vmath.Point{X: length})
	return &Arrow{
		length:  length,
		center:  center,
		end:     end,
		lastEnd: end,
	}, nil
}

// SetCenter moves the pivot; end is not recomputed until the next SetTarget
func (a *Arrow) SetCenter(center vmath.Point) {
	a.center = center
}

// SetLength changes the shaft length; end is not rescaled until the next SetTarget
func (a *Arrow) SetLength(length int) error {
	if length <= 0 {
		return ErrInvalidLength
	}
	a.length = length
	return nil
}

// SetTarget points the arrow at target
// A target coinciding with the center keeps the previous direction
func (a *Arrow) SetTarget(target vmath.Point) {
	if end, ok := vmath.ClampToLength(a.center, target, a.length); ok {
		a.end = end
		a.lastEnd = end
		return
	}
	a.end = a.lastEnd
}

func (a *Arrow) Length() int          { return a.length }
func (a *Arrow) Center() vmath.Point  { return a.center }
func (a *Arrow) Target() vmath.Point  { return a.end }
func (a *Arrow) LastEnd() vmath.Point { return a.lastEnd }

// Head returns the arrowhead polygon for the current shaft, tip first
func (a *Arrow) Head() [3]vmath.Point {
	return vmath.ArrowheadTriangle(a.center, a.end, a.length)
}
