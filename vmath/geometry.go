package vmath

import "math"

const (
	// DegenerateEpsilon is the smallest distance/length ratio treated as a direction
	DegenerateEpsilon = 0.01

	// HeadAngle is the half-opening of the arrowhead (6 degrees)
	HeadAngle = math.Pi / 30

	// HeadScale sizes the arrowhead sides relative to the arrow length
	HeadScale = 0.5
)

// Distance returns the Euclidean distance between a and b
func Distance(a, b Point) float64 {
	return math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
}

// ClampToLength returns the point at exactly length from origin in the direction of target
// ok is false when target is too close to origin to define a direction
func ClampToLength(origin, target Point, length int) (p Point, ok bool) {
	if length <= 0 {
		return Point{}, false
	}
	dx := float64(target.X - origin.X)
	dy := float64(target.Y - origin.Y)
	coeff := math.Hypot(dx, dy) / float64(length)
	if coeff <= DegenerateEpsilon {
		return Point{}, false
	}
	return Point{
		X: origin.X + int(math.Round(dx/coeff)),
		Y: origin.Y + int(math.Round(dy/coeff)),
	}, true
}

// ShaftAngle returns the direction of the tail->tip vector in radians, in (-π, π]
// Atan2 resolves vertical shafts without dividing by dx; a zero vector yields 0
func ShaftAngle(tail, tip Point) float64 {
	return math.Atan2(float64(tip.Y-tail.Y), float64(tip.X-tail.X))
}

// ArrowheadTriangle returns the tip and the two base vertices of the arrowhead
// Base vertices sit HeadScale*size back from the tip, HeadAngle either side of the shaft
func ArrowheadTriangle(tail, tip Point, size int) [3]Point {
	angle := ShaftAngle(tail, tip)
	side := HeadScale * float64(size)

	left := angle - HeadAngle
	right := angle + HeadAngle

	return [3]Point{
		tip,
		{
			X: tip.X - int(math.Round(side*math.Cos(left))),
			Y: tip.Y - int(math.Round(side*math.Sin(left))),
		},
		{
			X: tip.X - int(math.Round(side*math.Cos(right))),
			Y: tip.Y - int(math.Round(side*math.Sin(right))),
		},
	}
}
