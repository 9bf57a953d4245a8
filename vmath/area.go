package vmath

// Point is an integer screen coordinate
type Point struct {
	X, Y int
}

// Add returns p translated by q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Area represents a rectangular screen region
type Area struct {
	X, Y          int // Top-left corner
	Width, Height int
}

// Origin returns the top-left corner of the area
func (a Area) Origin() Point {
	return Point{X: a.X, Y: a.Y}
}

// AreaCenter returns the center point of the area, relative to its own origin
func AreaCenter(a Area) Point {
	return Point{
		X: a.Width / 2,
		Y: a.Height / 2,
	}
}

// AreaContains checks if point is within area
func AreaContains(a Area, x, y int) bool {
	return x >= a.X && x < a.X+a.Width && y >= a.Y && y < a.Y+a.Height
}
