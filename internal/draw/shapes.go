package draw

import "math"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// RegularPolygon returns the vertices of a regular n-gon inscribed in a
// circle of radius r around (cx, cy), rotated by rotation degrees.
func RegularPolygon(cx, cy, r float64, n int, rotation float64) []Point {
	if n < 3 {
		return nil
	}
	points := make([]Point, n)
	start := rotation * math.Pi / 180
	for i := range points {
		a := start + 2*math.Pi*float64(i)/float64(n)
		points[i] = Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return points
}
