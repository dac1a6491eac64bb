// Package physics provides collision detection and clamping utilities.
package physics

// Rect is an axis-aligned box. X,Y is the top-left corner; Y grows downward.
type Rect struct {
	X, Y float64
	W, H float64
}

// Left returns the left edge.
func (r Rect) Left() float64 { return r.X }

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns the top edge.
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the center point.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Overlaps reports whether two boxes intersect. Edges are inclusive, so boxes
// that only touch count as overlapping.
func (r Rect) Overlaps(o Rect) bool {
	return o.Right() >= r.Left() &&
		o.Left() <= r.Right() &&
		o.Bottom() >= r.Top() &&
		o.Top() <= r.Bottom()
}

// Clamp limits v to [lo, hi]. If hi < lo, lo wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Lerp interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
