// Package object holds the entities of a game: falling balls, the player face
// and the spawner that feeds balls into play.
package object

// Screen is the logical play area. The origin is the top-left corner.
type Screen struct {
	Width  float64
	Height float64
}

// FractionX maps a fraction of the width (0..1) to a logical x coordinate.
func (s Screen) FractionX(f float64) float64 {
	return s.Width * f
}

// FractionY maps a fraction of the height (0..1) to a logical y coordinate.
func (s Screen) FractionY(f float64) float64 {
	return s.Height * f
}
