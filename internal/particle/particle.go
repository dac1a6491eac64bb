// Package particle simulates short-lived visual particles: sparkles when a
// ball is dodged, an explosion on a hit, confetti for a new record and a fire
// trail for combos.
package particle

// Gravity is added to every particle's vertical velocity each tick.
const Gravity = 0.5

// Shape is the outline a particle is drawn with.
type Shape int

const (
	Circle Shape = iota
	Square
	Star
	Triangle
	Heart
)

func (s Shape) String() string {
	switch s {
	case Circle:
		return "circle"
	case Square:
		return "square"
	case Star:
		return "star"
	case Triangle:
		return "triangle"
	case Heart:
		return "heart"
	default:
		return "unknown"
	}
}

// Color is an opaque 0xRRGGBB value.
type Color uint32

// RGB splits the color into its channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Particle is one piece of a burst. Units are logical canvas units per tick;
// Life and MaxLife count ticks.
type Particle struct {
	X, Y          float64
	VX, VY        float64
	Life          float64 // Ticks remaining
	MaxLife       float64 // Reference lifetime for fading
	Size          float64
	Color         Color
	Rotation      float64 // Degrees
	RotationSpeed float64 // Degrees per tick
	Shape         Shape
}

// Alpha returns the opacity derived from remaining life, 0..255.
func (p *Particle) Alpha() uint8 {
	if p.MaxLife <= 0 {
		return 0
	}
	a := p.Life / p.MaxLife * 255
	if a < 0 {
		return 0
	}
	if a > 255 {
		return 255
	}
	return uint8(a)
}

// step advances the particle by one tick. Returns false once it has died.
func (p *Particle) step() bool {
	p.VY += Gravity
	p.X += p.VX
	p.Y += p.VY
	p.Life--
	p.Rotation += p.RotationSpeed
	return p.Life > 0
}
