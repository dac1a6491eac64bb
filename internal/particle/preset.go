package particle

import (
	"math"
	"math/rand"
)

// Kind selects a burst preset.
type Kind int

const (
	Sparkle   Kind = iota // Dodge feedback
	Explosion             // Game over
	Confetti              // New record
	Trail                 // Combo fire trail
)

func (k Kind) String() string {
	switch k {
	case Sparkle:
		return "sparkle"
	case Explosion:
		return "explosion"
	case Confetti:
		return "confetti"
	case Trail:
		return "trail"
	default:
		return "unknown"
	}
}

// Straight up on a canvas whose y axis grows downward.
const up = -math.Pi / 2

// preset describes how the particles of one burst kind are born.
// Angles are radians; speeds are units per tick; lives are ticks.
type preset struct {
	angleMin, angleMax float64
	speedMin, speedMax float64
	liftVY             float64 // Added to the initial vertical velocity
	lifeMin, lifeMax   float64
	maxLife            float64
	sizeMin, sizeMax   float64
	spin               float64 // Rotation speed drawn from [-spin, spin]
	jitter             float64 // Spawn offset drawn from [-jitter, jitter] on each axis
	palette            []Color
	shapes             []Shape
}

var presets = map[Kind]preset{
	Sparkle: {
		angleMin: 0, angleMax: 2 * math.Pi,
		speedMin: 4, speedMax: 12,
		lifeMin: 30, lifeMax: 60, maxLife: 60,
		sizeMin: 4, sizeMax: 10,
		spin:    5,
		palette: []Color{0xFFD700, 0xFFFFFF, 0xFFA500},
		shapes:  []Shape{Star},
	},
	Explosion: {
		angleMin: 0, angleMax: 2 * math.Pi,
		speedMin: 5, speedMax: 20,
		liftVY:  -5,
		lifeMin: 40, lifeMax: 80, maxLife: 80,
		sizeMin: 5, sizeMax: 15,
		spin:    10,
		palette: []Color{0xFF4444, 0xFF8800, 0xFFAA00, 0xFFFF00},
		shapes:  []Shape{Circle, Square, Triangle},
	},
	Confetti: {
		angleMin: up - 0.4*math.Pi, angleMax: up + 0.4*math.Pi,
		speedMin: 10, speedMax: 30,
		lifeMin: 80, lifeMax: 160, maxLife: 160,
		sizeMin: 4, sizeMax: 12,
		spin:    7.5,
		palette: []Color{0xFF1744, 0x00E676, 0x2979FF, 0xFFD600, 0xE040FB, 0xFF6D00},
		shapes:  []Shape{Circle, Square, Triangle, Heart},
	},
	Trail: {
		angleMin: up - math.Pi/4, angleMax: up + math.Pi/4,
		speedMin: 2, speedMax: 7,
		lifeMin: 20, lifeMax: 40, maxLife: 40,
		sizeMin: 6, sizeMax: 14,
		spin:    5,
		jitter:  10,
		palette: []Color{0xFF4444, 0xFF8800, 0xFFAA00},
		shapes:  []Shape{Circle},
	},
}

// spawn creates one particle of this preset at (x, y).
func (p preset) spawn(rng *rand.Rand, x, y float64) Particle {
	angle := between(rng, p.angleMin, p.angleMax)
	speed := between(rng, p.speedMin, p.speedMax)
	return Particle{
		X:             x + between(rng, -p.jitter, p.jitter),
		Y:             y + between(rng, -p.jitter, p.jitter),
		VX:            math.Cos(angle) * speed,
		VY:            math.Sin(angle)*speed + p.liftVY,
		Life:          between(rng, p.lifeMin, p.lifeMax),
		MaxLife:       p.maxLife,
		Size:          between(rng, p.sizeMin, p.sizeMax),
		Color:         p.palette[rng.Intn(len(p.palette))],
		Rotation:      rng.Float64() * 360,
		RotationSpeed: between(rng, -p.spin, p.spin),
		Shape:         p.shapes[rng.Intn(len(p.shapes))],
	}
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
