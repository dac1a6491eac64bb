// Package config centralizes all tunable game parameters.
package config

import "time"

// Play area in logical units. Rendering scales to fit the terminal.
const (
	CanvasWidth  = 400
	CanvasHeight = 700
)

// Falling balls
const BallSize = 70

// Player face
const (
	PlayerWidth        = 64
	PlayerHeight       = 64
	PlayerBottomMargin = 40  // Gap between the face and the bottom edge
	PlayerSpeed        = 520 // Units per second while a direction key is held
)

// Scoring
const (
	ComboWindow         = time.Second // Max gap between two dodges that extends a combo
	ComboTrailThreshold = 3           // Combo size that starts the fire trail
)

// Particle bursts
const (
	DodgeSparkleCount = 12
	ComboTrailCount   = 15
	ExplosionCount    = 50
	DodgeSparkleLift  = 50 // Sparkles appear this far above the bottom edge
)

// Countdown before spawning starts
var CountdownSteps = []string{"3", "2", "1", "GO!"}

const CountdownStepTime = 800 * time.Millisecond

// Tick rates. The simulation, the particle engine and the client render loop
// run on independent timers.
const (
	MotionTickTime   = 16 * time.Millisecond
	ParticleTickTime = time.Second / 60

	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Client rendering
const (
	MaxTermWidth  = 120 // Max columns used for rendering
	MaxTermHeight = 60  // Max rows used for rendering
	HUDRows       = 2   // Rows reserved above the play area
	FloatTextTime = 900 * time.Millisecond
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)
