package object

import (
	"time"

	"github.com/tomz197/dodge/internal/physics"
)

// BallState is the lifecycle stage of a falling ball.
//
//	Falling -> Collided -> Removed
//	Falling -> Dodged   -> Removed
type BallState int

const (
	BallFalling BallState = iota
	BallCollided
	BallDodged
	BallRemoved
)

func (s BallState) String() string {
	switch s {
	case BallFalling:
		return "falling"
	case BallCollided:
		return "collided"
	case BallDodged:
		return "dodged"
	case BallRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Ball is an object falling from the top edge to the bottom edge over a fixed
// duration.
type Ball struct {
	ID       uint64
	X, Y     float64 // Top-left corner
	Size     float64
	StartY   float64 // Y at spawn (above the top edge)
	EndY     float64 // Y at which the ball counts as having reached the bottom
	Born     time.Time
	Fall     time.Duration
	Progress float64 // 0 at spawn, 1 at the bottom
	Rotation float64 // Degrees, accelerating over the fall

	state   BallState
	outcome BallState // Collided or Dodged once decided
}

// NewBall creates a ball just above the top edge at x.
func NewBall(id uint64, x, size, bottom float64, fall time.Duration, born time.Time) *Ball {
	return &Ball{
		ID:     id,
		X:      x,
		Y:      -size,
		Size:   size,
		StartY: -size,
		EndY:   bottom,
		Born:   born,
		Fall:   fall,
	}
}

// Advance moves the ball to its position at time now. Balls that are no
// longer falling stay where they are.
func (b *Ball) Advance(now time.Time) {
	if b.state != BallFalling {
		return
	}
	progress := 1.0
	if b.Fall > 0 {
		progress = float64(now.Sub(b.Born)) / float64(b.Fall)
	}
	b.Progress = physics.Clamp(progress, 0, 1)
	b.Y = physics.Lerp(b.StartY, b.EndY, b.Progress)
	b.Rotation = 360 * ballRotations * b.Progress * b.Progress
}

// ballRotations is the number of full turns over one fall.
const ballRotations = 3

// Rect returns the ball's bounding box.
func (b *Ball) Rect() physics.Rect {
	return physics.Rect{X: b.X, Y: b.Y, W: b.Size, H: b.Size}
}

// ReachedBottom reports whether the ball has completed its fall.
func (b *Ball) ReachedBottom() bool {
	return b.Progress >= 1
}

// State returns the current lifecycle stage.
func (b *Ball) State() BallState {
	return b.state
}

// Outcome returns BallCollided or BallDodged once decided, BallFalling before.
// It survives removal.
func (b *Ball) Outcome() BallState {
	return b.outcome
}

// Collide moves a falling ball to Collided. Returns false for any other state,
// so a ball can never be both hit and dodged.
func (b *Ball) Collide() bool {
	if b.state != BallFalling {
		return false
	}
	b.state = BallCollided
	b.outcome = BallCollided
	return true
}

// Dodge moves a falling ball to Dodged. Returns false for any other state.
func (b *Ball) Dodge() bool {
	if b.state != BallFalling {
		return false
	}
	b.state = BallDodged
	b.outcome = BallDodged
	return true
}

// Remove takes the ball out of play. A ball still falling is discarded
// without an outcome (game over clears the field). Returns false if the
// ball was already removed.
func (b *Ball) Remove() bool {
	if b.state == BallRemoved {
		return false
	}
	b.state = BallRemoved
	return true
}
