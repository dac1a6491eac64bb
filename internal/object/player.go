package object

import "github.com/tomz197/dodge/internal/physics"

// Player is the hitbox of the face the player steers. Only X changes during
// play; Y is pinned near the bottom edge.
type Player struct {
	X, Y   float64 // Top-left corner
	Width  float64
	Height float64
	screen Screen
}

// NewPlayer creates a player centered horizontally, bottomMargin above the
// bottom edge.
func NewPlayer(screen Screen, width, height, bottomMargin float64) *Player {
	p := &Player{
		Y:      screen.Height - height - bottomMargin,
		Width:  width,
		Height: height,
		screen: screen,
	}
	p.Center()
	return p
}

// Center puts the player in the middle of the play area.
func (p *Player) Center() {
	p.X = (p.screen.Width - p.Width) / 2
}

// MoveTo centers the player on x, kept inside the play area.
func (p *Player) MoveTo(x float64) {
	p.X = physics.Clamp(x-p.Width/2, 0, p.maxX())
}

// MoveBy shifts the player horizontally, kept inside the play area.
func (p *Player) MoveBy(dx float64) {
	p.X = physics.Clamp(p.X+dx, 0, p.maxX())
}

// SetSlider positions the player like a slider: 0 is the left edge, 1 the
// right edge.
func (p *Player) SetSlider(fraction float64) {
	p.X = p.maxX() * physics.Clamp(fraction, 0, 1)
}

func (p *Player) maxX() float64 {
	m := p.screen.Width - p.Width
	if m < 0 {
		return 0
	}
	return m
}

// Rect returns the hitbox.
func (p *Player) Rect() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
}

// CenterPoint returns the middle of the hitbox.
func (p *Player) CenterPoint() (float64, float64) {
	return p.Rect().Center()
}
