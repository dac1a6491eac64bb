package client

import (
	"time"

	"github.com/tomz197/dodge/internal/event"
	"github.com/tomz197/dodge/internal/loop/config"
)

// floatText is a short-lived message drawn over the play area.
type floatText struct {
	text   string
	color  uint32
	x, y   float64 // Logical position, centre of the text
	born   time.Time
	ttl    time.Duration
	rise   float64 // Logical units the text drifts up over its life
	banner bool    // Drawn large in the middle of the screen
}

// effects turns session events into floating texts.
type effects struct {
	texts []floatText
}

const (
	colorScore     uint32 = 0x76FF03
	colorCountdown uint32 = 0xFFFFFF
	colorGo        uint32 = 0x00E676
	colorRecord    uint32 = 0xFFD700
	colorGameOver  uint32 = 0xFF1744
)

func (fx *effects) handle(e event.Event) {
	switch e.Type {
	case event.Countdown:
		color := colorCountdown
		if e.Text == config.CountdownSteps[len(config.CountdownSteps)-1] {
			color = colorGo
		}
		fx.add(floatText{text: e.Text, color: color, x: config.CanvasWidth / 2, y: config.CanvasHeight / 2,
			born: e.At, ttl: config.CountdownStepTime, banner: true})
	case event.Dodged:
		fx.add(floatText{text: e.Text, color: colorScore, x: e.X, y: e.Y, born: e.At, ttl: config.FloatTextTime, rise: 60})
	case event.ComboReached:
		fx.add(floatText{text: e.Text, color: e.Color, x: e.X, y: e.Y - 80, born: e.At, ttl: config.FloatTextTime, rise: 40})
	case event.HighScoreBroken:
		fx.add(floatText{text: e.Text, color: colorRecord, x: e.X, y: e.Y, born: e.At, ttl: 2 * config.FloatTextTime, banner: true})
	case event.GameStarted, event.GameOver:
		fx.dropBanners()
	}
}

func (fx *effects) add(t floatText) {
	if t.banner {
		fx.dropBanners()
	}
	fx.texts = append(fx.texts, t)
}

func (fx *effects) dropBanners() {
	kept := fx.texts[:0]
	for _, t := range fx.texts {
		if !t.banner {
			kept = append(kept, t)
		}
	}
	fx.texts = kept
}

// live drops expired texts and returns the rest with their current
// position.
func (fx *effects) live(now time.Time) []floatText {
	kept := fx.texts[:0]
	for _, t := range fx.texts {
		if now.Sub(t.born) < t.ttl {
			kept = append(kept, t)
		}
	}
	fx.texts = kept

	out := make([]floatText, len(kept))
	for i, t := range kept {
		progress := float64(now.Sub(t.born)) / float64(t.ttl)
		t.y -= t.rise * progress
		out[i] = t
	}
	return out
}

func (fx *effects) reset() {
	fx.texts = fx.texts[:0]
}
