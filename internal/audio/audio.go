// Package audio sonifies game events. Sound is optional: when no audio
// device is available the player stays silent and the game is unaffected.
package audio

import (
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/dodge/internal/event"
)

const sampleRate = beep.SampleRate(44100)

// Player turns game events into short synthesized sounds.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	play   func(beep.Streamer) // nil while silent
	logger *log.Logger
	rate   beep.SampleRate
}

// NewPlayer creates a silent player. Call Init to open the audio device.
func NewPlayer(logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{mixer: &beep.Mixer{}, logger: logger, rate: sampleRate}
}

// Init opens the speaker. On failure the player stays silent and the error
// is logged and returned for information only.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.play != nil {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(time.Second/10)); err != nil {
		p.logger.Warn("audio unavailable, continuing without sound", "err", err)
		return err
	}
	speaker.Play(p.mixer)
	p.play = func(s beep.Streamer) {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	}
	return nil
}

// Silent reports whether sounds are being dropped.
func (p *Player) Silent() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.play == nil
}

// Close stops every sound and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.play == nil {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.play = nil
}

// Handle is an event.Handler.
func (p *Player) Handle(e event.Event) {
	s := p.soundFor(e)
	if s == nil {
		return
	}
	p.mu.Lock()
	play := p.play
	p.mu.Unlock()
	if play != nil {
		play(s)
	}
}

// soundFor returns the sound of an event, nil for silent events.
func (p *Player) soundFor(e event.Event) beep.Streamer {
	r := p.rate
	switch e.Type {
	case event.Countdown:
		if e.Text == "GO!" {
			return melody(r, note{wave: Square, freq: 880, duration: 220 * time.Millisecond, gain: 0.15})
		}
		return melody(r, note{wave: Square, freq: 440, duration: 120 * time.Millisecond, gain: 0.12})
	case event.Dodged:
		return melody(r, note{wave: Sine, freq: 220, endFreq: 110, duration: 70 * time.Millisecond, gain: 0.35})
	case event.ComboReached:
		// Pitch climbs with the combo, one semitone per step, capped at an octave.
		base := 660 * math.Pow(2, float64(min(e.Combo-3, 12))/12)
		return melody(r,
			note{wave: Square, freq: base, duration: 50 * time.Millisecond, gain: 0.1},
			note{wave: Square, freq: base * 1.5, duration: 80 * time.Millisecond, gain: 0.1},
		)
	case event.HighScoreBroken:
		return melody(r,
			note{wave: Square, freq: 523.25, duration: 100 * time.Millisecond, gain: 0.12},
			note{wave: Square, freq: 659.25, duration: 100 * time.Millisecond, gain: 0.12},
			note{wave: Square, freq: 783.99, duration: 100 * time.Millisecond, gain: 0.12},
			note{wave: Square, freq: 1046.5, duration: 250 * time.Millisecond, gain: 0.14},
		)
	case event.GameOver:
		return beep.Mix(
			melody(r, note{wave: Saw, freq: 120, endFreq: 45, duration: 450 * time.Millisecond, gain: 0.25}),
			melody(r, note{wave: Noise, freq: 1, duration: 300 * time.Millisecond, gain: 0.2}),
		)
	default:
		return nil
	}
}
