package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/tomz197/dodge/internal/event"
)

// drain streams s to the end and returns the number of samples produced.
func drain(t *testing.T, s beep.Streamer) int {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			if math.IsNaN(smp[0]) || math.Abs(smp[0]) > 1 {
				t.Fatalf("sample out of range: %v", smp[0])
			}
		}
		total += n
		if !ok {
			return total
		}
	}
	t.Fatal("stream never ended")
	return 0
}

func TestToneLengthAndEnvelope(t *testing.T) {
	tn := newTone(sampleRate, Sine, 440, 440, 100*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, 1)
	if got, want := drain(t, tn), sampleRate.N(100*time.Millisecond); got != want {
		t.Errorf("samples = %d, want %d", got, want)
	}

	tn = newTone(sampleRate, Square, 440, 440, 100*time.Millisecond, 10*time.Millisecond, 0, 1)
	buf := make([][2]float64, 1)
	tn.Stream(buf)
	if buf[0][0] != 0 {
		t.Errorf("first sample should be silent under the attack, got %v", buf[0][0])
	}
}

func TestEverySoundTerminates(t *testing.T) {
	p := NewPlayer(nil)
	events := []event.Event{
		{Type: event.Countdown, Text: "3"},
		{Type: event.Countdown, Text: "GO!"},
		{Type: event.Dodged},
		{Type: event.ComboReached, Combo: 3},
		{Type: event.ComboReached, Combo: 40},
		{Type: event.HighScoreBroken},
		{Type: event.GameOver},
	}
	for _, e := range events {
		s := p.soundFor(e)
		if s == nil {
			t.Fatalf("no sound for %s", e.Type)
		}
		if drain(t, s) == 0 {
			t.Errorf("%s produced no samples", e.Type)
		}
	}
	if p.soundFor(event.Event{Type: event.ObjectEntered}) != nil {
		t.Error("spawns should be silent")
	}
}

func TestSilentPlayerDropsSounds(t *testing.T) {
	p := NewPlayer(nil)
	if !p.Silent() {
		t.Fatal("new player should be silent until Init")
	}
	p.Handle(event.Event{Type: event.GameOver})
	p.Close()
}

func TestHandleQueuesSound(t *testing.T) {
	p := NewPlayer(nil)
	var queued []beep.Streamer
	p.play = func(s beep.Streamer) { queued = append(queued, s) }

	p.Handle(event.Event{Type: event.Dodged})
	p.Handle(event.Event{Type: event.ScoreChanged})
	if len(queued) != 1 {
		t.Errorf("queued %d sounds, want 1", len(queued))
	}
}
