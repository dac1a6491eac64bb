package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

// Wave is an oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Square
	Saw
	Noise
)

// tone is a fixed-length oscillator whose frequency glides linearly from
// freq to endFreq, shaped by a linear attack and release.
type tone struct {
	rate     beep.SampleRate
	wave     Wave
	freq     float64
	endFreq  float64
	gain     float64
	total    int
	attack   int
	release  int
	pos      int
	phase    float64
	noiseRNG *rand.Rand
}

func newTone(rate beep.SampleRate, wave Wave, freq, endFreq float64, d, attack, release time.Duration, gain float64) *tone {
	t := &tone{
		rate:    rate,
		wave:    wave,
		freq:    freq,
		endFreq: endFreq,
		gain:    gain,
		total:   rate.N(d),
		attack:  rate.N(attack),
		release: rate.N(release),
	}
	if wave == Noise {
		t.noiseRNG = rand.New(rand.NewSource(int64(freq*1000) + int64(d)))
	}
	return t
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}
		v := t.sample() * t.envelope() * t.gain
		samples[i][0] = v
		samples[i][1] = v

		progress := float64(t.pos) / float64(t.total)
		f := t.freq + (t.endFreq-t.freq)*progress
		t.phase += f / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

func (t *tone) sample() float64 {
	switch t.wave {
	case Square:
		if t.phase < 0.5 {
			return 1
		}
		return -1
	case Saw:
		return 2 * (t.phase - 0.5)
	case Noise:
		return t.noiseRNG.Float64()*2 - 1
	default:
		return math.Sin(2 * math.Pi * t.phase)
	}
}

func (t *tone) envelope() float64 {
	if t.attack > 0 && t.pos < t.attack {
		return float64(t.pos) / float64(t.attack)
	}
	if left := t.total - t.pos; t.release > 0 && left < t.release {
		return float64(left) / float64(t.release)
	}
	return 1
}

// note is one step of a melody.
type note struct {
	wave     Wave
	freq     float64
	endFreq  float64
	duration time.Duration
	gain     float64
}

// melody plays notes back to back.
func melody(rate beep.SampleRate, notes ...note) beep.Streamer {
	parts := make([]beep.Streamer, len(notes))
	for i, n := range notes {
		end := n.endFreq
		if end == 0 {
			end = n.freq
		}
		attack := min(5*time.Millisecond, n.duration/4)
		release := min(40*time.Millisecond, n.duration/2)
		parts[i] = newTone(rate, n.wave, n.freq, end, n.duration, attack, release, n.gain)
	}
	return beep.Seq(parts...)
}
