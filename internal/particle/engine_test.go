package particle

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/dodge/internal/sched"
)

func newTestEngine() *Engine {
	return NewEngine(rand.New(rand.NewSource(1)), nil)
}

func TestEmitRespectsPresetRanges(t *testing.T) {
	tests := []struct {
		kind             Kind
		lifeMin, lifeMax float64
		maxLife          float64
		sizeMin, sizeMax float64
		spin             float64
	}{
		{Sparkle, 30, 60, 60, 4, 10, 5},
		{Explosion, 40, 80, 80, 5, 15, 10},
		{Confetti, 80, 160, 160, 4, 12, 7.5},
		{Trail, 20, 40, 40, 6, 14, 5},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			e := newTestEngine()
			e.Emit(tt.kind, 100, 100, 200)
			if e.Len() != 200 {
				t.Fatalf("expected 200 particles, got %d", e.Len())
			}
			for _, p := range e.Particles() {
				if p.Life < tt.lifeMin || p.Life > tt.lifeMax {
					t.Fatalf("life %.2f outside [%v, %v]", p.Life, tt.lifeMin, tt.lifeMax)
				}
				if p.Life > p.MaxLife || p.MaxLife != tt.maxLife {
					t.Fatalf("life %.2f / maxLife %.2f", p.Life, p.MaxLife)
				}
				if p.Size < tt.sizeMin || p.Size > tt.sizeMax {
					t.Fatalf("size %.2f outside [%v, %v]", p.Size, tt.sizeMin, tt.sizeMax)
				}
				if math.Abs(p.RotationSpeed) > tt.spin {
					t.Fatalf("rotation speed %.2f exceeds %v", p.RotationSpeed, tt.spin)
				}
			}
		})
	}
}

func TestConfettiAndTrailLaunchUpward(t *testing.T) {
	for _, kind := range []Kind{Confetti, Trail} {
		e := newTestEngine()
		e.Emit(kind, 0, 0, 100)
		for _, p := range e.Particles() {
			if p.VY >= 0 {
				t.Fatalf("%s particle launched downward: vy=%.2f", kind, p.VY)
			}
		}
	}
}

func TestTrailJitter(t *testing.T) {
	e := newTestEngine()
	e.Emit(Trail, 50, 50, 100)
	for _, p := range e.Particles() {
		if math.Abs(p.X-50) > 10 || math.Abs(p.Y-50) > 10 {
			t.Fatalf("trail particle spawned at (%.1f, %.1f), too far from origin", p.X, p.Y)
		}
	}
}

func TestEmitPicksFromPalettesAndShapes(t *testing.T) {
	e := newTestEngine()
	e.Emit(Explosion, 0, 0, 100)
	palette := map[Color]bool{0xFF4444: true, 0xFF8800: true, 0xFFAA00: true, 0xFFFF00: true}
	for _, p := range e.Particles() {
		if !palette[p.Color] {
			t.Fatalf("unexpected explosion color %06X", uint32(p.Color))
		}
		if p.Shape == Star || p.Shape == Heart {
			t.Fatalf("unexpected explosion shape %s", p.Shape)
		}
	}
}

func TestStepAppliesGravityAndAges(t *testing.T) {
	e := newTestEngine()
	e.particles = []Particle{{X: 10, Y: 10, VX: 2, VY: -3, Life: 5, MaxLife: 10, RotationSpeed: 4}}

	e.Step()
	p := e.particles[0]
	if p.VY != -2.5 {
		t.Errorf("vy = %v, want -2.5", p.VY)
	}
	if p.X != 12 || p.Y != 7.5 {
		t.Errorf("position = (%v, %v), want (12, 7.5)", p.X, p.Y)
	}
	if p.Life != 4 || p.Rotation != 4 {
		t.Errorf("life=%v rotation=%v, want 4 and 4", p.Life, p.Rotation)
	}
}

func TestStepRemovesDeadParticles(t *testing.T) {
	e := newTestEngine()
	e.particles = []Particle{
		{Life: 1, MaxLife: 10},
		{Life: 3, MaxLife: 10},
		{Life: 0.5, MaxLife: 10},
	}
	e.Step()
	if e.Len() != 1 {
		t.Fatalf("expected 1 survivor, got %d", e.Len())
	}
	if e.particles[0].Life != 2 {
		t.Errorf("wrong survivor: life=%v", e.particles[0].Life)
	}
}

func TestAlpha(t *testing.T) {
	tests := []struct {
		life, maxLife float64
		want          uint8
	}{
		{60, 60, 255},
		{30, 60, 127},
		{0, 60, 0},
		{-5, 60, 0},
		{90, 60, 255},
		{10, 0, 0},
	}
	for _, tt := range tests {
		p := Particle{Life: tt.life, MaxLife: tt.maxLife}
		if got := p.Alpha(); got != tt.want {
			t.Errorf("Alpha(life=%v, max=%v) = %d, want %d", tt.life, tt.maxLife, got, tt.want)
		}
	}
}

func TestAttachedEngineIdlesWhenEmpty(t *testing.T) {
	clock := sched.New(time.Unix(0, 0))
	e := newTestEngine()
	e.Attach(clock, time.Second/60)

	if e.Ticking() || clock.Pending() != 0 {
		t.Fatal("empty engine should not hold a timer")
	}

	frames := 0
	e.OnFrame(func([]Sprite) { frames++ })
	e.Emit(Sparkle, 200, 650, 12)
	if !e.Ticking() {
		t.Fatal("emit should start the tick timer")
	}

	// Every sparkle dies within 60 ticks.
	clock.AdvanceBy(2 * time.Second)
	if e.Len() != 0 {
		t.Fatalf("expected all particles dead, %d left", e.Len())
	}
	if e.Ticking() || clock.Pending() != 0 {
		t.Error("engine should stop its timer once empty")
	}
	if frames == 0 || frames > 60 {
		t.Errorf("unexpected frame count %d", frames)
	}
}

func TestClearStopsTimer(t *testing.T) {
	clock := sched.New(time.Unix(0, 0))
	e := newTestEngine()
	e.Attach(clock, time.Second/60)
	e.Emit(Confetti, 0, 0, 30)

	e.Clear()
	if e.Len() != 0 || e.Ticking() || clock.Pending() != 0 {
		t.Fatal("clear should empty the set and stop the timer")
	}
	e.Emit(Sparkle, 0, 0, 1)
	if !e.Ticking() {
		t.Error("engine should restart after clear")
	}
}

func TestFrameHookPanicIsRecovered(t *testing.T) {
	clock := sched.New(time.Unix(0, 0))
	e := newTestEngine()
	e.Attach(clock, time.Second/60)
	e.OnFrame(func([]Sprite) { panic("boom") })
	e.Emit(Explosion, 0, 0, 5)

	clock.AdvanceBy(time.Second / 60)
	if e.Len() == 0 {
		t.Fatal("particles should survive a failing hook")
	}
}

func TestEmitIgnoresNonPositiveCount(t *testing.T) {
	e := newTestEngine()
	e.Emit(Sparkle, 0, 0, 0)
	e.Emit(Sparkle, 0, 0, -3)
	if e.Len() != 0 {
		t.Errorf("expected no particles, got %d", e.Len())
	}
}
