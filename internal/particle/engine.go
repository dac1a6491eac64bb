package particle

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/dodge/internal/sched"
)

// Sprite is a particle as the renderer sees it.
type Sprite struct {
	X, Y     float64
	Size     float64
	Rotation float64
	Shape    Shape
	Color    Color
	Alpha    uint8
}

// Engine owns the live particle set. It is not safe for concurrent use;
// drive it from the goroutine that owns its scheduler.
type Engine struct {
	particles []Particle
	rng       *rand.Rand
	logger    *log.Logger

	clock   *sched.Scheduler
	period  time.Duration
	timer   *sched.Timer
	onFrame func([]Sprite)
}

// NewEngine creates an idle engine. A nil logger discards output.
func NewEngine(rng *rand.Rand, logger *log.Logger) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{rng: rng, logger: logger}
}

// Attach lets the engine tick itself on clock every period while particles
// are alive.
func (e *Engine) Attach(clock *sched.Scheduler, period time.Duration) {
	e.stopTimer()
	e.clock = clock
	e.period = period
	if len(e.particles) > 0 {
		e.startTimer()
	}
}

// OnFrame sets a hook that receives the sprites after every scheduled tick.
func (e *Engine) OnFrame(fn func([]Sprite)) {
	e.onFrame = fn
}

// Emit adds count particles of the given kind centred on (x, y).
func (e *Engine) Emit(kind Kind, x, y float64, count int) {
	p, ok := presets[kind]
	if !ok || count <= 0 {
		return
	}
	for i := 0; i < count; i++ {
		e.particles = append(e.particles, p.spawn(e.rng, x, y))
	}
	e.startTimer()
}

// Step advances every particle by one tick and drops the dead ones.
func (e *Engine) Step() {
	alive := e.particles[:0]
	for i := range e.particles {
		if e.particles[i].step() {
			alive = append(alive, e.particles[i])
		}
	}
	for i := len(alive); i < len(e.particles); i++ {
		e.particles[i] = Particle{}
	}
	e.particles = alive
}

// Clear drops every particle and idles the engine.
func (e *Engine) Clear() {
	e.particles = e.particles[:0]
	e.stopTimer()
}

// Len returns the number of live particles.
func (e *Engine) Len() int {
	return len(e.particles)
}

// Ticking reports whether the engine currently holds a scheduler timer.
func (e *Engine) Ticking() bool {
	return e.timer.Active()
}

// Particles returns a copy of the live set.
func (e *Engine) Particles() []Particle {
	out := make([]Particle, len(e.particles))
	copy(out, e.particles)
	return out
}

// Frame renders the live set into sprites.
func (e *Engine) Frame() []Sprite {
	out := make([]Sprite, 0, len(e.particles))
	for i := range e.particles {
		p := &e.particles[i]
		out = append(out, Sprite{
			X:        p.X,
			Y:        p.Y,
			Size:     p.Size,
			Rotation: p.Rotation,
			Shape:    p.Shape,
			Color:    p.Color,
			Alpha:    p.Alpha(),
		})
	}
	return out
}

func (e *Engine) tick(time.Time) {
	e.Step()
	if e.onFrame != nil {
		e.publish(e.Frame())
	}
	if len(e.particles) == 0 {
		e.stopTimer()
	}
}

func (e *Engine) publish(frame []Sprite) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("particle frame hook panicked", "panic", r)
		}
	}()
	e.onFrame(frame)
}

func (e *Engine) startTimer() {
	if e.clock == nil || e.period <= 0 || e.timer.Active() {
		return
	}
	e.timer = e.clock.Every(e.period, e.tick)
}

func (e *Engine) stopTimer() {
	e.timer.Stop()
	e.timer = nil
}
