package object

import (
	"math/rand"
	"time"

	"github.com/tomz197/dodge/internal/sched"
)

// Spawner drops a new ball at a random x every interval until stopped.
type Spawner struct {
	screen   Screen
	size     float64
	interval time.Duration
	fall     time.Duration
	rng      *rand.Rand
	sink     func(*Ball)

	nextID  uint64
	clock   *sched.Scheduler
	timer   *sched.Timer
	running bool
}

// NewSpawner creates a spawner that hands every new ball to sink.
func NewSpawner(screen Screen, size float64, interval, fall time.Duration, rng *rand.Rand, sink func(*Ball)) *Spawner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Spawner{
		screen:   screen,
		size:     size,
		interval: interval,
		fall:     fall,
		rng:      rng,
		sink:     sink,
	}
}

// Start spawns the first ball right away and keeps spawning on clock.
func (s *Spawner) Start(clock *sched.Scheduler) {
	if s.running {
		return
	}
	s.clock = clock
	s.running = true
	s.tick(clock.Now())
}

// Stop cancels the pending spawn. No ball is spawned after Stop returns.
func (s *Spawner) Stop() {
	s.running = false
	s.timer.Stop()
	s.timer = nil
}

func (s *Spawner) tick(now time.Time) {
	s.timer = nil
	if !s.running {
		return
	}
	s.Spawn(now)
	// The sink may have stopped us (e.g. the game ended).
	if s.running {
		s.timer = s.clock.After(s.interval, s.tick)
	}
}

// Spawn creates one ball at time now at a uniformly random x within
// [0, width-size] and passes it to the sink.
func (s *Spawner) Spawn(now time.Time) *Ball {
	maxX := s.screen.Width - s.size
	x := 0.0
	if maxX > 0 {
		x = s.rng.Float64() * maxX
	}
	s.nextID++
	ball := NewBall(s.nextID, x, s.size, s.screen.Height, s.fall, now)
	if s.sink != nil {
		s.sink(ball)
	}
	return ball
}
