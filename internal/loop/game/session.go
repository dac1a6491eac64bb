// Package game runs one player's dodge game: spawning, motion, collision,
// scoring and the visual feedback that goes with them.
//
// A Session never starts goroutines. All of its work happens inside timer
// callbacks of the scheduler it was created with, so whoever drives the
// scheduler owns the session.
package game

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/dodge/internal/difficulty"
	"github.com/tomz197/dodge/internal/event"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/particle"
	"github.com/tomz197/dodge/internal/sched"
	"github.com/tomz197/dodge/internal/score"
)

// Phase is the lifecycle stage of a session.
type Phase int

const (
	PhaseIdle      Phase = iota // Created, not started
	PhaseCountdown              // 3, 2, 1, GO!
	PhasePlaying                // Balls are falling
	PhaseOver                   // Hit by a ball
	PhaseStopped                // Left by the player
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhaseOver:
		return "over"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Options configures a session. Zero values are usable.
type Options struct {
	Difficulty    string           // Unknown tags fall back to easy
	Scores        score.HighScores // Record book, nil keeps records in memory only
	Bus           *event.Bus       // Receives presentation events, may be nil
	Rand          *rand.Rand       // Source for spawn positions and particles
	Logger        *log.Logger      // nil discards output
	SkipCountdown bool             // Start spawning immediately
}

// Session is one game for one player. Not safe for concurrent use.
type Session struct {
	clock   *sched.Scheduler
	bus     *event.Bus
	logger  *log.Logger
	rng     *rand.Rand
	profile difficulty.Profile
	screen  object.Screen

	player    *object.Player
	spawner   *object.Spawner
	tracker   *score.Tracker
	particles *particle.Engine
	balls     []*object.Ball

	phase         Phase
	skipCountdown bool
	countdown     *sched.Timer
	motion        *sched.Timer
	newRecord     bool // A record was broken during the current game
}

// NewSession creates an idle session driven by clock.
func NewSession(clock *sched.Scheduler, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	profile, ok := difficulty.Lookup(opts.Difficulty)
	if !ok {
		logger.Warn("unknown difficulty, using easy", "difficulty", opts.Difficulty)
	}

	screen := object.Screen{Width: config.CanvasWidth, Height: config.CanvasHeight}
	s := &Session{
		clock:         clock,
		bus:           opts.Bus,
		logger:        logger.With("difficulty", profile.Tag),
		rng:           rng,
		profile:       profile,
		screen:        screen,
		player:        object.NewPlayer(screen, config.PlayerWidth, config.PlayerHeight, config.PlayerBottomMargin),
		tracker:       score.NewTracker(profile.Tag, opts.Scores, config.ComboWindow, config.ComboTrailThreshold),
		particles:     particle.NewEngine(rand.New(rand.NewSource(rng.Int63())), logger),
		skipCountdown: opts.SkipCountdown,
	}
	s.spawner = object.NewSpawner(screen, config.BallSize, profile.SpawnInterval, profile.FallDuration, rng, s.enter)
	s.particles.Attach(clock, config.ParticleTickTime)
	return s
}

// Start begins the countdown, or play directly when the countdown is
// skipped. It does nothing while a game is already running; after a game
// over or Stop it starts a fresh game like Restart.
func (s *Session) Start() {
	switch s.phase {
	case PhaseCountdown, PhasePlaying:
		return
	case PhaseOver, PhaseStopped:
		s.Restart()
		return
	}
	if s.skipCountdown || len(config.CountdownSteps) == 0 {
		s.begin(s.clock.Now())
		return
	}
	s.phase = PhaseCountdown
	s.countdownStep(0)(s.clock.Now())
}

func (s *Session) countdownStep(i int) func(time.Time) {
	return func(now time.Time) {
		s.countdown = nil
		if s.phase != PhaseCountdown {
			return
		}
		s.publish(now, event.Event{Type: event.Countdown, Text: config.CountdownSteps[i]})
		if i == len(config.CountdownSteps)-1 {
			s.begin(now)
			return
		}
		s.countdown = s.clock.After(config.CountdownStepTime, s.countdownStep(i+1))
	}
}

func (s *Session) begin(now time.Time) {
	s.phase = PhasePlaying
	s.logger.Debug("game started", "record", s.tracker.State().Record)
	s.publish(now, event.Event{Type: event.GameStarted, Record: s.tracker.State().Record})
	s.motion = s.clock.Every(config.MotionTickTime, s.tick)
	s.spawner.Start(s.clock)
}

// Stop ends the session without a game over. Every pending timer of the
// session is cancelled.
func (s *Session) Stop() {
	s.halt()
	s.particles.Clear()
	s.phase = PhaseStopped
}

// Restart resets the score, clears the field and starts a new game on the
// same difficulty.
func (s *Session) Restart() {
	s.halt()
	s.particles.Clear()
	s.tracker.Reset()
	s.player.Center()
	s.newRecord = false
	s.phase = PhaseIdle
	s.Start()
}

// halt cancels the game timers and clears the field.
func (s *Session) halt() {
	s.countdown.Stop()
	s.countdown = nil
	s.motion.Stop()
	s.motion = nil
	s.spawner.Stop()
	s.clearBalls(s.clock.Now())
}

func (s *Session) clearBalls(now time.Time) {
	for _, b := range s.balls {
		if b.Remove() {
			s.publish(now, event.Event{Type: event.ObjectRemoved, ObjectID: b.ID})
		}
	}
	s.balls = s.balls[:0]
}

// enter receives every spawned ball.
func (s *Session) enter(b *object.Ball) {
	s.balls = append(s.balls, b)
	s.publish(b.Born, event.Event{Type: event.ObjectEntered, ObjectID: b.ID, X: b.X, Y: b.Y})
}

// MoveTo centres the player on x.
func (s *Session) MoveTo(x float64) {
	s.player.MoveTo(x)
}

// MoveBy shifts the player by dx.
func (s *Session) MoveBy(dx float64) {
	s.player.MoveBy(dx)
}

// SetSlider places the player at a fraction of the free width.
func (s *Session) SetSlider(fraction float64) {
	s.player.SetSlider(fraction)
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) State() score.State {
	return s.tracker.State()
}

func (s *Session) Profile() difficulty.Profile {
	return s.profile
}

func (s *Session) Screen() object.Screen {
	return s.screen
}

// NewRecord reports whether the current game has broken the record.
func (s *Session) NewRecord() bool {
	return s.newRecord
}

// Balls returns copies of the balls in play.
func (s *Session) Balls() []object.Ball {
	out := make([]object.Ball, len(s.balls))
	for i, b := range s.balls {
		out[i] = *b
	}
	return out
}

// Player returns a copy of the player hitbox.
func (s *Session) Player() object.Player {
	return *s.player
}

// Particles renders the live particles.
func (s *Session) Particles() []particle.Sprite {
	return s.particles.Frame()
}

func (s *Session) publish(now time.Time, e event.Event) {
	e.At = now
	e.Difficulty = s.profile.Tag
	s.bus.Publish(e)
}
