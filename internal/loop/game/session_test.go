package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/dodge/internal/event"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/sched"
	"github.com/tomz197/dodge/internal/store"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type recorder struct {
	events []event.Event
}

func (r *recorder) handle(e event.Event) { r.events = append(r.events, e) }

func (r *recorder) of(t event.Type) []event.Event {
	var out []event.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	clock   *sched.Scheduler
	session *Session
	events  *recorder
	scores  *store.Memory
}

func newFixture(t *testing.T, difficulty string, skipCountdown bool) *fixture {
	t.Helper()
	clock := sched.New(epoch)
	bus := event.NewBus(nil)
	rec := &recorder{}
	bus.Subscribe(rec.handle)
	mem := store.NewMemory()
	s := NewSession(clock, Options{
		Difficulty:    difficulty,
		Scores:        store.ForPlayer(mem, "", nil),
		Bus:           bus,
		Rand:          rand.New(rand.NewSource(42)),
		SkipCountdown: skipCountdown,
	})
	return &fixture{clock: clock, session: s, events: rec, scores: mem}
}

// run advances the clock in motion-tick steps, letting adjust reposition
// every ball after each step.
func (f *fixture) run(d time.Duration, adjust func(*object.Ball)) {
	end := f.clock.Now().Add(d)
	for f.clock.Now().Before(end) {
		step := min(config.MotionTickTime, end.Sub(f.clock.Now()))
		f.clock.AdvanceBy(step)
		if adjust != nil {
			for _, b := range f.session.balls {
				adjust(b)
			}
		}
	}
}

func keepLeft(b *object.Ball) { b.X = 0 }

func TestSingleDodgeScoresOne(t *testing.T) {
	f := newFixture(t, "easy", true)
	f.session.Start()
	f.session.MoveTo(config.CanvasWidth)

	f.run(2600*time.Millisecond, keepLeft)

	if got := f.session.State().Score; got != 1 {
		t.Fatalf("score = %d, want 1", got)
	}
	dodges := f.events.of(event.Dodged)
	if len(dodges) != 1 {
		t.Fatalf("expected 1 dodge event, got %d", len(dodges))
	}
	d := dodges[0]
	if d.X != 35 || d.Y != config.CanvasHeight-50 || d.Text != "+1" {
		t.Errorf("dodge event = %+v", d)
	}
	if len(f.events.of(event.ObjectRemoved)) != 1 {
		t.Error("dodged ball was not removed")
	}
	if f.session.Phase() != PhasePlaying {
		t.Errorf("phase = %s", f.session.Phase())
	}
}

func TestCollisionEndsGame(t *testing.T) {
	f := newFixture(t, "easy", true)
	f.session.Start()
	playerX := f.session.Player().X

	f.run(2600*time.Millisecond, func(b *object.Ball) { b.X = playerX })

	if f.session.Phase() != PhaseOver {
		t.Fatalf("phase = %s, want over", f.session.Phase())
	}
	if f.session.State().Score != 0 || !f.session.State().GameOver {
		t.Errorf("state = %+v", f.session.State())
	}
	if n := len(f.events.of(event.Dodged)); n != 0 {
		t.Errorf("a hit ball was credited as dodged %d times", n)
	}
	if n := len(f.events.of(event.GameOver)); n != 1 {
		t.Fatalf("expected 1 game over event, got %d", n)
	}
	if len(f.session.Balls()) != 0 {
		t.Error("balls left in play after game over")
	}
	if len(f.session.Particles()) == 0 {
		t.Error("expected an explosion")
	}

	entered := len(f.events.of(event.ObjectEntered))
	f.run(5*time.Second, nil)
	if got := len(f.events.of(event.ObjectEntered)); got != entered {
		t.Errorf("spawner kept running after game over: %d -> %d", entered, got)
	}
	if len(f.session.Particles()) != 0 {
		t.Error("explosion never finished")
	}
	if f.clock.Pending() != 0 {
		t.Errorf("%d timers still pending", f.clock.Pending())
	}
}

func TestHitWinsOverLandingInSameTick(t *testing.T) {
	f := newFixture(t, "easy", true)
	f.session.Start()
	now := f.clock.Now()
	fall := f.session.Profile().FallDuration
	p := f.session.Player()

	landed := object.NewBall(100, 0, config.BallSize, config.CanvasHeight, fall, now.Add(-3*time.Second))
	hitter := object.NewBall(101, p.X, config.BallSize, config.CanvasHeight, fall, now.Add(-fall*85/100))
	f.session.balls = []*object.Ball{landed, hitter}

	f.session.tick(now)

	if f.session.Phase() != PhaseOver {
		t.Fatalf("phase = %s, want over", f.session.Phase())
	}
	if f.session.State().Score != 0 {
		t.Errorf("score = %d, want 0", f.session.State().Score)
	}
	if hitter.Outcome() != object.BallCollided {
		t.Errorf("hitter outcome = %s", hitter.Outcome())
	}
	if landed.Outcome() == object.BallDodged {
		t.Error("ball credited as dodged in the game over tick")
	}
}

func TestComboTrailOnHard(t *testing.T) {
	f := newFixture(t, "hard", true)
	f.session.Start()
	f.session.MoveTo(config.CanvasWidth)

	f.run(2300*time.Millisecond, keepLeft)

	if f.session.State().Score != 3 {
		t.Fatalf("score = %d, want 3", f.session.State().Score)
	}
	combos := f.events.of(event.ComboReached)
	if len(combos) != 1 || combos[0].Combo != 3 {
		t.Fatalf("combo events = %+v", combos)
	}
	if combos[0].Text != "🔥 COMBO x3!" {
		t.Errorf("callout = %q", combos[0].Text)
	}
}

func TestFirstDodgeBreaksEmptyRecord(t *testing.T) {
	f := newFixture(t, "easy", true)
	particlesAtRecord := 0
	f.session.bus.Subscribe(func(e event.Event) {
		if e.Type == event.HighScoreBroken {
			particlesAtRecord = f.session.particles.Len()
		}
	})
	f.session.Start()
	f.session.MoveTo(config.CanvasWidth)

	f.run(2600*time.Millisecond, keepLeft)

	broken := f.events.of(event.HighScoreBroken)
	if len(broken) != 1 || broken[0].Score != 1 || broken[0].Text == "" {
		t.Fatalf("record events = %+v", broken)
	}
	if want := config.DodgeSparkleCount + 120; particlesAtRecord < want {
		t.Errorf("particles at celebration = %d, want at least %d", particlesAtRecord, want)
	}
	if v, _ := f.scores.Score(store.DefaultPlayer, "easy"); v != 1 {
		t.Errorf("stored record = %d, want 1", v)
	}
	if !f.session.NewRecord() {
		t.Error("session should remember the broken record")
	}
}

func TestStopCancelsEverything(t *testing.T) {
	f := newFixture(t, "medium", true)
	f.session.Start()
	f.run(time.Second, keepLeft)

	f.session.Stop()
	if f.clock.Pending() != 0 {
		t.Fatalf("%d timers pending after Stop", f.clock.Pending())
	}
	entered := len(f.events.of(event.ObjectEntered))
	f.run(10*time.Second, nil)
	if got := len(f.events.of(event.ObjectEntered)); got != entered {
		t.Errorf("spawned after Stop: %d -> %d", entered, got)
	}
	if f.session.Phase() != PhaseStopped {
		t.Errorf("phase = %s", f.session.Phase())
	}
}

func TestCountdownDelaysSpawning(t *testing.T) {
	f := newFixture(t, "easy", false)
	f.session.Start()

	f.clock.AdvanceBy(3*config.CountdownStepTime - time.Millisecond)
	if f.session.Phase() != PhaseCountdown {
		t.Fatalf("phase = %s, want countdown", f.session.Phase())
	}
	if n := len(f.events.of(event.ObjectEntered)); n != 0 {
		t.Fatalf("%d balls spawned during the countdown", n)
	}

	f.clock.AdvanceBy(time.Millisecond)
	steps := f.events.of(event.Countdown)
	if len(steps) != 4 {
		t.Fatalf("countdown events = %d, want 4", len(steps))
	}
	for i, want := range config.CountdownSteps {
		if steps[i].Text != want {
			t.Errorf("step %d = %q, want %q", i, steps[i].Text, want)
		}
	}
	if f.session.Phase() != PhasePlaying || len(f.events.of(event.ObjectEntered)) != 1 {
		t.Error("play did not start after GO!")
	}
}

func TestStopDuringCountdown(t *testing.T) {
	f := newFixture(t, "easy", false)
	f.session.Start()
	f.clock.AdvanceBy(config.CountdownStepTime)
	f.session.Stop()

	f.clock.AdvanceBy(10 * time.Second)
	if len(f.events.of(event.GameStarted)) != 0 {
		t.Error("game started after Stop")
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	f := newFixture(t, "easy", true)
	f.session.Start()
	playerX := f.session.Player().X
	f.run(2600*time.Millisecond, func(b *object.Ball) { b.X = playerX })
	if f.session.Phase() != PhaseOver {
		t.Fatal("expected game over")
	}
	f.session.MoveTo(0)

	f.session.Restart()
	s := f.session.State()
	if f.session.Phase() != PhasePlaying || s.GameOver || s.Score != 0 {
		t.Fatalf("phase=%s state=%+v", f.session.Phase(), s)
	}
	if got, want := f.session.Player().X, (config.CanvasWidth-config.PlayerWidth)/2.0; got != want {
		t.Errorf("player x = %v, want %v", got, want)
	}
	if len(f.session.Balls()) != 1 {
		t.Errorf("expected a fresh ball, got %d", len(f.session.Balls()))
	}
}

func TestUnknownDifficultyFallsBackToEasy(t *testing.T) {
	f := newFixture(t, "nightmare", true)
	if f.session.Profile().Tag != "easy" {
		t.Errorf("profile = %s", f.session.Profile().Tag)
	}
}

func TestStartIsIdempotentWhilePlaying(t *testing.T) {
	f := newFixture(t, "easy", true)
	f.session.Start()
	f.session.Start()
	if n := len(f.events.of(event.GameStarted)); n != 1 {
		t.Errorf("game started %d times", n)
	}
}

func TestStartAfterGameOverPlaysFreshGame(t *testing.T) {
	f := newFixture(t, "easy", true)
	f.session.Start()
	playerX := f.session.Player().X
	f.run(2600*time.Millisecond, func(b *object.Ball) { b.X = playerX })
	if f.session.Phase() != PhaseOver {
		t.Fatal("expected game over")
	}

	f.session.Start()
	f.session.MoveTo(config.CanvasWidth)
	f.run(2600*time.Millisecond, keepLeft)

	s := f.session.State()
	if f.session.Phase() != PhasePlaying || s.GameOver {
		t.Fatalf("phase=%s state=%+v", f.session.Phase(), s)
	}
	if s.Score != 1 {
		t.Errorf("score = %d, want 1", s.Score)
	}
}

func TestStartAfterStopResetsScore(t *testing.T) {
	f := newFixture(t, "easy", true)
	f.session.Start()
	f.session.MoveTo(config.CanvasWidth)
	f.run(2600*time.Millisecond, keepLeft)
	if f.session.State().Score != 1 {
		t.Fatalf("score = %d, want 1", f.session.State().Score)
	}

	f.session.Stop()
	f.session.Start()
	if f.session.Phase() != PhasePlaying || f.session.State().Score != 0 {
		t.Errorf("phase=%s state=%+v", f.session.Phase(), f.session.State())
	}
}

func TestStopWhileCreditingLeavesRestUncredited(t *testing.T) {
	f := newFixture(t, "easy", true)
	f.session.Start()
	f.session.MoveTo(config.CanvasWidth)
	now := f.clock.Now()
	fall := f.session.Profile().FallDuration

	first := object.NewBall(100, 0, config.BallSize, config.CanvasHeight, fall, now.Add(-3*time.Second))
	second := object.NewBall(101, config.BallSize, config.BallSize, config.CanvasHeight, fall, now.Add(-3*time.Second))
	f.session.balls = []*object.Ball{first, second}
	f.session.bus.Subscribe(func(e event.Event) {
		if e.Type == event.Dodged {
			f.session.Stop()
		}
	})

	f.session.tick(now)

	if n := len(f.events.of(event.Dodged)); n != 1 {
		t.Fatalf("dodge events = %d, want 1", n)
	}
	if first.Outcome() != object.BallDodged || first.State() != object.BallRemoved {
		t.Errorf("first ball: outcome=%s state=%s", first.Outcome(), first.State())
	}
	if second.Outcome() == object.BallDodged {
		t.Error("second ball marked dodged without a dodge signal")
	}
	if second.State() != object.BallRemoved {
		t.Errorf("second ball state = %s", second.State())
	}
	if f.session.Phase() != PhaseStopped {
		t.Errorf("phase = %s", f.session.Phase())
	}
}
