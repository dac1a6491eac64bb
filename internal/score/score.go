// Package score tracks the score, combo streak and record of one game.
package score

import (
	"fmt"
	"math/rand"
	"time"
)

// HighScores is the per-player record storage the tracker reads and updates.
type HighScores interface {
	Score(difficulty string) int
	SetScoreIfHigher(difficulty string, score int)
}

// State is a snapshot of a game's scoring.
type State struct {
	Difficulty string
	Score      int
	Combo      int
	Record     int // Best known score for Difficulty, including this game
	LastDodge  time.Time
	HasDodged  bool
	GameOver   bool
}

// Callout is a short styled message shown for a combo.
type Callout struct {
	Text  string
	Color uint32 // 0xRRGGBB
}

// Result describes the effects of a single Dodge or Collide.
type Result struct {
	Score     int
	Combo     int
	Record    int
	Trail     bool    // Combo reached the trail threshold
	Callout   Callout // Set when Trail is set
	NewRecord bool
	Ignored   bool // Game was already over
}

// Tracker updates State for one game. Not safe for concurrent use.
type Tracker struct {
	state     State
	store     HighScores
	window    time.Duration
	threshold int
	persisted bool
}

// NewTracker creates a tracker for difficulty. store may be nil, in which
// case records are neither loaded nor saved.
func NewTracker(difficulty string, store HighScores, window time.Duration, threshold int) *Tracker {
	t := &Tracker{
		store:     store,
		window:    window,
		threshold: threshold,
	}
	t.state.Difficulty = difficulty
	t.Reset()
	return t
}

// State returns the current snapshot.
func (t *Tracker) State() State {
	return t.state
}

// Reset starts a new game on the same difficulty and reloads the record.
func (t *Tracker) Reset() {
	t.state = State{
		Difficulty: t.state.Difficulty,
		Record:     t.loadRecord(),
	}
	t.persisted = false
}

// Dodge credits one dodged ball at now.
func (t *Tracker) Dodge(now time.Time) Result {
	s := &t.state
	if s.GameOver {
		return Result{Score: s.Score, Combo: s.Combo, Record: s.Record, Ignored: true}
	}

	s.Score++
	if s.HasDodged && now.Sub(s.LastDodge) < t.window {
		s.Combo++
	} else {
		s.Combo = 1
	}
	s.LastDodge = now
	s.HasDodged = true

	res := Result{Score: s.Score, Combo: s.Combo}
	if s.Combo >= t.threshold {
		res.Trail = true
		res.Callout = ComboCallout(s.Combo)
	}
	if s.Score > s.Record {
		s.Record = s.Score
		res.NewRecord = true
		if t.store != nil {
			t.store.SetScoreIfHigher(s.Difficulty, s.Score)
		}
	}
	res.Record = s.Record
	return res
}

// Collide ends the game and persists the final score. Calling it again
// returns the same result without saving twice.
func (t *Tracker) Collide() Result {
	s := &t.state
	s.GameOver = true
	if !t.persisted && t.store != nil {
		t.store.SetScoreIfHigher(s.Difficulty, s.Score)
	}
	t.persisted = true
	return Result{Score: s.Score, Combo: s.Combo, Record: s.Record}
}

func (t *Tracker) loadRecord() int {
	if t.store == nil {
		return 0
	}
	return t.store.Score(t.state.Difficulty)
}

// ComboCallout returns the message for a combo of n, escalating at 5, 7 and 10.
func ComboCallout(n int) Callout {
	switch {
	case n >= 10:
		return Callout{Text: fmt.Sprintf("🔥 COMBO x%d! ¡EN LLAMAS!", n), Color: 0xFF0000}
	case n >= 7:
		return Callout{Text: fmt.Sprintf("⚡ COMBO x%d! ¡BRUTAL!", n), Color: 0xFF6600}
	case n >= 5:
		return Callout{Text: fmt.Sprintf("💥 COMBO x%d! ¡GENIAL!", n), Color: 0xFFAA00}
	default:
		return Callout{Text: fmt.Sprintf("🔥 COMBO x%d!", n), Color: 0xFFD700}
	}
}

var recordMessages = []string{
	"🔥 ¡ESTÁS EN FUEGO!",
	"⚡ ¡IMPARABLE!",
	"🌟 ¡NUEVO RÉCORD!",
	"💪 ¡INCREÍBLE!",
	"🚀 ¡LEYENDA!",
}

// RecordMessage picks a celebration message uniformly at random.
func RecordMessage(rng *rand.Rand) string {
	return recordMessages[rng.Intn(len(recordMessages))]
}
