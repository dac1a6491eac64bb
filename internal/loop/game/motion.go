package game

import (
	"slices"
	"time"

	"github.com/tomz197/dodge/internal/event"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/particle"
	"github.com/tomz197/dodge/internal/score"
)

// confettiBursts are the record celebration bursts as fractions of the
// play area.
var confettiBursts = []struct {
	fx, fy float64
	count  int
}{
	{0.2, 0.2, 25},
	{0.8, 0.2, 25},
	{0.5, 0.3, 30},
	{0.3, 0.7, 20},
	{0.7, 0.7, 20},
}

// tick is the motion step. Every ball moves and is tested against the
// player before any dodge is credited, so a tick with a hit never scores.
func (s *Session) tick(now time.Time) {
	if s.phase != PhasePlaying {
		return
	}

	hitbox := s.player.Rect()
	var hit *object.Ball
	for _, b := range s.balls {
		b.Advance(now)
		if hit == nil && b.Rect().Overlaps(hitbox) {
			hit = b
		}
	}
	if hit != nil {
		s.collide(hit, now)
		return
	}

	// Landed balls are credited one at a time; a subscriber may end or
	// restart the game while one is being credited.
	motion := s.motion
	for i := 0; i < len(s.balls); {
		b := s.balls[i]
		if !b.ReachedBottom() {
			i++
			continue
		}
		s.balls = slices.Delete(s.balls, i, i+1)
		if b.Dodge() {
			s.dodged(b, now)
		}
		if b.Remove() {
			s.publish(now, event.Event{Type: event.ObjectRemoved, ObjectID: b.ID})
		}
		if s.phase != PhasePlaying || s.motion != motion {
			return
		}
	}
}

func (s *Session) dodged(b *object.Ball, now time.Time) {
	res := s.tracker.Dodge(now)
	if res.Ignored {
		return
	}

	x := b.X + b.Size/2
	y := s.screen.Height - config.DodgeSparkleLift
	s.particles.Emit(particle.Sparkle, x, y, config.DodgeSparkleCount)
	s.publish(now, event.Event{Type: event.Dodged, ObjectID: b.ID, X: x, Y: y, Score: res.Score, Combo: res.Combo, Text: "+1"})
	s.publish(now, event.Event{Type: event.ScoreChanged, Score: res.Score, Combo: res.Combo, Record: res.Record})

	if res.Trail {
		cx, cy := s.player.CenterPoint()
		s.particles.Emit(particle.Trail, cx, cy, config.ComboTrailCount)
		s.publish(now, event.Event{
			Type:  event.ComboReached,
			X:     cx,
			Y:     cy,
			Combo: res.Combo,
			Score: res.Score,
			Text:  res.Callout.Text,
			Color: res.Callout.Color,
		})
	}
	if res.NewRecord {
		s.celebrate(res, now)
	}
}

func (s *Session) celebrate(res score.Result, now time.Time) {
	s.newRecord = true
	for _, c := range confettiBursts {
		s.particles.Emit(particle.Confetti, s.screen.FractionX(c.fx), s.screen.FractionY(c.fy), c.count)
	}
	s.logger.Debug("new record", "score", res.Score)
	s.publish(now, event.Event{
		Type:      event.HighScoreBroken,
		X:         s.screen.FractionX(0.5),
		Y:         s.screen.FractionY(0.4),
		Score:     res.Score,
		Record:    res.Record,
		NewRecord: true,
		Text:      score.RecordMessage(s.rng),
	})
}

func (s *Session) collide(hit *object.Ball, now time.Time) {
	hit.Collide()
	res := s.tracker.Collide()

	s.countdown.Stop()
	s.motion.Stop()
	s.motion = nil
	s.spawner.Stop()
	s.clearBalls(now)
	s.phase = PhaseOver

	cx, cy := s.player.CenterPoint()
	s.particles.Emit(particle.Explosion, cx, cy, config.ExplosionCount)
	s.logger.Info("game over", "score", res.Score, "record", res.Record, "new_record", s.newRecord)
	s.publish(now, event.Event{
		Type:      event.GameOver,
		ObjectID:  hit.ID,
		X:         cx,
		Y:         cy,
		Score:     res.Score,
		Record:    res.Record,
		NewRecord: s.newRecord,
	})
}
