// Package sched runs game timers cooperatively on a single goroutine.
//
// A Scheduler owns its own clock. Nothing happens until the owner calls
// Advance, which fires every due timer in order on the caller's goroutine.
// Callbacks therefore never overlap and need no locking as long as one
// goroutine drives the scheduler.
package sched

import (
	"container/heap"
	"time"
)

// Timer is a scheduled callback. Periodic timers re-arm themselves until stopped.
type Timer struct {
	s       *Scheduler
	due     time.Time
	period  time.Duration // 0 for one-shot timers
	seq     uint64        // creation order, breaks ties between equal due times
	index   int           // position in the queue, -1 when not queued
	stopped bool
	fn      func(now time.Time)
}

// Stop cancels the timer. Returns false if it had already fired (one-shot)
// or was already stopped.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped {
		return false
	}
	t.stopped = true
	if t.index >= 0 {
		heap.Remove(&t.s.queue, t.index)
	}
	return true
}

// Active reports whether the timer can still fire.
func (t *Timer) Active() bool {
	return t != nil && !t.stopped
}

// Scheduler is a deterministic timer queue driven by Advance.
type Scheduler struct {
	now   time.Time
	seq   uint64
	queue timerQueue
}

// New creates a scheduler whose clock starts at start.
func New(start time.Time) *Scheduler {
	return &Scheduler{now: start}
}

// Now returns the scheduler clock.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// Pending returns the number of armed timers.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// After fires fn once, delay after the current scheduler time.
func (s *Scheduler) After(delay time.Duration, fn func(now time.Time)) *Timer {
	if delay < 0 {
		delay = 0
	}
	return s.add(delay, 0, fn)
}

// Every fires fn every period, starting one period from now.
// Panics if period is not positive.
func (s *Scheduler) Every(period time.Duration, fn func(now time.Time)) *Timer {
	if period <= 0 {
		panic("sched: non-positive period for Every")
	}
	return s.add(period, period, fn)
}

func (s *Scheduler) add(delay, period time.Duration, fn func(now time.Time)) *Timer {
	s.seq++
	t := &Timer{
		s:      s,
		due:    s.now.Add(delay),
		period: period,
		seq:    s.seq,
		index:  -1,
		fn:     fn,
	}
	heap.Push(&s.queue, t)
	return t
}

// Advance moves the clock to `to`, firing every timer due at or before it.
// Timers fire in due-time order; the clock reads each timer's due time while
// its callback runs. A periodic timer that fell behind fires once per missed
// period. Returns the number of callbacks run.
func (s *Scheduler) Advance(to time.Time) int {
	fired := 0
	for len(s.queue) > 0 {
		t := s.queue[0]
		if t.due.After(to) {
			break
		}
		heap.Pop(&s.queue)
		if t.due.After(s.now) {
			s.now = t.due
		}

		// Re-arm before the callback so the callback can Stop it.
		if t.period > 0 {
			t.due = t.due.Add(t.period)
			s.seq++
			t.seq = s.seq
			heap.Push(&s.queue, t)
		} else {
			t.stopped = true
		}

		t.fn(s.now)
		fired++
	}
	if to.After(s.now) {
		s.now = to
	}
	return fired
}

// AdvanceBy is shorthand for Advance(Now().Add(d)).
func (s *Scheduler) AdvanceBy(d time.Duration) int {
	return s.Advance(s.now.Add(d))
}

// timerQueue is a min-heap ordered by (due, seq).
type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
