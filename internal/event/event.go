// Package event carries fire-and-forget presentation events from a game
// session to its renderers, sound and scoreboards.
package event

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Type identifies what happened.
type Type int

const (
	GameStarted Type = iota
	Countdown
	ObjectEntered
	ObjectRemoved
	Dodged
	ScoreChanged
	ComboReached
	HighScoreBroken
	GameOver
)

func (t Type) String() string {
	switch t {
	case GameStarted:
		return "game_started"
	case Countdown:
		return "countdown"
	case ObjectEntered:
		return "object_entered"
	case ObjectRemoved:
		return "object_removed"
	case Dodged:
		return "dodged"
	case ScoreChanged:
		return "score_changed"
	case ComboReached:
		return "combo_reached"
	case HighScoreBroken:
		return "high_score_broken"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event is a flat payload; only the fields relevant to Type are set.
type Event struct {
	Type       Type
	At         time.Time
	Difficulty string
	ObjectID   uint64
	X, Y       float64 // Logical canvas position for floating text
	Score      int
	Combo      int
	Record     int
	NewRecord  bool
	Text       string
	Color      uint32 // 0xRRGGBB
}

// Handler receives events synchronously on the publishing goroutine.
type Handler func(Event)

// Bus fans events out to subscribers. A panicking subscriber is logged and
// skipped; it never reaches the publisher.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
	order    []int
	logger   *log.Logger
}

// NewBus creates a bus. A nil logger discards output.
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bus{handlers: make(map[int]Handler), logger: logger}
}

// Subscribe registers h and returns a func that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers e to every subscriber in subscription order.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		hs = append(hs, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range hs {
		b.deliver(h, e)
	}
}

func (b *Bus) deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "event", e.Type, "panic", r)
		}
	}()
	h(e)
}
