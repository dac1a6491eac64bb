package store

import (
	"sort"
	"sync"
)

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	scores map[string]int
}

func NewMemory() *Memory {
	return &Memory{scores: make(map[string]int)}
}

func (m *Memory) Score(player, difficulty string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scores[Key(player, difficulty)], nil
}

func (m *Memory) SetIfHigher(player, difficulty string, score int) (bool, error) {
	if score < 0 {
		return false, ErrInvalidScore
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := Key(player, difficulty)
	if score <= m.scores[k] {
		return false, nil
	}
	m.scores[k] = score
	return true, nil
}

func (m *Memory) Players() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return playersOf(m.scores), nil
}

func playersOf(scores map[string]int) []string {
	seen := make(map[string]struct{})
	for k := range scores {
		if p, _, ok := parseKey(k); ok {
			seen[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
