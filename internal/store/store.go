// Package store persists per-player, per-difficulty high scores.
package store

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tomz197/dodge/internal/difficulty"
)

// DefaultPlayer is used when no player name is given.
const DefaultPlayer = "Invitado"

const keyPrefix = "score_"

// ErrInvalidScore is returned for negative scores.
var ErrInvalidScore = errors.New("store: negative score")

// Store reads and updates high scores. Implementations must be safe for
// concurrent use.
type Store interface {
	// Score returns the record for player on difficulty, 0 if none.
	Score(player, difficulty string) (int, error)
	// SetIfHigher stores score when it beats the current record.
	SetIfHigher(player, difficulty string, score int) (bool, error)
	// Players lists every player with at least one stored score.
	Players() ([]string, error)
}

// Key returns the storage key for a player's score on a difficulty.
func Key(player, difficulty string) string {
	return keyPrefix + normalizePlayer(player) + "_" + difficulty
}

// parseKey splits a key produced by Key. Player names may contain
// underscores, difficulty tags never do.
func parseKey(key string) (player, difficulty string, ok bool) {
	rest, found := strings.CutPrefix(key, keyPrefix)
	if !found {
		return "", "", false
	}
	i := strings.LastIndexByte(rest, '_')
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

func normalizePlayer(player string) string {
	player = strings.TrimSpace(player)
	if player == "" {
		return DefaultPlayer
	}
	return player
}

// Record returns the player's best score across all difficulties.
func Record(s Store, player string) (int, error) {
	best := 0
	for _, tag := range difficulty.Tags() {
		v, err := s.Score(player, tag)
		if err != nil {
			return 0, fmt.Errorf("record for %s: %w", player, err)
		}
		best = max(best, v)
	}
	return best, nil
}

// Entry is one scoreboard row.
type Entry struct {
	Player string         `json:"player"`
	Scores map[string]int `json:"scores"`
	Best   int            `json:"best"`
}

// Board builds the scoreboard, best players first.
func Board(s Store) ([]Entry, error) {
	players, err := s.Players()
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	board := make([]Entry, 0, len(players))
	for _, p := range players {
		e := Entry{Player: p, Scores: make(map[string]int)}
		for _, tag := range difficulty.Tags() {
			v, err := s.Score(p, tag)
			if err != nil {
				return nil, fmt.Errorf("score for %s: %w", p, err)
			}
			e.Scores[tag] = v
			e.Best = max(e.Best, v)
		}
		board = append(board, e)
	}
	sort.SliceStable(board, func(i, j int) bool {
		if board[i].Best != board[j].Best {
			return board[i].Best > board[j].Best
		}
		return board[i].Player < board[j].Player
	})
	return board, nil
}

// PlayerScores adapts a Store to a single player's record book. Errors are
// logged and otherwise ignored so storage trouble never interrupts a game.
type PlayerScores struct {
	store  Store
	player string
	logger *log.Logger
}

// ForPlayer binds s to player. A nil logger discards output.
func ForPlayer(s Store, player string, logger *log.Logger) *PlayerScores {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PlayerScores{store: s, player: normalizePlayer(player), logger: logger}
}

// Player returns the bound player name.
func (p *PlayerScores) Player() string {
	return p.player
}

func (p *PlayerScores) Score(difficulty string) int {
	v, err := p.store.Score(p.player, difficulty)
	if err != nil {
		p.logger.Warn("could not read high score", "player", p.player, "difficulty", difficulty, "err", err)
		return 0
	}
	return v
}

func (p *PlayerScores) SetScoreIfHigher(difficulty string, score int) {
	if _, err := p.store.SetIfHigher(p.player, difficulty, score); err != nil {
		p.logger.Warn("could not save high score", "player", p.player, "difficulty", difficulty, "score", score, "err", err)
	}
}

// Record returns the bound player's best score across difficulties, 0 on error.
func (p *PlayerScores) Record() int {
	v, err := Record(p.store, p.player)
	if err != nil {
		p.logger.Warn("could not read record", "player", p.player, "err", err)
		return 0
	}
	return v
}
