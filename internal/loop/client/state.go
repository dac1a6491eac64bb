package client

import (
	"time"

	"github.com/tomz197/dodge/internal/input"
)

// Screen is the client's current view.
type Screen int

const (
	ScreenMenu     Screen = iota // Difficulty selection
	ScreenPlaying                // Countdown and gameplay
	ScreenGameOver               // Final score, restart prompt
	ScreenShutdown               // Server is shutting down
)

// ClientState holds per-connection UI state. Game state lives in the session.
type ClientState struct {
	Input         input.Input
	Screen        Screen
	Running       bool           // Client loop running
	Difficulty    string         // Last chosen difficulty
	MenuRecords   map[string]int // Records shown in the menu, refreshed on entry
	MenuBest      int            // Best score over all difficulties
	delta         time.Duration  // Frame delta time
	lastInput     time.Time
	shutdownTimer float64 // Seconds before auto-disconnect on shutdown
	isInactive    bool    // Whether the client is in inactive warning state
	prevScreen    Screen  // Screen drawn in the previous frame
	wasInactive   bool    // Inactivity state drawn in the previous frame
}

// NewClientState creates a new initialized client state.
func NewClientState(now time.Time) *ClientState {
	return &ClientState{
		Screen:      ScreenMenu,
		Running:     true,
		MenuRecords: make(map[string]int),
		lastInput:   now,
		prevScreen:  -1,
	}
}
