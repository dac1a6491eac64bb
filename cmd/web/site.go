package main

import (
	_ "embed"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/tomz197/dodge/internal/store"
)

//go:embed index.html
var htmlPage string

const (
	boardPushInterval = 2 * time.Second
	wsWriteTimeout    = 10 * time.Second
	wsPongTimeout     = 60 * time.Second
)

// page holds the values substituted into the landing page.
type page struct {
	SSHHost string
	SSHPort string
}

type site struct {
	page     page
	scores   store.Store
	logger   *log.Logger
	push     time.Duration
	upgrader websocket.Upgrader
}

func newSite(p page, scores store.Store, logger *log.Logger) *site {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &site{
		page:   p,
		scores: scores,
		logger: logger,
		push:   boardPushInterval,
		upgrader: websocket.Upgrader{
			// The feed is read-only public data.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *site) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/scores", s.handleScores).Methods(http.MethodGet)
	r.HandleFunc("/api/scores/{player}", s.handlePlayer).Methods(http.MethodGet)
	r.HandleFunc("/ws/scores", s.handleFeed)
	return r
}

func (s *site) render() string {
	return strings.NewReplacer(
		"{{.SSHHost}}", s.page.SSHHost,
		"{{.SSHPort}}", s.page.SSHPort,
	).Replace(htmlPage)
}

func (s *site) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, s.render())
}

func (s *site) handleScores(w http.ResponseWriter, r *http.Request) {
	board, err := store.Board(s.scores)
	if err != nil {
		s.logger.Error("failed to read scores", "err", err)
		http.Error(w, "scores unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, board)
}

func (s *site) handlePlayer(w http.ResponseWriter, r *http.Request) {
	player := mux.Vars(r)["player"]
	board, err := store.Board(s.scores)
	if err != nil {
		s.logger.Error("failed to read scores", "err", err)
		http.Error(w, "scores unavailable", http.StatusInternalServerError)
		return
	}
	for _, e := range board {
		if e.Player == player {
			writeJSON(w, e)
			return
		}
	}
	http.Error(w, "unknown player", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// handleFeed pushes the leaderboard to a websocket client whenever it
// changes, checking every push interval.
func (s *site) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	// Reader drains control frames and notices the client leaving.
	conn.SetReadLimit(1 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
		return nil
	})
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.push)
	defer ticker.Stop()

	var last []byte
	for {
		board, err := store.Board(s.scores)
		if err != nil {
			s.logger.Error("failed to read scores", "err", err)
		} else if msg, err := json.Marshal(board); err == nil && string(msg) != string(last) {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Debug("websocket write failed", "err", err)
				return
			}
			last = msg
		} else {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}

		select {
		case <-ticker.C:
		case <-gone:
			return
		case <-r.Context().Done():
			return
		}
	}
}
