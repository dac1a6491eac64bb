package server

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Every game runs its own world; the server only tracks who is connected
// and tells them when the process is going away.

// ClientHandle represents a connected player.
type ClientHandle struct {
	ID       uuid.UUID
	Username string
	Joined   time.Time
}

// Server is the registry of live game sessions.
type Server struct {
	mu       sync.RWMutex
	clients  map[uuid.UUID]*ClientHandle
	shutdown chan struct{}
	once     sync.Once
	logger   *log.Logger
	now      func() time.Time
}

// NewServer creates an empty registry.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		clients:  make(map[uuid.UUID]*ClientHandle),
		shutdown: make(chan struct{}),
		logger:   logger,
		now:      time.Now,
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	h := &ClientHandle{ID: uuid.New(), Username: username, Joined: s.now()}
	s.mu.Lock()
	s.clients[h.ID] = h
	n := len(s.clients)
	s.mu.Unlock()
	s.logger.Debug("client registered", "id", h.ID, "user", username, "online", n)
	return h
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(id uuid.UUID) {
	s.mu.Lock()
	delete(s.clients, id)
	n := len(s.clients)
	s.mu.Unlock()
	s.logger.Debug("client unregistered", "id", id, "online", n)
}

// Clients returns the connected clients, earliest first.
func (s *Server) Clients() []ClientHandle {
	s.mu.RLock()
	out := make([]ClientHandle, 0, len(s.clients))
	for _, h := range s.clients {
		out = append(out, *h)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Joined.Equal(out[j].Joined) {
			return out[i].Joined.Before(out[j].Joined)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Len reports the number of connected clients.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Done is closed once Shutdown has been called.
func (s *Server) Done() <-chan struct{} {
	return s.shutdown
}

// Shutdown notifies all connected clients and waits for them to
// disconnect, up to timeout. It reports whether every client left in time.
func (s *Server) Shutdown(timeout time.Duration) bool {
	s.once.Do(func() { close(s.shutdown) })

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.Len() == 0 {
			return true
		}
		select {
		case <-deadline:
			s.logger.Warn("clients still connected after shutdown timeout", "online", s.Len())
			return false
		case <-ticker.C:
		}
	}
}
