package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/dodge/internal/config"
	"github.com/tomz197/dodge/internal/draw"
	"github.com/tomz197/dodge/internal/loop/client"
	"github.com/tomz197/dodge/internal/loop/server"
	"github.com/tomz197/dodge/internal/store"
)

// shutdownGrace is how long players get to read the shutdown notice.
const shutdownGrace = 15 * time.Second

type app struct {
	games  *server.Server
	scores store.Store
	logger *log.Logger
}

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(".env", *configPath)
	if err != nil {
		log.Fatal("config error", "err", err)
	}
	logger := cfg.NewLogger(os.Stderr, "ssh")

	workingDir, err := os.Getwd()
	if err != nil {
		logger.Warn("failed to get working directory", "err", err)
	}
	logger.Info("ssh config", "host", cfg.SSH.Host, "port", cfg.SSH.Port,
		"hostKeyPath", cfg.SSH.HostKeyPath, "workingDir", workingDir, "scores", cfg.ScoresPath)

	scores, err := store.OpenFile(cfg.ScoresPath)
	if err != nil {
		logger.Fatal("failed to open scores", "err", err)
	}
	logger.Info("score store opened", "path", scores.Path())

	srv := &app{
		games:  server.NewServer(logger),
		scores: scores,
		logger: logger,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)),
		wish.WithMiddleware(
			srv.gameMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.SSH.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting SSH server", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		for _, h := range srv.games.Clients() {
			logger.Info("notifying player of shutdown", "session", h.ID.String(), "user", h.Username,
				"playing", time.Since(h.Joined).Round(time.Second))
		}
		srv.games.Shutdown(shutdownGrace)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", "err", err)
	}
	logger.Info("server stopped")
}

// gameMiddleware runs one independent game per SSH session. All sessions
// share the score store.
func (srv *app) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			wish.Fatalln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		handle := srv.games.RegisterClient(sess.User())
		defer srv.games.UnregisterClient(handle.ID)

		logger := srv.logger.With("session", handle.ID.String(), "user", sess.User())
		logger.Info("new game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		colorTerm := ""
		for _, kv := range sess.Environ() {
			if k, v, found := strings.Cut(kv, "="); found && k == "COLORTERM" {
				colorTerm = v
			}
		}

		c := client.NewClient(bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Player:       sess.User(),
			Scores:       srv.scores,
			Profile:      draw.ProfileFor(pty.Term, colorTerm),
			Logger:       logger,
			Shutdown:     srv.games.Done(),
		})
		if err := c.Run(); err != nil {
			logger.Error("game error", "err", err)
		}

		logger.Info("session ended", "online", srv.games.Len()-1)
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
