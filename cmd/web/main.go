package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/dodge/internal/config"
	"github.com/tomz197/dodge/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(".env", *configPath)
	if err != nil {
		log.Fatal("config error", "err", err)
	}
	logger := cfg.NewLogger(os.Stderr, "web")

	scores, err := store.OpenFile(cfg.ScoresPath)
	if err != nil {
		logger.Fatal("failed to open scores", "err", err)
	}
	logger.Info("score store opened", "path", scores.Path())

	site := newSite(page{SSHHost: cfg.Web.DisplayHost, SSHPort: cfg.Web.SSHPort}, scores, logger)
	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Web.Host, cfg.Web.Port),
		Handler:           site.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting web server", "addr", "http://"+srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
