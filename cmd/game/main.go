package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/tomz197/dodge/internal/audio"
	"github.com/tomz197/dodge/internal/config"
	"github.com/tomz197/dodge/internal/draw"
	"github.com/tomz197/dodge/internal/event"
	"github.com/tomz197/dodge/internal/loop/client"
	"github.com/tomz197/dodge/internal/store"
	"golang.org/x/term"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	player := flag.String("player", "", "player name records are stored under")
	level := flag.String("difficulty", "", "difficulty preselected in the menu (easy, medium, hard)")
	scoresPath := flag.String("scores", "", "high score file")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	cfg, err := config.Load(".env", *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *player != "" {
		cfg.Player = *player
	}
	if *scoresPath != "" {
		cfg.ScoresPath = *scoresPath
	}
	if *level != "" {
		cfg.Difficulty = *level
	}
	if *mute {
		cfg.Sound = false
	}

	// Logs go to a file; stdout belongs to the game.
	logFile, err := os.OpenFile("dodge.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := cfg.NewLogger(logFile, "dodge")

	scores, err := store.OpenFile(cfg.ScoresPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open scores: %v\n", err)
		os.Exit(1)
	}
	logger.Info("score store opened", "path", scores.Path())

	var subscribers []event.Handler
	if cfg.Sound {
		sound := audio.NewPlayer(logger)
		if err := sound.Init(); err == nil {
			defer sound.Close()
			subscribers = append(subscribers, sound.Handle)
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	c := client.NewClient(bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Player:      cfg.Player,
		Difficulty:  cfg.Difficulty,
		Scores:      scores,
		Profile:     draw.LocalProfile(),
		Logger:      logger,
		Subscribers: subscribers,
	})
	if err := c.Run(); err != nil {
		logger.Error("game error", "err", err)
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
