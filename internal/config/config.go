package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/tomz197/dodge/internal/store"
)

// Config is the runtime configuration shared by the game, SSH and web
// binaries. Sources are applied in order: defaults, TOML file, environment.
// Command-line flags are applied last by each binary.
type Config struct {
	Player     string `toml:"player"`
	Difficulty string `toml:"difficulty"`
	ScoresPath string `toml:"scores_path"`
	Sound      bool   `toml:"sound"`
	LogLevel   string `toml:"log_level"`

	SSH SSHConfig `toml:"ssh"`
	Web WebConfig `toml:"web"`
}

type SSHConfig struct {
	Host        string `toml:"host"`
	Port        string `toml:"port"`
	HostKeyPath string `toml:"host_key_path"`
}

type WebConfig struct {
	Host        string `toml:"host"`
	Port        string `toml:"port"`
	DisplayHost string `toml:"display_host"` // SSH host shown on the landing page
	SSHPort     string `toml:"ssh_port"`     // SSH port shown on the landing page
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Player:     store.DefaultPlayer,
		Difficulty: "easy",
		ScoresPath: "scores.yaml",
		Sound:      true,
		LogLevel:   "info",
		SSH: SSHConfig{
			Host:        "::",
			Port:        "2222",
			HostKeyPath: ".ssh/host_key",
		},
		Web: WebConfig{
			Host:        "0.0.0.0",
			Port:        "8080",
			DisplayHost: "your-server.com",
			SSHPort:     "2222",
		},
	}
}

// Load builds the configuration. envFile is loaded into the process
// environment first when it exists (variables already set win). path names
// an optional TOML file; when empty, DODGE_CONFIG is consulted.
func Load(envFile, path string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if path == "" {
		path = GetEnv("DODGE_CONFIG", "")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Player = GetEnv("DODGE_PLAYER", c.Player)
	c.Difficulty = GetEnv("DODGE_DIFFICULTY", c.Difficulty)
	c.ScoresPath = GetEnv("DODGE_SCORES", c.ScoresPath)
	c.Sound = GetEnvBool("DODGE_SOUND", c.Sound)
	c.LogLevel = GetEnv("DODGE_LOG_LEVEL", c.LogLevel)

	c.SSH.Host = GetEnv("SSH_HOST", c.SSH.Host)
	c.SSH.Port = GetEnv("SSH_PORT", c.SSH.Port)
	c.SSH.HostKeyPath = GetEnv("SSH_HOST_KEY", c.SSH.HostKeyPath)

	c.Web.Host = GetEnv("WEB_HOST", c.Web.Host)
	c.Web.Port = GetEnv("WEB_PORT", c.Web.Port)
	c.Web.DisplayHost = GetEnv("SSH_DISPLAY_HOST", c.Web.DisplayHost)
	c.Web.SSHPort = GetEnv("SSH_DISPLAY_PORT", c.Web.SSHPort)
}

// NewLogger creates a logger writing to w at the configured level. An
// unknown level logs at info and says so.
func (c Config) NewLogger(w io.Writer, prefix string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(strings.TrimSpace(c.LogLevel))
	if err != nil {
		logger.SetLevel(log.InfoLevel)
		logger.Warn("unknown log level, using info", "level", c.LogLevel)
		return logger
	}
	logger.SetLevel(level)
	return logger
}
