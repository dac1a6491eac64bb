package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("DODGE_TEST_STR", "hola")
	t.Setenv("DODGE_TEST_BOOL", "off")
	t.Setenv("DODGE_TEST_BAD_BOOL", "maybe")

	if got := GetEnv("DODGE_TEST_STR", "x"); got != "hola" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnv("DODGE_TEST_MISSING", "x"); got != "x" {
		t.Errorf("GetEnv fallback = %q", got)
	}
	if GetEnvBool("DODGE_TEST_BOOL", true) {
		t.Error("GetEnvBool(off) = true")
	}
	if !GetEnvBool("DODGE_TEST_BAD_BOOL", true) {
		t.Error("GetEnvBool should fall back on garbage")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DODGE_CONFIG", "")
	cfg, err := Load("", "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Player != "Invitado" || cfg.Difficulty != "easy" || cfg.SSH.Port != "2222" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "dodge.toml")
	err := os.WriteFile(tomlPath, []byte(`
player = "Ana"
difficulty = "hard"
sound = false

[ssh]
port = "2323"
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("DODGE_PLAYER=Luis\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv sets variables in the process; make sure the test cleans up.
	t.Setenv("DODGE_PLAYER", "")
	os.Unsetenv("DODGE_PLAYER")
	t.Setenv("SSH_PORT", "2424")

	cfg, err := Load(envPath, tomlPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Player != "Luis" {
		t.Errorf("player = %q, want env value from .env", cfg.Player)
	}
	if cfg.Difficulty != "hard" || cfg.Sound {
		t.Errorf("toml values not applied: %+v", cfg)
	}
	if cfg.SSH.Port != "2424" {
		t.Errorf("ssh port = %q, env should win over toml", cfg.SSH.Port)
	}
	if cfg.SSH.Host != "::" {
		t.Errorf("ssh host = %q, default should survive", cfg.SSH.Host)
	}
}

func TestLoadMissingEnvFileIsFine(t *testing.T) {
	t.Setenv("DODGE_CONFIG", "")
	if _, err := Load(filepath.Join(t.TempDir(), ".env"), ""); err != nil {
		t.Errorf("missing .env should be ignored: %v", err)
	}
}

func TestLoadBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("player = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load("", path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestNewLoggerUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogLevel = "chatty"
	logger := cfg.NewLogger(&buf, "test")
	logger.Debug("hidden")
	if !strings.Contains(buf.String(), "unknown log level") {
		t.Errorf("missing warning in %q", buf.String())
	}
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug line logged at info level")
	}
}
