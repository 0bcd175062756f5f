// Package config reads rangelog settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DBPath        string        `env:"RANGELOG_DB"`
	PhotoDir      string        `env:"RANGELOG_PHOTO_DIR"`
	Pro           bool          `env:"RANGELOG_PRO" envDefault:"false"`
	Features      []string      `env:"RANGELOG_FEATURES" envSeparator:","`
	FlushInterval time.Duration `env:"RANGELOG_FLUSH_INTERVAL" envDefault:"2s"`
	Debug         bool          `env:"RANGELOG_DEBUG" envDefault:"false"`
}

// Load reads .env (if present) and the environment. Empty paths default to
// ~/.rangelog; a leading ~/ is expanded.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads configuration from environment variables only
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.FlushInterval <= 0 {
		return Config{}, fmt.Errorf("RANGELOG_FLUSH_INTERVAL must be positive, got %s", cfg.FlushInterval)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("failed to get home directory: %w", err)
	}
	cfg.DBPath = resolvePath(cfg.DBPath, home, "rangelog.db")
	cfg.PhotoDir = resolvePath(cfg.PhotoDir, home, "photos")
	return cfg, nil
}

func resolvePath(path, home, name string) string {
	switch {
	case path == "":
		return filepath.Join(home, ".rangelog", name)
	case path == ":memory:":
		return path
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	}
	return path
}
